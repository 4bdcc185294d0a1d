// Package extract pulls contact details out of free-form chat text with
// pattern matching. Extraction is pure and best-effort: a field that does
// not match is simply absent, never an error.
package extract

import "regexp"

// Contact holds whatever contact details a message yielded. Empty string
// means the field was not present in the text.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Empty reports whether no field matched at all.
func (c Contact) Empty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == ""
}

// Reachable reports whether the contact is worth forwarding to sales,
// i.e. it carries at least one way to reach the visitor back.
func (c Contact) Reachable() bool {
	return c.Email != "" || c.Phone != ""
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// phonePatterns is tried in order and the first pattern that matches
// anywhere wins, regardless of where in the text a later pattern would
// have matched. The bare 10+ digit fallback also swallows longer numeric
// runs such as order IDs; that over-match is intentional.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{3}-\d{3}-\d{4}`),
	regexp.MustCompile(`\(\d{3}\)\s?\d{3}-\d{4}`),
	regexp.MustCompile(`\d{3}\.\d{3}\.\d{4}`),
	regexp.MustCompile(`\d{10,}`),
	regexp.MustCompile(`\+\d{1,4} \d{1,4} \d{1,4} \d{1,4}`),
}

// namePatterns matches self-introductions. The template part is
// case-insensitive but the captured name itself must be capitalized, so
// "I'm fine" never reads as a name while "i'm Sam Carter" does.
const nameGroup = `([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:\bi'm\s+)` + nameGroup),
	regexp.MustCompile(`(?i:\bmy name is\s+)` + nameGroup),
	regexp.MustCompile(`(?i:\bthis is\s+)` + nameGroup),
	regexp.MustCompile(`(?i:\bi am\s+)` + nameGroup),
}

// FromText scans a single message for an email address, a phone number and
// a self-introduced name. Each field takes the first match under its own
// pattern priority; absent fields stay empty.
func FromText(text string) Contact {
	var c Contact

	c.Email = emailPattern.FindString(text)

	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			c.Phone = m
			break
		}
	}

	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			c.Name = m[1]
			break
		}
	}

	return c
}
