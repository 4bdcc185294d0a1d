// Package assistant runs the dialogue loop: history in, completion out,
// with lead capture riding along as a side channel.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"github.com/samassist/chatwidget/internal/extract"
	"github.com/samassist/chatwidget/internal/history"
	"github.com/samassist/chatwidget/internal/leads"
	"github.com/samassist/chatwidget/internal/llm"
	"github.com/samassist/chatwidget/internal/logger"
	"github.com/samassist/chatwidget/internal/observability"
)

const (
	maxReplyTokens = 512
	temperature    = 0.2

	// summary for a forwarded lead: the visitor's last few messages.
	summaryTurns    = 3
	summaryMaxRunes = 200

	placeholderName = "Website visitor"
)

// Reply is what the HTTP layer serializes back to the widget.
type Reply struct {
	Text           string
	CaptureContact bool
	ContactFields  extract.Contact
}

// Orchestrator combines persona, website context and trimmed session
// history into completion requests and manages the resulting turns.
type Orchestrator struct {
	client            llm.Client
	model             string
	store             history.Store
	forwarder         *leads.Forwarder
	metrics           *observability.Metrics
	completionTimeout time.Duration
}

func New(client llm.Client, model string, store history.Store, forwarder *leads.Forwarder, metrics *observability.Metrics, completionTimeout time.Duration) *Orchestrator {
	if completionTimeout <= 0 {
		completionTimeout = 30 * time.Second
	}
	return &Orchestrator{
		client:            client,
		model:             model,
		store:             store,
		forwarder:         forwarder,
		metrics:           metrics,
		completionTimeout: completionTimeout,
	}
}

// Handle processes one visitor message and returns the assistant reply.
// Completion failures degrade to a fixed apology reply; the user turn stays
// in history but no assistant turn is recorded for the failed attempt.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, userText, websiteContext string) Reply {
	o.store.Append(sessionID, history.Turn{Role: history.RoleUser, Content: userText})

	contact := extract.FromText(userText)
	if contact.Reachable() {
		o.dispatchLead(sessionID, contact)
	}

	turns := o.store.Recent(sessionID)
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+2)
	messages = append(messages,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: Persona},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: "Website context: " + websiteContext},
	)
	for _, t := range turns {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(t.Role), Content: t.Content})
	}

	reply := Reply{
		CaptureContact: contact.Reachable() || hasContactIntent(userText),
		ContactFields:  contact,
	}

	callCtx, cancel := context.WithTimeout(ctx, o.completionTimeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   maxReplyTokens,
		Temperature: temperature,
	})
	o.metrics.ObserveCompletionLatency(time.Since(start))
	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("completion response has no choices")
	}
	if err != nil {
		o.metrics.CompletionFailures.Inc()
		logger.L.Error("completion call failed", "session_id", sessionID, "error", err)
		reply.Text = apologyReply
		return reply
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	o.store.Append(sessionID, history.Turn{Role: history.RoleAssistant, Content: text})
	reply.Text = text
	return reply
}

// dispatchLead builds a Lead from the extracted contact plus recent user
// turns and hands it to the forwarder off the reply path. A slow or failing
// sink can never add latency to the chat response.
func (o *Orchestrator) dispatchLead(sessionID string, contact extract.Contact) {
	lead := leads.Lead{
		ID:      uuid.NewString(),
		Name:    contact.Name,
		Email:   contact.Email,
		Phone:   contact.Phone,
		Summary: o.summarize(sessionID),
	}
	if lead.Name == "" {
		lead.Name = placeholderName
	}

	o.metrics.LeadsCaptured.Inc()
	logger.L.Info("lead captured", "lead_id", lead.ID, "session_id", sessionID,
		"has_email", lead.Email != "", "has_phone", lead.Phone != "")

	go o.forwarder.Forward(context.Background(), lead)
}

// summarize joins the visitor's last few messages into a short follow-up
// note for the sales team.
func (o *Orchestrator) summarize(sessionID string) string {
	var recent []string
	for _, t := range o.store.Recent(sessionID) {
		if t.Role != history.RoleUser {
			continue
		}
		recent = append(recent, t.Content)
	}
	if len(recent) > summaryTurns {
		recent = recent[len(recent)-summaryTurns:]
	}
	summary := strings.Join(recent, " | ")
	if runes := []rune(summary); len(runes) > summaryMaxRunes {
		summary = fmt.Sprintf("%s…", string(runes[:summaryMaxRunes]))
	}
	return summary
}

// hasContactIntent flags messages that suggest the visitor is ready to be
// contacted, so the widget can prompt for details.
func hasContactIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range []string{"email", "contact", "phone", "demo", "quote"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
