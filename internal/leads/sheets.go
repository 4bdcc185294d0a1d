package leads

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/google"
)

const (
	sheetsBaseURL     = "https://sheets.googleapis.com"
	spreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"
	// Leads land in the first sheet as [name, email, phone, message] rows.
	appendRange = "Sheet1!A:D"
)

// SheetsSink appends lead rows to a Google spreadsheet using a
// service-account credential file for auth.
type SheetsSink struct {
	client        *resty.Client
	spreadsheetID string
}

// NewSheetsSink builds the sink from a service-account JSON file. The
// returned client refreshes its bearer token automatically.
func NewSheetsSink(ctx context.Context, spreadsheetID, credentialsFile string) (*SheetsSink, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, spreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	return &SheetsSink{
		client:        resty.NewWithClient(conf.Client(ctx)).SetBaseURL(sheetsBaseURL),
		spreadsheetID: spreadsheetID,
	}, nil
}

// newSheetsSinkWithClient is the test seam: no credential exchange.
func newSheetsSinkWithClient(httpClient *http.Client, baseURL, spreadsheetID string) *SheetsSink {
	return &SheetsSink{
		client:        resty.NewWithClient(httpClient).SetBaseURL(baseURL),
		spreadsheetID: spreadsheetID,
	}
}

func (s *SheetsSink) Name() string { return "sheets" }

type appendRequest struct {
	Values [][]string `json:"values"`
}

func (s *SheetsSink) Send(ctx context.Context, lead Lead) error {
	body := appendRequest{
		Values: [][]string{{lead.Name, lead.Email, lead.Phone, lead.Summary}},
	}

	res, err := s.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"spreadsheetId": s.spreadsheetID,
			"range":         appendRange,
		}).
		SetQueryParam("valueInputOption", "USER_ENTERED").
		SetBody(body).
		Post("/v4/spreadsheets/{spreadsheetId}/values/{range}:append")
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("sheets append returned %s: %s", res.Status(), res.String())
	}
	return nil
}
