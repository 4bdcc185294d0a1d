package leads

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// SlackSink posts a formatted lead notification to an incoming-webhook URL.
type SlackSink struct {
	client     *resty.Client
	webhookURL string
}

func NewSlackSink(webhookURL string) *SlackSink {
	return &SlackSink{
		client:     resty.New(),
		webhookURL: webhookURL,
	}
}

func (s *SlackSink) Name() string { return "slack" }

type slackPayload struct {
	Text string `json:"text"`
}

func (s *SlackSink) Send(ctx context.Context, lead Lead) error {
	payload := slackPayload{
		Text: fmt.Sprintf(
			"📢 *New Lead Captured!*\n*Name:* %s\n*Email:* %s\n*Phone:* %s\n*Message:* %s",
			lead.Name, lead.Email, lead.Phone, lead.Summary,
		),
	}

	res, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(s.webhookURL)
	if err != nil {
		return fmt.Errorf("slack webhook post: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("slack webhook returned %s: %s", res.Status(), res.String())
	}
	return nil
}
