package llm

import (
	"github.com/sashabaranov/go-openai"

	"github.com/samassist/chatwidget/internal/config"
)

// NewClient creates the OpenAI chat completion client.
func NewClient(cfg config.Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}
