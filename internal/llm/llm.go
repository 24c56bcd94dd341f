// Package llm wraps the external text-completion collaborator. The core
// only ever needs a single prompt-in, text-out call; everything returned
// is parsed defensively by the caller.
package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completer produces a text completion for a prompt. Implementations must
// be safe to call from the request path; callers degrade to deterministic
// behavior on any error.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const requestTimeout = 15 * time.Second

// OpenAIClient is the production Completer backed by the chat
// completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Disabled is a Completer for running without an API key: it always
// errors, so every caller takes its deterministic fallback.
type Disabled struct{}

func (Disabled) Complete(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("llm disabled")
}
