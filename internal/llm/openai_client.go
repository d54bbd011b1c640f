// ABOUTME: Completion client for any OpenAI-compatible chat completions endpoint
// ABOUTME: Sends system+user messages and maps transport and empty replies onto the domain error taxonomy
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harper/scholarchat/internal/models"
	"github.com/harper/scholarchat/internal/util"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL points at a local OpenAI-compatible server
	DefaultBaseURL = "http://localhost:8000/v1"
	// DefaultChatModel is the model name sent when none is configured
	DefaultChatModel = "gpt-oss-20B"
	// DefaultTimeout bounds a single completion request
	DefaultTimeout = 60 * time.Second
)

// ClientConfig holds configuration for the completion client
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger

	// HTTPClient overrides the transport; Timeout is ignored when set
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		BaseURL:    DefaultBaseURL,
		APIKey:     apiKey,
		ChatModel:  DefaultChatModel,
		Timeout:    DefaultTimeout,
		MaxRetries: 0,
		RetryDelay: 2 * time.Second,
	}
}

// OpenAIClient wraps the go-openai client
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewOpenAIClient creates a client with the default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a client with custom configuration.
// The API key may be empty for local endpoints that do not check it.
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config == nil {
		return nil, errors.New("client config is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("completion base URL is required")
	}
	model := config.ChatModel
	if model == "" {
		model = DefaultChatModel
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	oc := openai.DefaultConfig(config.APIKey)
	oc.BaseURL = baseURL
	if config.HTTPClient != nil {
		oc.HTTPClient = config.HTTPClient
	} else {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		oc.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		chatModel:  model,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		logger:     logger,
	}, nil
}

// GetClient returns the underlying go-openai client for direct use
func (c *OpenAIClient) GetClient() *openai.Client {
	return c.client
}

// Model returns the model name sent with every request
func (c *OpenAIClient) Model() string {
	return c.chatModel
}

// Complete sends one non-streaming chat completion and returns the first
// choice's content. Failures are *models.CompletionServiceError; an empty
// choice list or blank content wraps models.ErrEmptyCompletion.
func (c *OpenAIClient) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	var reply string
	err := util.Retry(ctx, c.maxRetries, c.retryDelay, retryable, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.chatModel,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
			Stream:      false,
		})
		if err != nil {
			return serviceError(err)
		}

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return &models.CompletionServiceError{Err: models.ErrEmptyCompletion}
		}

		reply = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		c.logger.Error("completion failed", zap.String("model", c.chatModel), zap.Error(err))
		return "", err
	}

	c.logger.Debug("completion received", zap.String("model", c.chatModel), zap.Int("chars", len(reply)))
	return reply, nil
}

// serviceError maps go-openai errors onto CompletionServiceError, keeping
// the HTTP status when the server produced one.
func serviceError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &models.CompletionServiceError{
			StatusCode: apiErr.HTTPStatusCode,
			Status:     statusText(apiErr.HTTPStatusCode),
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &models.CompletionServiceError{
			StatusCode: reqErr.HTTPStatusCode,
			Status:     statusText(reqErr.HTTPStatusCode),
			Err:        err,
		}
	}

	return &models.CompletionServiceError{Err: fmt.Errorf("completion request: %w", err)}
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", code)
}

// retryable reports transport failures, throttling and 5xx responses.
// Empty replies and client errors are permanent.
func retryable(err error) bool {
	if errors.Is(err, models.ErrEmptyCompletion) || errors.Is(err, context.Canceled) {
		return false
	}
	var svcErr *models.CompletionServiceError
	if !errors.As(err, &svcErr) {
		return false
	}
	if svcErr.StatusCode == 0 {
		return true
	}
	return svcErr.StatusCode == http.StatusTooManyRequests || svcErr.StatusCode >= 500
}
