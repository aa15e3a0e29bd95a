package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/notexe/nevermiss/internal/config"
)

const (
	defaultOllamaURL     = "http://localhost:11434"
	defaultOllamaTimeout = 120 * time.Second

	// maxOllamaBody caps how much of a reply is read.
	maxOllamaBody = 1 << 20
)

// OllamaProvider talks to a local Ollama daemon through /api/chat.
// With format "json" the daemon constrains the reply to a JSON object.
type OllamaProvider struct {
	http    *http.Client
	chatURL string
	format  string
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg config.OllamaConfig) (*OllamaProvider, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOllamaURL
	}
	chatURL, err := url.JoinPath(base, "api", "chat")
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL %q: %w", base, err)
	}

	timeout := defaultOllamaTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &OllamaProvider{
		http:    &http.Client{Timeout: timeout},
		chatURL: chatURL,
		format:  cfg.Format,
	}, nil
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason,omitempty"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error,omitempty"`
}

// toOllamaChat flattens a request into Ollama's single non-streaming chat call.
func toOllamaChat(req MessageRequest, format string) ollamaChatRequest {
	msgs := make([]ollamaMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, ollamaMessage(m))
	}

	return ollamaChatRequest{
		Model:    req.Model,
		Messages: msgs,
		Format:   format,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
}

// SendMessage performs one chat call and returns the reply text.
func (p *OllamaProvider) SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	payload, err := json.Marshal(toOllamaChat(req, p.format))
	if err != nil {
		return nil, fmt.Errorf("failed to encode Ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.chatURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build Ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxOllamaBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read Ollama response: %w", err)
	}

	var out ollamaChatResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		detail := string(bytes.TrimSpace(raw))
		if decodeErr == nil && out.Error != "" {
			detail = out.Error
		}
		return nil, fmt.Errorf("Ollama returned status %d: %s", resp.StatusCode, detail)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode Ollama response: %w", decodeErr)
	}
	if !out.Done {
		return nil, fmt.Errorf("Ollama returned an incomplete reply")
	}

	return &MessageResponse{
		Content:    out.Message.Content,
		StopReason: out.DoneReason,
		Usage: Usage{
			InputTokens:  out.PromptEvalCount,
			OutputTokens: out.EvalCount,
		},
	}, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

func (p *OllamaProvider) Close() error {
	p.http.CloseIdleConnections()
	return nil
}
