package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"motogarage/internal/garage"
	"motogarage/internal/maintenance"
)

// ErrUnavailable is returned when no advice API key is configured.
var ErrUnavailable = errors.New("advice service is not configured")

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Service generates maintenance advice for a motorcycle by calling an
// OpenAI-compatible chat completion API.
type Service struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// Option configures the Service during construction.
type Option func(*Service)

// WithAPIKey sets the bearer key for the advice API.
func WithAPIKey(key string) Option {
	return func(s *Service) {
		s.apiKey = strings.TrimSpace(key)
	}
}

// WithBaseURL overrides the base URL for advice API requests.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithModel overrides the model requested from the advice API.
func WithModel(model string) Option {
	return func(s *Service) {
		if strings.TrimSpace(model) != "" {
			s.model = model
		}
	}
}

// NewService constructs a Service.
func NewService(client *http.Client, opts ...Option) *Service {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	svc := &Service{
		client:  client,
		baseURL: defaultBaseURL,
		model:   defaultModel,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Advise asks the advice API what the rider should prioritize for the given
// motorcycle and its open maintenance tasks.
func (s *Service) Advise(ctx context.Context, moto garage.Motorcycle, openTasks []maintenance.Task) (string, error) {
	if s.apiKey == "" {
		return "", ErrUnavailable
	}

	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a motorcycle maintenance assistant. Give short, practical advice."},
			{Role: "user", Content: buildPrompt(moto, openTasks)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode advice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create advice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call advice api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advice api returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode advice response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("advice api returned no content")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func buildPrompt(moto garage.Motorcycle, openTasks []maintenance.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Motorcycle: %s", moto.Name)
	if moto.Maker != "" || moto.Model != "" {
		fmt.Fprintf(&b, " (%s %s)", moto.Maker, moto.Model)
	}
	if moto.Year != nil {
		fmt.Fprintf(&b, ", year %d", *moto.Year)
	}
	if moto.OdometerKm != nil {
		fmt.Fprintf(&b, ", odometer %d km", *moto.OdometerKm)
	}
	b.WriteString(".\n")

	if len(openTasks) == 0 {
		b.WriteString("No open maintenance tasks. Suggest a sensible routine check.")
		return b.String()
	}

	b.WriteString("Open maintenance tasks:\n")
	for _, task := range openTasks {
		fmt.Fprintf(&b, "- %s", task.Title)
		if task.DueOdometerKm != nil {
			fmt.Fprintf(&b, " (due at %d km)", *task.DueOdometerKm)
		}
		if task.DueDate != nil {
			fmt.Fprintf(&b, " (due %s)", task.DueDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	b.WriteString("Which should the rider prioritize and why?")
	return b.String()
}
