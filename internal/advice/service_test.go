package advice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"motogarage/internal/garage"
	"motogarage/internal/maintenance"
)

func TestAdviseRequiresAPIKey(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Advise(context.Background(), garage.Motorcycle{Name: "SR400"}, nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAdviseSendsPromptAndReturnsContent(t *testing.T) {
	var received chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  Check the chain first.  "}},
			},
		})
	}))
	defer server.Close()

	svc := NewService(server.Client(), WithAPIKey("test-key"), WithBaseURL(server.URL))

	km := 42000
	moto := garage.Motorcycle{Name: "Commuter", Maker: "Yamaha", Model: "SR400", OdometerKm: &km}
	tasks := []maintenance.Task{{Title: "Chain tension", Status: maintenance.StatusOpen}}

	got, err := svc.Advise(context.Background(), moto, tasks)
	if err != nil {
		t.Fatalf("Advise returned error: %v", err)
	}
	if got != "Check the chain first." {
		t.Fatalf("unexpected advice %q", got)
	}

	if len(received.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(received.Messages))
	}
	prompt := received.Messages[1].Content
	if !strings.Contains(prompt, "Commuter") || !strings.Contains(prompt, "Chain tension") || !strings.Contains(prompt, "42000 km") {
		t.Fatalf("prompt missing context: %q", prompt)
	}
}

func TestAdviseFailsOnAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewService(server.Client(), WithAPIKey("test-key"), WithBaseURL(server.URL))

	if _, err := svc.Advise(context.Background(), garage.Motorcycle{Name: "SR400"}, nil); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestAdviseFailsOnEmptyChoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	svc := NewService(server.Client(), WithAPIKey("test-key"), WithBaseURL(server.URL))

	if _, err := svc.Advise(context.Background(), garage.Motorcycle{Name: "SR400"}, nil); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
