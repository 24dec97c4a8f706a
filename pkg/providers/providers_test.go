package providers

import (
	"context"
	"testing"
)

func TestNewSelectsProvider(t *testing.T) {
	ctx := context.Background()

	client, err := New(ctx, "openai", WithAPIKey("test-key"), WithBaseURL("http://localhost:1/v1/"))
	if err != nil {
		t.Fatalf("new openai: %v", err)
	}
	if _, ok := client.(*OpenAIClient); !ok {
		t.Errorf("expected *OpenAIClient, got %T", client)
	}

	if _, err := New(ctx, "carrier-pigeon"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := Gemini(context.Background(), ProviderParams{}); err == nil {
		t.Error("expected error without GEMINI_API_KEY")
	}
}

func TestDefaultModel(t *testing.T) {
	tests := map[string]string{
		"":       DefaultOpenAIModel,
		"openai": DefaultOpenAIModel,
		"Gemini": DefaultGeminiModel,
	}
	for name, want := range tests {
		if got := DefaultModel(name); got != want {
			t.Errorf("DefaultModel(%q) = %q, want %q", name, got, want)
		}
	}
}
