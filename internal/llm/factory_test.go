package llm

import "testing"

func TestNewProvider_Selection(t *testing.T) {
	cases := []struct {
		name     string
		config   Config
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{name: "openai", config: Config{Provider: "openai", APIKey: "k"}, wantName: "openai"},
		{name: "anthropic", config: Config{Provider: "anthropic", APIKey: "k"}, wantName: "anthropic"},
		{name: "claude alias", config: Config{Provider: "claude", APIKey: "k"}, wantName: "anthropic"},
		{name: "ollama", config: Config{Provider: "ollama"}, wantName: "ollama"},
		{name: "disabled", config: Config{Provider: ""}, wantNil: true},
		{name: "unknown", config: Config{Provider: "palm"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider, err := NewProvider(tc.config)
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tc.wantNil {
				if provider != nil {
					t.Fatal("Expected nil provider when disabled")
				}
				return
			}
			if provider.Name() != tc.wantName {
				t.Errorf("Expected provider %q, got %q", tc.wantName, provider.Name())
			}
		})
	}
}

func TestNewProvider_MissingKeys(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("Expected error for openai without API key")
	}
	if _, err := NewProvider(Config{Provider: "anthropic"}); err == nil {
		t.Error("Expected error for anthropic without API key")
	}
}
