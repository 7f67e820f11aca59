package model

import "time"

// Config is the full application configuration, loaded from defaults, the
// config file, CLAIMLENS_* environment variables, and CLI flags (in
// ascending priority).
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Database    DatabaseConfig    `yaml:"database" mapstructure:"database"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Fraud       FraudConfig       `yaml:"fraud" mapstructure:"fraud"`
	Notify      NotifyConfig      `yaml:"notify" mapstructure:"notify"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`                         // Listen address, e.g. ":8080"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // Graceful shutdown deadline
}

// DatabaseConfig controls claim and document persistence
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"` // Postgres DSN; empty selects the in-memory store
}

// LLMConfig holds text-generation provider configuration
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`       // openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`             // Model name (provider-specific)
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`         // For OpenAI/Anthropic
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`       // For custom endpoints (e.g. Ollama)
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"`         // Request timeout, seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`   // Response length cap
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"` // Kept low; eligibility is compliance-relevant
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// RetrievalConfig controls policy context retrieval
type RetrievalConfig struct {
	TopK             int     `yaml:"top_k" mapstructure:"top_k"`                         // Candidate passages per query
	MinRelevance     float64 `yaml:"min_relevance" mapstructure:"min_relevance"`         // Relevance threshold
	MaxContextLength int     `yaml:"max_context_length" mapstructure:"max_context_length"` // Combined context cap for claims
	ChunkSize        int     `yaml:"chunk_size" mapstructure:"chunk_size"`               // Document splitter chunk size
	ChunkOverlap     int     `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`         // Overlap between adjacent chunks
}

// FraudConfig controls the fraud rule engine
type FraudConfig struct {
	// PerturbationEnabled adds the +-0.1 model-uncertainty adjustment to the
	// rule score. Disable for fully deterministic scoring.
	PerturbationEnabled bool `yaml:"perturbation_enabled" mapstructure:"perturbation_enabled"`
}

// NotifyConfig controls claim decision notifications
type NotifyConfig struct {
	SMTPServer   string `yaml:"smtp_server" mapstructure:"smtp_server"`
	SMTPPort     int    `yaml:"smtp_port" mapstructure:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username" mapstructure:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password" mapstructure:"smtp_password"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	ClaimWorkers int `yaml:"claim_workers" mapstructure:"claim_workers"` // Concurrent claims in batch mode
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			URL: "",
		},
		LLM: LLMConfig{
			Provider:    "", // Disabled by default; analysis degrades to REQUIRES_REVIEW
			Model:       "",
			Timeout:     30,
			MaxTokens:   800,
			Temperature: 0.1,
			RatePerSec:  2,
			RateBurst:   4,
		},
		Retrieval: RetrievalConfig{
			TopK:             10,
			MinRelevance:     0.3,
			MaxContextLength: 3000,
			ChunkSize:        1000,
			ChunkOverlap:     200,
		},
		Fraud: FraudConfig{
			PerturbationEnabled: true,
		},
		Notify: NotifyConfig{
			SMTPServer: "smtp.gmail.com",
			SMTPPort:   587,
		},
		Concurrency: ConcurrencyConfig{
			ClaimWorkers: 4,
		},
		Output: OutputConfig{},
	}
}
