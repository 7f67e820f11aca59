package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/insurelab/claimlens/internal/claims"
	"github.com/insurelab/claimlens/internal/docs"
	"github.com/insurelab/claimlens/internal/eligibility"
	"github.com/insurelab/claimlens/internal/fraud"
	"github.com/insurelab/claimlens/internal/llm"
	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/notify"
	"github.com/insurelab/claimlens/internal/qa"
	"github.com/insurelab/claimlens/internal/retrieval"
	"github.com/insurelab/claimlens/internal/store"
	"github.com/insurelab/claimlens/internal/worker"
)

// app is the assembled application: the pipeline plus the stores and
// services built from one configuration
type app struct {
	cfg       *model.Config
	service   *claims.Service
	claims    store.ClaimRepository
	documents store.DocumentRepository
	index     *retrieval.Index
	ingestor  *docs.Processor
	qa        *qa.Service

	closers []func() error
}

// loadConfig merges defaults, the config file, and CLAIMLENS_* environment
// variables. Provider API keys come from the conventional env vars when the
// config leaves them empty.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}
	return cfg, nil
}

// buildApp wires every component from config. Postgres is used when a
// database URL is configured; otherwise everything runs in memory.
func buildApp(ctx context.Context, cfg *model.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.claims, a.documents = pg, pg
		a.closers = append(a.closers, pg.Close)
	} else {
		memory := store.NewMemoryStore()
		a.claims, a.documents = memory, memory
	}

	a.index = retrieval.NewIndex(nil, retrieval.IndexOptions{
		TopK:         cfg.Retrieval.TopK,
		MinRelevance: cfg.Retrieval.MinRelevance,
	})
	a.ingestor = docs.NewProcessor(
		docs.NewChunker(cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap),
		a.index, a.documents)

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("configuring provider: %w", err)
	}
	if provider != nil && cfg.LLM.RatePerSec > 0 {
		provider = llm.Throttled(provider, worker.NewLimiter(cfg.LLM.RatePerSec, cfg.LLM.RateBurst))
	}

	analyzer := eligibility.NewAnalyzer(provider, a.index, cfg.Retrieval.MaxContextLength)
	a.qa = qa.NewService(provider, a.index, cfg.Retrieval.MaxContextLength)

	noise := fraud.Noise(fraud.ZeroNoise)
	if cfg.Fraud.PerturbationEnabled {
		noise = fraud.UniformNoise(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	engine := fraud.NewEngine(noise)

	var notifier notify.Notifier
	email := notify.NewEmailNotifier(cfg.Notify)
	if email.Configured() {
		notifier = email
	} else {
		notifier = notify.NewLogNotifier()
	}

	a.service = claims.NewService(engine, analyzer, a.claims, notifier)
	return a, nil
}

// close releases held resources
func (a *app) close() {
	for _, closer := range a.closers {
		_ = closer()
	}
}

// ingestDocuments loads every .txt and .md file under path into the
// retrieval index. Path may be a single file.
func (a *app) ingestDocuments(ctx context.Context, path, policyType string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("reading documents path: %w", err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return 0, fmt.Errorf("listing documents: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".txt", ".md":
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	} else {
		files = []string{path}
	}

	ingested := 0
	for _, file := range files {
		text, err := os.ReadFile(file)
		if err != nil {
			return ingested, fmt.Errorf("reading %s: %w", file, err)
		}
		if _, err := a.ingestor.Ingest(ctx, filepath.Base(file), policyType, string(text)); err != nil {
			return ingested, err
		}
		ingested++
	}
	return ingested, nil
}
