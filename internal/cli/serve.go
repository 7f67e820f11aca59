package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/insurelab/claimlens/internal/api"
)

var (
	serveAddr      string
	serveDocs      string
	servePolicyTag string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the claim processing HTTP API",
	Long: `Serve starts the HTTP API exposing the full pipeline:
- POST /claims/process submits a claim for a decision
- GET /claims lists processed claims, GET /claims/{id} fetches one
- POST /claims/{id}/reprocess runs a stored claim again
- POST /documents ingests policy text, POST /queries/ask answers questions

Example:
  claimlens serve
  claimlens serve --addr :9090 --documents ./policies --policy-type health`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDocs, "documents", "", "policy documents file or directory to ingest at startup")
	serveCmd.Flags().StringVar(&servePolicyTag, "policy-type", "", "policy type tag for ingested documents")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if serveDocs != "" {
		n, err := a.ingestDocuments(ctx, serveDocs, servePolicyTag)
		if err != nil {
			return fmt.Errorf("ingesting documents: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Ingested %d policy documents (%d chunks indexed)\n", n, a.index.Size())
	}

	server := api.NewServer(cfg.Server.Addr, a.service, a.claims, a.documents, a.ingestor, a.qa)

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Server stopped")
	return nil
}
