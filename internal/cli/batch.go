package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/insurelab/claimlens/internal/worker"
)

var (
	batchConcurrency int
	batchDocs        string
	batchPolicy      string
	batchTimeout     time.Duration
	batchOutput      string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Process claims from a JSON-lines file in parallel",
	Long: `Batch processes many claims concurrently:
- Read claims from the input file (one JSON object per line)
- Lines that fail to parse or validate become error results, not aborts
- Run claims through the pipeline on a bounded worker pool
- Write one decision record per claim

Example:
  claimlens batch claims.jsonl
  claimlens batch claims.jsonl --concurrency 8 --documents ./policies
  claimlens batch claims.jsonl --output results.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent claims (0 uses config)")
	batchCmd.Flags().StringVar(&batchDocs, "documents", "", "policy documents file or directory to ingest first")
	batchCmd.Flags().StringVar(&batchPolicy, "policy-type", "", "policy type tag for ingested documents")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "output file for decision records (default stdout)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.ClaimWorkers
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if batchDocs != "" {
		n, err := a.ingestDocuments(ctx, batchDocs, batchPolicy)
		if err != nil {
			return fmt.Errorf("ingesting documents: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Ingested %d policy documents (%d chunks indexed)\n", n, a.index.Size())
		}
	}

	processor := worker.NewBatchProcessor(a.service, concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return err
	}

	out := os.Stdout
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	encoder := json.NewEncoder(out)
	succeeded, failed := 0, 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "line %d: %v\n", result.Line, result.Error)
			continue
		}
		succeeded++
		if err := encoder.Encode(result.Record); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Processed %d claims: %d decided, %d rejected\n",
		len(results), succeeded, failed)
	return nil
}
