package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/insurelab/claimlens/internal/model"
)

var (
	processType     string
	processAmount   float64
	processDesc     string
	processIncident string
	processDocs     string
	processPolicy   string
	processEmail    string
	processTimeout  time.Duration
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a single claim and print the decision",
	Long: `Process runs one claim through the full decision pipeline and prints the
resulting record as JSON. Point --documents at policy text to ground the
eligibility analysis; without it the claim degrades to manual review.

Example:
  claimlens process --type medical --amount 1200 \
    --description "Emergency room treatment after a fall" \
    --incident-date 2025-06-01 --documents ./policies`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processType, "type", "", "claim type (medical, dental, vision, accident, property, other)")
	processCmd.Flags().Float64Var(&processAmount, "amount", 0, "claim amount in dollars")
	processCmd.Flags().StringVar(&processDesc, "description", "", "description of the incident or service")
	processCmd.Flags().StringVar(&processIncident, "incident-date", "", "incident date (YYYY-MM-DD)")
	processCmd.Flags().StringVar(&processDocs, "documents", "", "policy documents file or directory to ingest first")
	processCmd.Flags().StringVar(&processPolicy, "policy-type", "", "policy type tag for ingested documents")
	processCmd.Flags().StringVar(&processEmail, "email", "", "notification email address")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 2*time.Minute, "overall processing timeout")

	_ = processCmd.MarkFlagRequired("type")
	_ = processCmd.MarkFlagRequired("amount")
	_ = processCmd.MarkFlagRequired("description")
	_ = processCmd.MarkFlagRequired("incident-date")
}

func runProcess(cmd *cobra.Command, args []string) error {
	claim := model.ClaimInput{
		ClaimType:    processType,
		Amount:       processAmount,
		Description:  processDesc,
		IncidentDate: processIncident,
	}
	if err := claim.Validate(); err != nil {
		return fmt.Errorf("invalid claim: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if processDocs != "" {
		n, err := a.ingestDocuments(ctx, processDocs, processPolicy)
		if err != nil {
			return fmt.Errorf("ingesting documents: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Ingested %d policy documents (%d chunks indexed)\n", n, a.index.Size())
		}
	}

	record := a.service.Process(ctx, claim, processEmail, "")

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return nil
}
