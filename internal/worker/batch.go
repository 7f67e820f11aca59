package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/insurelab/claimlens/internal/model"
)

// Processor is the claim pipeline capability batch jobs execute against
type Processor interface {
	Process(ctx context.Context, claim model.ClaimInput, email, phone string) model.ClaimDecisionRecord
}

// ClaimJob runs one claim through the pipeline
type ClaimJob struct {
	Line      int // 1-based line in the batch file, for reporting
	Claim     model.ClaimInput
	Processor Processor
}

// Execute implements Job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	record := j.Processor.Process(ctx, j.Claim, "", "")
	return &ClaimResult{Line: j.Line, Record: &record}
}

// ClaimResult is the outcome of one batch claim
type ClaimResult struct {
	Line   int
	Record *model.ClaimDecisionRecord
	Error  error // Set for claims rejected before the pipeline ran
}

// GetError implements Result
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many claims through the pipeline concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// batchLine is one claim read from a batch file
type batchLine struct {
	line  int
	claim model.ClaimInput
	err   error
}

// ProcessFile reads claims from a JSON-lines file and processes them
// concurrently. Lines that fail to parse or validate become error results;
// they never stop the batch. Results are ordered by input line.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ClaimResult, error) {
	lines, err := readClaimsFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	if len(lines) == 0 {
		return []*ClaimResult{}, nil
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	var rejected []*ClaimResult
	for _, line := range lines {
		if line.err != nil {
			rejected = append(rejected, &ClaimResult{Line: line.line, Error: line.err})
			continue
		}
		pool.Submit(&ClaimJob{Line: line.line, Claim: line.claim, Processor: b.processor})
	}

	results := rejected
	for _, result := range pool.Wait() {
		results = append(results, result.(*ClaimResult))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Line < results[j].Line })
	return results, nil
}

// readClaimsFile parses a JSON-lines batch file: one ClaimInput object per
// line, blank lines and # comments skipped
func readClaimsFile(filePath string) ([]batchLine, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []batchLine
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var claim model.ClaimInput
		if err := json.Unmarshal([]byte(text), &claim); err != nil {
			lines = append(lines, batchLine{line: lineNo, err: fmt.Errorf("line %d: %w", lineNo, err)})
			continue
		}
		if err := claim.Validate(); err != nil {
			lines = append(lines, batchLine{line: lineNo, err: fmt.Errorf("line %d: %w", lineNo, err)})
			continue
		}
		lines = append(lines, batchLine{line: lineNo, claim: claim})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return lines, nil
}
