package docs

import "strings"

// Chunker splits extracted document text into overlapping chunks sized for
// retrieval. Splits prefer paragraph, then line, then sentence boundaries
// before falling back to hard cuts.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

var chunkSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", ", ", " "}

// NewChunker creates a chunker with the given size and overlap
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split breaks text into chunks of at most chunkSize characters with
// chunkOverlap characters carried between adjacent chunks
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			chunk := strings.TrimSpace(text[start:])
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := c.findCut(text, start, end)
		chunk := strings.TrimSpace(text[start:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - c.chunkOverlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}

// findCut picks the latest separator boundary inside [start, end), falling
// back to a hard cut at end
func (c *Chunker) findCut(text string, start, end int) int {
	window := text[start:end]
	for _, sep := range chunkSeparators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return start + idx + len(sep)
		}
	}
	return end
}
