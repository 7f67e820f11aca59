package retrieval

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/insurelab/claimlens/internal/cache"
	"github.com/insurelab/claimlens/internal/model"
)

// Separator inserted between passages when assembling combined context
const contextSeparator = "\n\n---\n\n"

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopwords excluded from relevance scoring; they carry no topical signal
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "that": true, "the": true,
	"to": true, "with": true, "this": true, "will": true, "not": true,
}

// indexedChunk is the searchable view of one document chunk. Chunk bodies
// live in the cache; the index keeps only tokens and identity.
type indexedChunk struct {
	documentID string
	chunkIndex int
	tokens     map[string]bool
}

// Index is an in-memory lexical retrieval index over policy document chunks.
// Relevance is the fraction of query terms present in a chunk; a proper
// embedding backend can replace it behind the same ContextProvider contract.
type Index struct {
	mu     sync.RWMutex
	chunks map[string]indexedChunk // keyed by chunk cache key
	store  cache.Cache             // chunk bodies

	topK         int     // Candidate passages per query
	minRelevance float64 // Passages below this are dropped
}

// IndexOptions configures a retrieval index
type IndexOptions struct {
	TopK         int
	MinRelevance float64
}

// NewIndex creates an empty retrieval index backed by the given cache
func NewIndex(store cache.Cache, opts IndexOptions) *Index {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.MinRelevance <= 0 {
		opts.MinRelevance = 0.3
	}
	if store == nil {
		store = cache.NewMemoryCache(0, 0)
	}
	return &Index{
		chunks:       make(map[string]indexedChunk),
		store:        store,
		topK:         opts.TopK,
		minRelevance: opts.MinRelevance,
	}
}

// IndexChunks adds document chunks to the searchable index
func (x *Index) IndexChunks(chunks []model.DocumentChunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, chunk := range chunks {
		key := cache.ChunkKey(chunk.DocumentID, chunk.Index)
		if err := x.store.Set(key, []byte(chunk.Content), 0); err != nil {
			return err
		}
		x.chunks[key] = indexedChunk{
			documentID: chunk.DocumentID,
			chunkIndex: chunk.Index,
			tokens:     tokenize(chunk.Content),
		}
	}
	return nil
}

// DeleteDocument removes all chunks of a document from the index
func (x *Index) DeleteDocument(documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for key, chunk := range x.chunks {
		if chunk.documentID == documentID {
			delete(x.chunks, key)
			if err := x.store.Delete(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// Search returns up to topK passages relevant to the query, most relevant
// first. Passages below the relevance threshold are dropped; an empty result
// is normal, not an error.
func (x *Index) Search(query, documentID string, topK int) []model.Passage {
	if topK <= 0 {
		topK = x.topK
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	type scored struct {
		key        string
		documentID string
		chunkIndex int
		score      float64
	}

	var candidates []scored
	for key, chunk := range x.chunks {
		if documentID != "" && chunk.documentID != documentID {
			continue
		}
		matched := 0
		for token := range queryTokens {
			if chunk.tokens[token] {
				matched++
			}
		}
		score := float64(matched) / float64(len(queryTokens))
		if score >= x.minRelevance {
			candidates = append(candidates, scored{key: key, documentID: chunk.documentID, chunkIndex: chunk.chunkIndex, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		// Stable order for equal scores: document then position
		if candidates[i].documentID != candidates[j].documentID {
			return candidates[i].documentID < candidates[j].documentID
		}
		return candidates[i].chunkIndex < candidates[j].chunkIndex
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	passages := make([]model.Passage, 0, len(candidates))
	for _, c := range candidates {
		content, ok := x.store.Get(c.key)
		if !ok {
			continue
		}
		passages = append(passages, model.Passage{
			Content:        string(content),
			RelevanceScore: round4(c.score),
			Metadata: map[string]string{
				"document_id": c.documentID,
				"chunk_index": strconv.Itoa(c.chunkIndex),
			},
		})
	}
	return passages
}

// Retrieve implements ContextProvider: search, then assemble combined context
// under maxLength with separators between passages.
func (x *Index) Retrieve(ctx context.Context, query, documentID string, maxLength int) (string, []model.Passage, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	passages := x.Search(query, documentID, x.topK)

	var combined strings.Builder
	var selected []model.Passage
	currentLength := 0

	for _, passage := range passages {
		length := len(passage.Content)
		if currentLength+length > maxLength {
			break
		}
		if combined.Len() > 0 {
			combined.WriteString(contextSeparator)
		}
		combined.WriteString(passage.Content)
		currentLength += length + len(contextSeparator)
		selected = append(selected, passage)
	}

	return combined.String(), selected, nil
}

// Size returns the number of indexed chunks
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if len(token) < 2 || stopwords[token] {
			continue
		}
		tokens[token] = true
	}
	return tokens
}
