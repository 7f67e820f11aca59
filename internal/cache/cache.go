package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache defines the interface for keyed byte storage
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ChunkKey generates a stable key for a document chunk
func ChunkKey(documentID string, chunkIndex int) string {
	hash := sha256.Sum256([]byte(documentID))
	return "claimlens:chunk:" + hex.EncodeToString(hash[:8]) + ":" + strconv.Itoa(chunkIndex)
}
