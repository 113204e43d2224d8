package season

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Archive is a raw provider document stored for one league season.
type Archive struct {
	LeagueID    string
	Year        int
	Payload     []byte
	PayloadHash string
	FetchedAt   time.Time
}

// ArchiveRepository persists raw season documents so seasons stay readable
// after the provider stops serving them.
type ArchiveRepository interface {
	Get(ctx context.Context, leagueID string, year int) (Archive, bool, error)
	Upsert(ctx context.Context, archive Archive) error
}

// PayloadHash is the hex-encoded SHA-256 of a raw document.
func PayloadHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
