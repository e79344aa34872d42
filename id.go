package tipbook

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// NewID generates a globally unique, time-sortable UUIDv7 (RFC 9562).
// Build identifiers use it so manifest records sort by creation time.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// EntryID derives a stable entry identifier from the owning section title
// and the entry title. Loading the same source twice must yield equal
// catalogs, so entry IDs are content-derived rather than random.
func EntryID(section, title string) string {
	sum := sha256.Sum256([]byte(section + "\x00" + title))
	return hex.EncodeToString(sum[:8])
}

// NowUnix returns the current time as Unix seconds.
func NowUnix() int64 {
	return time.Now().Unix()
}
