package viewer

import (
	"time"

	"github.com/rpggio/ionview/internal/domain/variant"
)

// Options configures a Registry.
type Options struct {
	// Fetcher supplies primary dataset text. Nil means always use Fallback.
	Fetcher Fetcher
	// Fallback is the embedded CSV text used when the primary source fails.
	Fallback string
	// FetchTimeout bounds a single primary fetch. Zero means no bound.
	FetchTimeout time.Duration
	Catalog      Catalog
	Links        LinkFunc
	Scoring      variant.Scoring
	Observer     Observer
	// SessionTTL is how long an unused session keeps its state. Zero means
	// DefaultSessionTTL; negative disables idle eviction.
	SessionTTL time.Duration
	// MaxSessions caps live sessions; the least recently used is evicted
	// first. Zero means DefaultMaxSessions.
	MaxSessions int
	// Now overrides the clock used for session expiry.
	Now func() time.Time
}

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)
