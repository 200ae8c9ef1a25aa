package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rpggio/ionview/internal/domain/variant"
)

// Registry owns the loaded dataset and the per-session viewer states that
// read it.
type Registry struct {
	opts     Options
	logger   *slog.Logger
	snapshot atomic.Pointer[Snapshot]

	mu        sync.Mutex
	sessions  map[string]*State
	lastSweep time.Time
}

// NewRegistry creates a registry with an empty dataset. Call Load before
// serving views.
func NewRegistry(opts Options, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Scoring == nil {
		opts.Scoring = variant.DefaultScoring()
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	r := &Registry{
		opts:      opts,
		logger:    logger,
		sessions:  make(map[string]*State),
		lastSweep: opts.Now(),
	}
	r.snapshot.Store(&Snapshot{Origin: OriginEmbedded})
	return r
}

// Load fetches the primary dataset, falling back to the embedded copy when the
// fetch fails or yields no records. It never fails; the outcome is described
// by the returned LoadResult. Session sort and query settings are kept.
func (r *Registry) Load(ctx context.Context) LoadResult {
	res := LoadResult{Origin: OriginPrimary}

	var ds variant.Dataset
	text, err := r.fetch(ctx)
	if err == nil {
		ds = variant.Parse(text)
		if ds.Len() == 0 {
			err = ErrNoRecords
		}
	}
	if err != nil {
		r.logger.Warn("primary data source unavailable, using embedded data", "error", err)
		ds = variant.Parse(r.opts.Fallback)
		res.Origin = OriginEmbedded
		res.Fallback = true
		res.Notice = FallbackNotice
		res.Error = err.Error()
	}

	ds.Records = variant.DeriveAll(ds.Records)
	res.Records = ds.Len()
	r.snapshot.Store(&Snapshot{
		Dataset:  ds,
		Origin:   res.Origin,
		Notice:   res.Notice,
		LoadedAt: time.Now().UTC(),
	})

	r.logger.Info("dataset loaded", "origin", res.Origin, "records", res.Records, "columns", len(ds.Columns))
	if r.opts.Observer != nil {
		r.opts.Observer.LoadCompleted(res)
	}
	return res
}

func (r *Registry) fetch(ctx context.Context) (text string, err error) {
	if r.opts.Fetcher == nil {
		return "", ErrNoPrimarySource
	}
	if r.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.FetchTimeout)
		defer cancel()
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("fetch panicked: %v", p)
		}
	}()
	return r.opts.Fetcher.Fetch(ctx)
}

// Reload replaces the dataset for every session. Session sort and search
// settings are kept.
func (r *Registry) Reload(ctx context.Context) LoadResult {
	r.logger.Info("reloading dataset")
	return r.Load(ctx)
}

// Snapshot returns the current dataset snapshot.
func (r *Registry) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// Scoring returns the thresholds used for classification.
func (r *Registry) Scoring() variant.Scoring {
	return r.opts.Scoring
}

// Session returns the state for id, creating it on first use, and marks it
// used. An empty id selects DefaultSessionID. Sessions idle longer than the
// TTL are dropped, and the least recently used one is evicted once
// MaxSessions are live.
func (r *Registry) Session(id string) *State {
	if id == "" {
		id = DefaultSessionID
	}
	now := r.opts.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)
	st, ok := r.sessions[id]
	if !ok {
		if len(r.sessions) >= r.opts.MaxSessions {
			r.evictOldestLocked()
		}
		st = &State{id: id, registry: r}
		r.sessions[id] = st
	}
	st.lastUsed = now
	return st
}

// sweepLocked drops idle sessions, at most once per quarter TTL.
func (r *Registry) sweepLocked(now time.Time) {
	ttl := r.opts.SessionTTL
	if ttl < 0 || now.Sub(r.lastSweep) < ttl/4 {
		return
	}
	r.lastSweep = now
	expired := 0
	for id, st := range r.sessions {
		if now.Sub(st.lastUsed) > ttl {
			delete(r.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		r.logger.Debug("idle sessions expired", "count", expired, "remaining", len(r.sessions))
	}
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, st := range r.sessions {
		if oldestID == "" || st.lastUsed.Before(oldest) {
			oldestID, oldest = id, st.lastUsed
		}
	}
	delete(r.sessions, oldestID)
}

// Forget drops a session's state.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// SessionCount reports how many sessions hold state.
func (r *Registry) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Ticket resolves a download request against the catalog.
func (r *Registry) Ticket(req DownloadRequested) (DownloadTicket, error) {
	if req.ArtifactName == "" {
		return DownloadTicket{}, errors.New("artifact name is required")
	}
	label := req.Label
	if label == "" {
		label = trimExt(req.ArtifactName)
	}
	t := DownloadTicket{
		ArtifactName: req.ArtifactName,
		FileName:     label + ".pdb",
		Available:    r.available(req.ArtifactName),
	}
	if t.Available {
		t.URL = r.link(req.ArtifactName)
	}
	return t, nil
}

func (r *Registry) available(name string) bool {
	return r.opts.Catalog != nil && r.opts.Catalog.Has(name)
}

func (r *Registry) link(name string) string {
	if r.opts.Links == nil {
		return name
	}
	return r.opts.Links(name)
}

func (r *Registry) row(rec variant.Record) Row {
	cells := make([]Cell, 0, len(displayColumns))
	for _, col := range displayColumns {
		cell := Cell{Column: col.name, Value: rec[col.name]}
		if col.name == variant.FieldExtractedSeq {
			cell.Value = variant.DeriveSeq(rec)
		}
		if tier, ok := r.opts.Scoring.Tier(col.name, cell.Value); ok {
			cell.Tier = tier
			cell.Class = tier.Class()
		}
		cells = append(cells, cell)
	}

	name := rec.ArtifactName()
	link := ArtifactLink{
		Name:      name,
		Label:     rec.DownloadLabel(),
		Available: r.available(name),
	}
	if link.Available {
		link.URL = r.link(name)
	}

	return Row{
		Identity:     rec.Identity(),
		Record:       rec,
		ExtractedSeq: variant.DeriveSeq(rec),
		Cells:        cells,
		Artifact:     link,
	}
}

func trimExt(name string) string {
	const ext = ".pdb"
	if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
		return name[:len(name)-len(ext)]
	}
	return name
}
