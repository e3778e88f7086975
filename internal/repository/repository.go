// Package repository loads agency clients and their metrics bundles.
//
// This package enables socialife to:
// - Read the client index and per-client bundles from a directory or a web location
// - Cache what it has read for the lifetime of the Repository
// - Layer in-session edits (added and archived clients) over the base list
//
// Missing or unreadable data is reported as absent, never as an error.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gauthierbraillon/socialife/internal/metrics"
)

// Option configures a Repository.
type Option func(*Repository)

// WithSession sets where the session overlay is persisted.
func WithSession(session SessionStorage) Option {
	return func(r *Repository) {
		r.session = session
	}
}

// WithLogger sets the logger used to report unavailable data.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// Repository is the single owner of the client caches and the session overlay.
// It is safe for concurrent use.
type Repository struct {
	source  Source
	session SessionStorage
	logger  *slog.Logger

	mu         sync.Mutex
	overlay    Overlay
	base       []metrics.ClientRecord
	baseLoaded bool
	merged     []metrics.ClientRecord // nil after every overlay write
	details    map[string]*metrics.ClientDetail

	inflight singleflight.Group
}

// DailyFilter narrows daily metrics. Empty fields match everything; dates are
// inclusive ISO days.
type DailyFilter struct {
	Platform  metrics.Platform
	StartDate string
	EndDate   string
}

// New creates a Repository over source and restores the session overlay.
func New(source Source, opts ...Option) (*Repository, error) {
	r := &Repository{
		source:  source,
		session: NewMemorySession(),
		details: make(map[string]*metrics.ClientDetail),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	overlay, err := r.session.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	r.overlay = overlay

	return r, nil
}

// ListClients returns the base client list merged with the session overlay:
// added clients are appended and archived ids are marked archived. The
// returned slice is a copy.
func (r *Repository) ListClients(ctx context.Context) []metrics.ClientRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.merged == nil || !r.baseLoaded {
		r.loadBase(ctx)
		r.merged = mergeOverlay(r.base, r.overlay)
	}
	return cloneRecords(r.merged)
}

// ActiveClients returns the merged list without archived clients.
func (r *Repository) ActiveClients(ctx context.Context) []metrics.ClientRecord {
	clients := r.ListClients(ctx)
	return slices.DeleteFunc(clients, func(c metrics.ClientRecord) bool { return !c.Active() })
}

// Client looks up one record in the merged list. When several records share
// an id the first one wins.
func (r *Repository) Client(ctx context.Context, id string) (metrics.ClientRecord, bool) {
	for _, c := range r.ListClients(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return metrics.ClientRecord{}, false
}

// loadBase fetches the index once. A failed fetch leaves the base list empty
// and is tried again on the next read.
func (r *Repository) loadBase(ctx context.Context) {
	if r.baseLoaded {
		return
	}

	data, err := r.source.Index(ctx)
	if err != nil {
		r.logger.Error("client index unavailable", "error", err)
		r.base = nil
		return
	}

	var base []metrics.ClientRecord
	if err := json.Unmarshal(data, &base); err != nil {
		r.logger.Error("client index unreadable", "error", err)
		r.base = nil
		return
	}

	r.base = base
	r.baseLoaded = true
}

func mergeOverlay(base []metrics.ClientRecord, overlay Overlay) []metrics.ClientRecord {
	merged := make([]metrics.ClientRecord, 0, len(base)+len(overlay.NewClients))
	merged = append(merged, base...)
	merged = append(merged, overlay.NewClients...)

	for i := range merged {
		if overlay.Archived(merged[i].ID) {
			merged[i].Status = metrics.StatusArchived
		}
	}
	return merged
}

func cloneRecords(records []metrics.ClientRecord) []metrics.ClientRecord {
	out := make([]metrics.ClientRecord, len(records))
	for i, c := range records {
		c.Platforms = slices.Clone(c.Platforms)
		out[i] = c
	}
	return out
}

// ClientDetail returns the full bundle for id. It reports false when the
// bundle is missing or could not be read; callers treat that as "no data".
// Concurrent requests for the same id share one fetch. The shared fetch
// ignores the caller's cancellation and is bounded by the source's timeout;
// a cancelled caller stops waiting and reports false.
func (r *Repository) ClientDetail(ctx context.Context, id string) (*metrics.ClientDetail, bool) {
	r.mu.Lock()
	if detail, ok := r.details[id]; ok {
		r.mu.Unlock()
		return detail, true
	}
	r.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := r.inflight.DoChan(id, func() (interface{}, error) {
		return r.fetchDetail(shared, id)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		r.logger.Debug("client detail wait cancelled", "id", id, "error", ctx.Err())
		return nil, false
	}

	if res.Err != nil {
		if errors.Is(res.Err, ErrNotFound) {
			r.logger.Debug("client detail not found", "id", id)
		} else {
			r.logger.Warn("client detail unavailable", "id", id, "error", res.Err)
		}
		return nil, false
	}
	return res.Val.(*metrics.ClientDetail), true
}

func (r *Repository) fetchDetail(ctx context.Context, id string) (*metrics.ClientDetail, error) {
	data, err := r.source.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	var detail metrics.ClientDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("failed to parse client %s: %w", id, err)
	}

	r.mu.Lock()
	r.details[id] = &detail
	r.mu.Unlock()

	return &detail, nil
}

// DailyMetrics returns the client's daily entries matching filter, in stored order.
func (r *Repository) DailyMetrics(ctx context.Context, id string, filter DailyFilter) []metrics.DailyMetricEntry {
	detail, ok := r.ClientDetail(ctx, id)
	if !ok {
		return []metrics.DailyMetricEntry{}
	}

	daily := make([]metrics.DailyMetricEntry, 0, len(detail.Metrics.Daily))
	for _, m := range detail.Metrics.Daily {
		if filter.Platform != "" && m.Platform != filter.Platform {
			continue
		}
		if filter.StartDate != "" && m.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && m.Date > filter.EndDate {
			continue
		}
		daily = append(daily, m)
	}
	return daily
}

// Posts returns a copy of the client's posts in stored order.
func (r *Repository) Posts(ctx context.Context, id string) []metrics.PostMetric {
	detail, ok := r.ClientDetail(ctx, id)
	if !ok {
		return []metrics.PostMetric{}
	}
	return slices.Clone(detail.Metrics.Posts)
}

// Demographics returns the client's audience breakdown, if any.
func (r *Repository) Demographics(ctx context.Context, id string) (*metrics.Demographics, bool) {
	detail, ok := r.ClientDetail(ctx, id)
	if !ok || detail.Metrics.Demographics == nil {
		return nil, false
	}
	return detail.Metrics.Demographics, true
}

// AddClient appends record to the session overlay. Ids are not checked for
// uniqueness.
func (r *Repository) AddClient(record metrics.ClientRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	overlay := r.overlay.clone()
	overlay.NewClients = append(overlay.NewClients, record)
	return r.commitOverlay(overlay)
}

// ArchiveClient marks id as archived for the rest of the session. Archiving
// an id twice has no further effect.
func (r *Repository) ArchiveClient(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.overlay.Archived(id) {
		return nil
	}
	overlay := r.overlay.clone()
	overlay.ArchivedIDs = append(overlay.ArchivedIDs, id)
	return r.commitOverlay(overlay)
}

// commitOverlay persists overlay and only then makes it current. Callers
// hold r.mu.
func (r *Repository) commitOverlay(overlay Overlay) error {
	if err := r.session.Save(overlay); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	r.overlay = overlay
	r.merged = nil
	return nil
}

// Overlay returns a copy of the current session edits.
func (r *Repository) Overlay() Overlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlay.clone()
}

// ClearSession discards all session edits.
func (r *Repository) ClearSession() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.session.Clear(); err != nil {
		return err
	}
	r.overlay = Overlay{}
	r.merged = nil
	return nil
}
