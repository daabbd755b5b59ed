// Package search fans one search out to every selected imagery provider,
// merges their results in arrival order and tracks per-provider progress.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/logging"
	"github.com/robert-malhotra/eo-search/internal/metrics"
)

// ErrValidation is returned when a request is rejected before any provider runs.
var ErrValidation = errors.New("invalid search request")

// Notice messages about the search as a whole.
const (
	msgTooManyPolygons = "more than one polygon drawn"
	msgDefaultAOI      = "default coordinates used"
	msgNotConfigured   = "provider not configured"
)

// Request is the input of one search.
type Request struct {
	// Polygons drawn by the caller. None falls back to DefaultAOI, more
	// than one is rejected.
	Polygons []orb.Polygon
	Filters  Filters

	// Credentials per provider, merged over the configured defaults.
	Credentials map[imagery.ProviderID]backend.Credentials

	// Providers to query. Nil selects every registered provider that has
	// the credentials it needs.
	Providers []imagery.ProviderID
}

// DefaultStatusExpiry is how long a terminal provider state stays visible
// before it is reported as expired.
const DefaultStatusExpiry = 5 * time.Second

// Options tune the orchestrator. Zero values select the defaults.
type Options struct {
	StatusExpiry    time.Duration
	DefaultLookback time.Duration
	RunTTL          time.Duration
	CleanupInterval time.Duration
	Now             func() time.Time
}

// Orchestrator runs searches against a sealed adapter registry.
type Orchestrator struct {
	registry *backend.Registry
	catalog  *catalog.Catalog
	defaults map[imagery.ProviderID]backend.Credentials
	opts     Options
	store    *RunStore
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an orchestrator. defaults holds the configured credentials of
// each provider.
func New(registry *backend.Registry, cat *catalog.Catalog, defaults map[imagery.ProviderID]backend.Credentials, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.StatusExpiry <= 0 {
		opts.StatusExpiry = DefaultStatusExpiry
	}
	if opts.DefaultLookback <= 0 {
		opts.DefaultLookback = 365 * 24 * time.Hour
	}
	if opts.RunTTL <= 0 {
		opts.RunTTL = 15 * time.Minute
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}
	store := NewRunStore(opts.RunTTL, opts.CleanupInterval, now)

	return &Orchestrator{
		registry: registry,
		catalog:  cat,
		defaults: defaults,
		opts:     opts,
		store:    store,
		logger:   logger,
		now:      now,
	}
}

// Close stops background maintenance.
func (o *Orchestrator) Close() {
	o.store.Stop()
}

// Get returns a stored run.
func (o *Orchestrator) Get(id string) (*Run, error) {
	return o.store.Get(id)
}

// Search runs a search and blocks until every provider is terminal.
func (o *Orchestrator) Search(ctx context.Context, req Request) (*Outcome, error) {
	run, err := o.Start(ctx, req, nil)
	if err != nil {
		if run != nil {
			return run.Snapshot(), err
		}
		return nil, err
	}
	return run.Wait(ctx)
}

type launch struct {
	id      imagery.ProviderID
	adapter backend.Adapter
	creds   backend.Credentials
}

// Start launches a search and returns immediately. Every provider goroutine
// is started before Start returns. A rejected request still yields a
// finished run carrying the explanatory notice, together with an error
// wrapping ErrValidation.
func (o *Orchestrator) Start(ctx context.Context, req Request, l Listener) (*Run, error) {
	run := newRun(uuid.NewString(), l, o.now())
	ctx = logging.WithRunID(ctx, run.ID)
	o.store.Put(run)

	polygon, err := o.polygon(req, run)
	if err != nil {
		return o.reject(ctx, run, err)
	}

	filters := req.Filters
	if filters.EndDate.IsZero() {
		filters.EndDate = o.now()
	}
	if filters.StartDate.IsZero() {
		filters.StartDate = filters.EndDate.Add(-o.opts.DefaultLookback)
	}
	settings, err := filters.Settings(polygon)
	if err != nil {
		return o.reject(ctx, run, err)
	}
	sp := imagery.NewSearchPolygon(settings)

	launches := o.selection(req)
	ids := make([]imagery.ProviderID, len(launches))
	for i, la := range launches {
		ids[i] = la.id
	}
	tracker := NewStatusTracker(ids, o.opts.StatusExpiry)
	tracker.now = o.now

	run.mu.Lock()
	run.Polygon = &sp
	run.Status = tracker
	run.mu.Unlock()

	o.logger.InfoContext(ctx, "search started",
		slog.Int("providers", len(launches)),
		slog.String("start", imagery.FormatISO(settings.StartDate)),
		slog.String("end", imagery.FormatISO(settings.EndDate)),
	)

	for _, st := range tracker.Snapshot() {
		run.emitState(st)
	}

	done := metrics.SearchStarted()
	remaining := make(chan struct{}, len(launches))

	// Adapters outlive the caller's context; each one relies on its own timeout.
	actx := context.WithoutCancel(ctx)
	for _, la := range launches {
		if la.adapter == nil {
			go func(id imagery.ProviderID) {
				o.conclude(actx, run, id, nil, nil, errors.New(msgNotConfigured), 0)
				remaining <- struct{}{}
			}(la.id)
			continue
		}
		q := &backend.Query{Settings: settings, Polygon: settings.Coordinates, Credentials: la.creds}
		go func(la launch, q *backend.Query) {
			o.runAdapter(actx, run, la.adapter, q)
			remaining <- struct{}{}
		}(la, q)
	}

	go func() {
		for range launches {
			<-remaining
		}
		done(outcomeLabel(tracker.Snapshot()))
		run.finish(nil)
		o.logger.InfoContext(ctx, "search finished", slog.Int("features", run.Collection.Len()))
	}()

	return run, nil
}

// polygon resolves the AOI of a request.
func (o *Orchestrator) polygon(req Request, run *Run) (orb.Polygon, error) {
	switch len(req.Polygons) {
	case 0:
		run.notify(imagery.NewNotice("", imagery.NoticeInfo, msgDefaultAOI))
		return DefaultAOI.Clone(), nil
	case 1:
		p := req.Polygons[0]
		if len(p) == 0 {
			return nil, errors.New("polygon has no ring")
		}
		// Holes are not searched.
		return orb.Polygon{p[0].Clone()}, nil
	default:
		run.notify(imagery.NewNotice("", imagery.NoticeWarning, msgTooManyPolygons))
		return nil, errors.New(msgTooManyPolygons)
	}
}

func (o *Orchestrator) reject(ctx context.Context, run *Run, err error) (*Run, error) {
	err = fmt.Errorf("%w: %v", ErrValidation, err)
	metrics.SearchRejected()
	o.logger.WarnContext(ctx, "search rejected", slog.String("error", err.Error()))
	run.finish(err)
	return run, err
}

// selection resolves which providers a request runs against.
func (o *Orchestrator) selection(req Request) []launch {
	var out []launch
	seen := make(map[imagery.ProviderID]bool)

	add := func(id imagery.ProviderID, explicit bool) {
		if seen[id] {
			return
		}
		seen[id] = true
		creds := req.Credentials[id].Merge(o.defaults[id])
		a, ok := o.registry.Get(id)
		if !ok {
			if explicit {
				out = append(out, launch{id: id})
			}
			return
		}
		if !explicit && !o.hasCredentials(id, creds) {
			return
		}
		out = append(out, launch{id: id, adapter: a, creds: creds})
	}

	if req.Providers == nil {
		for _, id := range o.registry.IDs() {
			add(id, false)
		}
		return out
	}
	for _, id := range req.Providers {
		add(id, true)
	}
	return out
}

// hasCredentials reports whether creds satisfy the provider's credential kind.
func (o *Orchestrator) hasCredentials(id imagery.ProviderID, creds backend.Credentials) bool {
	p := o.catalog.Provider(id)
	if p == nil {
		return true
	}
	switch p.Credentials {
	case catalog.CredentialsAPIKey:
		return creds.APIKey != "" || creds.Token != ""
	case catalog.CredentialsKeySecret:
		return creds.APIKey != "" && creds.Secret != ""
	case catalog.CredentialsProjectKey:
		return creds.Token != "" || (creds.ProjectID != "" && creds.ProjectKey != "")
	default:
		return true
	}
}

// runAdapter executes one adapter search and merges its result.
func (o *Orchestrator) runAdapter(ctx context.Context, run *Run, a backend.Adapter, q *backend.Query) {
	id := a.ID()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.ErrorContext(ctx, "adapter panicked",
				slog.String("provider", string(id)),
				slog.Any("panic", r),
			)
			o.conclude(ctx, run, id, nil, nil, fmt.Errorf("adapter panicked: %v", r), time.Since(start))
		}
	}()

	res, err := a.Search(ctx, q)
	if err == nil && res != nil && res.ErrorOnFetch {
		err = errors.New("provider returned an error")
	}
	if res == nil {
		res = backend.Failed()
		if err == nil {
			err = errors.New("adapter returned no result")
		}
	}
	st, ok := o.conclude(ctx, run, id, res.Features, res.Notices, err, time.Since(start))
	if !ok || st.State != StateSucceeded || len(res.Features) == 0 {
		return
	}

	if pe, ok := a.(backend.PreviewEnricher); ok {
		features := res.Features
		run.previews.Add(1)
		go func() {
			defer run.previews.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.ErrorContext(ctx, "preview enrichment panicked",
						slog.String("provider", string(id)),
						slog.Any("panic", r),
					)
				}
			}()
			pe.EnrichPreviews(ctx, q, features, func(fid, preview, thumbnail string) {
				run.updatePreview(id, fid, preview, thumbnail)
			})
		}()
	}
}

// conclude moves a provider to its terminal state. A failure without an
// error notice from the adapter gets a generic one.
func (o *Orchestrator) conclude(ctx context.Context, run *Run, id imagery.ProviderID, features []imagery.Feature, notices []imagery.Notice, err error, elapsed time.Duration) (ProviderStatus, bool) {
	reason := ""
	if err != nil {
		reason = backend.Reason(err)
		if !hasErrorNotice(notices, id) {
			msg := fmt.Sprintf("search on %s failed: %s", id.DisplayName(), reason)
			notices = append(notices, imagery.NewNotice(id, imagery.NoticeError, msg))
		}
	}

	st, ok := run.complete(id, features, notices, reason)
	if !ok {
		return st, false
	}

	metrics.ObserveProvider(string(id), string(st.State), elapsed.Seconds(), st.Count)
	if err != nil {
		o.logger.WarnContext(ctx, "provider search failed",
			slog.String("provider", string(id)),
			slog.String("error", err.Error()),
		)
	} else {
		o.logger.InfoContext(ctx, "provider search succeeded",
			slog.String("provider", string(id)),
			slog.Int("features", st.Count),
			slog.Duration("elapsed", elapsed),
		)
	}
	return st, true
}

func hasErrorNotice(notices []imagery.Notice, id imagery.ProviderID) bool {
	for _, n := range notices {
		if n.Provider == id && n.Level == imagery.NoticeError {
			return true
		}
	}
	return false
}

func outcomeLabel(states []ProviderStatus) string {
	failed := 0
	for _, st := range states {
		if st.State == StateFailed {
			failed++
		}
	}
	switch {
	case failed == 0:
		return "ok"
	case failed == len(states):
		return "failed"
	default:
		return "partial"
	}
}
