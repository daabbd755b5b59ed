package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Outcome is a point-in-time view of a run.
type Outcome struct {
	ID       string                  `json:"id"`
	Done     bool                    `json:"done"`
	Settings *imagery.SearchSettings `json:"settings,omitempty"`
	Polygon  *imagery.SearchPolygon  `json:"searchPolygon,omitempty"`
	States   []ProviderStatus        `json:"states"`
	Notices  []imagery.Notice        `json:"notices"`
	Features []imagery.Feature       `json:"features"`
}

// Export builds the downloadable GeoJSON of the outcome.
func (o *Outcome) Export() (*geojson.FeatureCollection, error) {
	if o.Polygon == nil {
		return nil, errors.New("search has no polygon to export")
	}
	return imagery.Export(*o.Polygon, o.Features)
}

// Run is one search in progress or finished.
type Run struct {
	ID         string
	Polygon    *imagery.SearchPolygon
	Collection *imagery.Collection
	Status     *StatusTracker

	createdAt time.Time

	// mu keeps merges, transitions and notices consistent for snapshots.
	mu      sync.RWMutex
	notices []imagery.Notice
	err     error
	closing bool

	// emitMu serializes listener calls.
	emitMu   sync.Mutex
	listener Listener

	done     chan struct{}
	previews sync.WaitGroup
}

func newRun(id string, l Listener, now time.Time) *Run {
	if l == nil {
		l = nopListener
	}
	return &Run{
		ID:         id,
		Collection: imagery.NewCollection(),
		Status:     NewStatusTracker(nil, 0),
		createdAt:  now,
		listener:   l,
		done:       make(chan struct{}),
	}
}

// Done is closed once every launched provider is terminal.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Err returns the validation error of a rejected run.
func (r *Run) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Wait blocks until the run finishes or ctx is done. Cancelling ctx does not
// stop the providers; the run keeps filling in the background.
func (r *Run) Wait(ctx context.Context) (*Outcome, error) {
	select {
	case <-r.done:
		return r.Snapshot(), r.Err()
	case <-ctx.Done():
		return r.Snapshot(), ctx.Err()
	}
}

// WaitPreviews blocks until pending preview lookups have reported.
func (r *Run) WaitPreviews() {
	r.previews.Wait()
}

// Snapshot returns the current merged state of the run.
func (r *Run) Snapshot() *Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &Outcome{
		ID:       r.ID,
		States:   r.Status.Snapshot(),
		Notices:  append([]imagery.Notice{}, r.notices...),
		Features: r.Collection.Snapshot(),
	}
	if r.Polygon != nil {
		p := *r.Polygon
		s := p.Settings
		out.Polygon = &p
		out.Settings = &s
	}
	select {
	case <-r.done:
		out.Done = true
	default:
	}
	return out
}

func (r *Run) finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// notify adds a notice and emits it.
func (r *Run) notify(n imagery.Notice) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()

	r.listener.OnEvent(Event{Type: EventNotice, RunID: r.ID, Provider: n.Provider, Notice: &n})
}

func (r *Run) emitState(st ProviderStatus) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	r.listener.OnEvent(Event{Type: EventState, RunID: r.ID, Provider: st.Provider, Status: &st})
}

// complete merges one provider result and moves its status out of Pending.
// It returns false when the provider had already finished.
func (r *Run) complete(id imagery.ProviderID, features []imagery.Feature, notices []imagery.Notice, failReason string) (ProviderStatus, bool) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	var (
		st ProviderStatus
		ok bool
	)
	if failReason != "" {
		st, ok = r.Status.Fail(id, failReason)
	} else {
		st, ok = r.Status.Succeed(id, len(features))
	}
	if ok {
		if failReason == "" {
			r.Collection.Append(features...)
		}
		r.notices = append(r.notices, notices...)
	}
	r.mu.Unlock()

	if !ok {
		return st, false
	}
	for i := range notices {
		n := notices[i]
		r.listener.OnEvent(Event{Type: EventNotice, RunID: r.ID, Provider: n.Provider, Notice: &n})
	}
	if failReason == "" && len(features) > 0 {
		r.listener.OnEvent(Event{Type: EventFeatures, RunID: r.ID, Provider: id, Features: features})
	}
	r.listener.OnEvent(Event{Type: EventState, RunID: r.ID, Provider: id, Status: &st})
	return st, true
}

// updatePreview rewrites a merged feature's preview and emits it.
func (r *Run) updatePreview(platform imagery.ProviderID, id, preview, thumbnail string) bool {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	ok := r.Collection.UpdatePreview(platform, id, preview, thumbnail)
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.listener.OnEvent(Event{
		Type:     EventPreview,
		RunID:    r.ID,
		Provider: platform,
		Preview:  &Preview{ID: id, PreviewURI: preview, ThumbnailURI: thumbnail},
	})
	return true
}

// finish emits the final event exactly once, then closes Done.
func (r *Run) finish(err error) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	if r.closing {
		r.mu.Unlock()
		return
	}
	r.closing = true
	r.err = err
	r.mu.Unlock()

	out := r.Snapshot()
	out.Done = true
	r.listener.OnEvent(Event{Type: EventFinished, RunID: r.ID, Outcome: out})
	close(r.done)
}
