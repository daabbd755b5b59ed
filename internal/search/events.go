package search

import "github.com/robert-malhotra/eo-search/internal/imagery"

// EventType names what changed in a run.
type EventType string

const (
	EventState    EventType = "state"
	EventFeatures EventType = "features"
	EventNotice   EventType = "notice"
	EventPreview  EventType = "preview"
	EventFinished EventType = "finished"
)

// Preview is a resolved preview of one merged feature.
type Preview struct {
	ID           string `json:"id"`
	PreviewURI   string `json:"previewUri,omitempty"`
	ThumbnailURI string `json:"thumbnailUri,omitempty"`
}

// Event is one progress update of a run. Only the field matching Type is set.
type Event struct {
	Type     EventType          `json:"type"`
	RunID    string             `json:"runId"`
	Provider imagery.ProviderID `json:"provider,omitempty"`
	Status   *ProviderStatus    `json:"status,omitempty"`
	Features []imagery.Feature  `json:"features,omitempty"`
	Notice   *imagery.Notice    `json:"notice,omitempty"`
	Preview  *Preview           `json:"preview,omitempty"`
	Outcome  *Outcome           `json:"outcome,omitempty"`
}

// Listener receives the events of a run. Calls for one run never overlap.
// Preview events may still arrive after the finished event.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

var nopListener = ListenerFunc(func(Event) {})
