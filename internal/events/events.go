// Package events defines the progress notifications the resolver emits
// while it works through providers.
package events

// Status is the state reported by an update event.
type Status string

const (
	Pending  Status = "pending"
	NotFound Status = "notfound"
	Failure  Status = "failure"
)

// Terminal reports whether s ends an attempt.
func (s Status) Terminal() bool {
	return s == NotFound || s == Failure
}

// InitEvent lists the sources that will be tried, in order.
type InitEvent struct {
	SourceIDs []string `json:"sourceIds"`
}

// UpdateEvent reports progress or the outcome of one attempt.
// Terminal statuses always carry Percentage 100.
type UpdateEvent struct {
	ID         string `json:"id"`
	Percentage int    `json:"percentage"`
	Status     Status `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Error      error  `json:"-"`
}

// DiscoveredEmbed is one embed attempt found by a source.
type DiscoveredEmbed struct {
	ID             string `json:"id"`
	EmbedScraperID string `json:"embedScraperId"`
}

// DiscoverEmbedsEvent lists the embeds a source returned.
type DiscoverEmbedsEvent struct {
	SourceID string            `json:"sourceId"`
	Embeds   []DiscoveredEmbed `json:"embeds"`
}

// Sink receives resolver events.
type Sink interface {
	Init(InitEvent)
	Start(id string)
	Update(UpdateEvent)
	DiscoverEmbeds(DiscoverEmbedsEvent)
}

// Funcs adapts optional callbacks to a Sink. Nil fields are skipped.
type Funcs struct {
	OnInit           func(InitEvent)
	OnStart          func(id string)
	OnUpdate         func(UpdateEvent)
	OnDiscoverEmbeds func(DiscoverEmbedsEvent)
}

func (f Funcs) Init(e InitEvent) {
	if f.OnInit != nil {
		f.OnInit(e)
	}
}

func (f Funcs) Start(id string) {
	if f.OnStart != nil {
		f.OnStart(id)
	}
}

func (f Funcs) Update(e UpdateEvent) {
	if f.OnUpdate != nil {
		f.OnUpdate(e)
	}
}

func (f Funcs) DiscoverEmbeds(e DiscoverEmbedsEvent) {
	if f.OnDiscoverEmbeds != nil {
		f.OnDiscoverEmbeds(e)
	}
}

// Nop discards every event.
var Nop Sink = Funcs{}

// Multi fans events out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

type multi []Sink

func (m multi) Init(e InitEvent) {
	for _, s := range m {
		s.Init(e)
	}
}

func (m multi) Start(id string) {
	for _, s := range m {
		s.Start(id)
	}
}

func (m multi) Update(e UpdateEvent) {
	for _, s := range m {
		s.Update(e)
	}
}

func (m multi) DiscoverEmbeds(e DiscoverEmbedsEvent) {
	for _, s := range m {
		s.DiscoverEmbeds(e)
	}
}
