package crossfilter

import (
	"go.uber.org/zap"

	"linkmap/internal/geom"
)

// State is the session state of the cross-filter.
type State int

const (
	Unfiltered State = iota
	Filtered
)

func (s State) String() string {
	if s == Filtered {
		return "Filtered"
	}
	return "Unfiltered"
}

// RenderFunc redraws a view from the full record collection.
type RenderFunc func(records []Record)

// Coordinator owns the record collection and broadcasts every change to the
// registered views. It is not safe for concurrent use; callers drive it from a
// single event loop.
type Coordinator struct {
	records  []Record
	features []geom.Feature
	views    []RenderFunc
	state    State
	brush    *Rect
	log      *zap.Logger
}

// NewCoordinator returns an empty coordinator. Views are attached with
// Register before Initialize.
func NewCoordinator() *Coordinator {
	return &Coordinator{log: zap.L().With(zap.String("component", "crossfilter"))}
}

// Register appends a view. Views are rendered in registration order.
func (c *Coordinator) Register(fn RenderFunc) {
	c.views = append(c.views, fn)
}

// Initialize takes ownership of records and features, clears every filter and
// performs the first render.
func (c *Coordinator) Initialize(records []Record, features []geom.Feature) {
	c.records = records
	c.features = features
	for i := range c.records {
		c.records[i].Filtered = false
	}
	c.state = Unfiltered
	c.brush = nil
	c.log.Debug("initialized", zap.Int("records", len(records)), zap.Int("features", len(features)))
	c.broadcast()
}

// ApplyBrush recomputes Filtered for every record from sel and re-renders all
// views once. A nil or degenerate selection clears all filters.
func (c *Coordinator) ApplyBrush(sel *Rect) {
	reset := sel == nil || sel.Degenerate()
	for i := range c.records {
		if reset {
			c.records[i].Filtered = false
			continue
		}
		c.records[i].Filtered = sel.Excludes(c.records[i])
	}
	if reset {
		c.state = Unfiltered
		c.brush = nil
	} else {
		c.state = Filtered
		b := *sel
		c.brush = &b
	}
	c.log.Debug("brush applied",
		zap.Stringer("state", c.state),
		zap.Int("kept", Kept(c.records)),
		zap.Int("total", len(c.records)),
	)
	c.broadcast()
}

func (c *Coordinator) broadcast() {
	for _, view := range c.views {
		view(c.records)
	}
}

// Records returns the shared record slice. Callers must not modify it.
func (c *Coordinator) Records() []Record { return c.records }

// Features returns the geometry loaded with the records.
func (c *Coordinator) Features() []geom.Feature { return c.features }

// State reports whether a non-degenerate brush is active.
func (c *Coordinator) State() State { return c.state }

// Brush returns a copy of the active selection, or nil when unfiltered.
func (c *Coordinator) Brush() *Rect {
	if c.brush == nil {
		return nil
	}
	b := *c.brush
	return &b
}
