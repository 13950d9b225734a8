package ingest

import "sync/atomic"

// Status is a point-in-time snapshot of ingestion progress.
type Status struct {
	IsProcessing bool   `json:"is_processing"`
	Current      int    `json:"current"`
	Total        int    `json:"total"`
	CurrentFile  string `json:"current_file"`
}

// statusCell publishes Status snapshots to concurrent readers. Each update
// replaces the whole struct through an atomic pointer swap, so a reader can
// never observe a half-written snapshot.
type statusCell struct {
	ptr atomic.Pointer[Status]
}

func newStatusCell() *statusCell {
	c := &statusCell{}
	c.ptr.Store(&Status{})
	return c
}

// Load returns the current snapshot by value.
func (c *statusCell) Load() Status {
	return *c.ptr.Load()
}

// Store publishes a new snapshot.
func (c *statusCell) Store(s Status) {
	c.ptr.Store(&s)
}
