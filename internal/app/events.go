package app

import "github.com/philipparndt/stlvol/internal/batch"

// Events is the presentation port. All methods are called on the goroutine
// that owns the App.
type Events interface {
	StatusChanged(message string)
	EntriesChanged(entries []batch.Entry, bound int)
	MetricsChanged(m Metrics)
	ModelBound(name string)
	RenderFailed(message string)
	SnapshotReady(url string)
}

// NopEvents ignores everything; embed it to implement part of Events
type NopEvents struct{}

func (NopEvents) StatusChanged(string) {}
func (NopEvents) EntriesChanged([]batch.Entry, int) {}
func (NopEvents) MetricsChanged(Metrics) {}
func (NopEvents) ModelBound(string) {}
func (NopEvents) RenderFailed(string) {}
func (NopEvents) SnapshotReady(string) {}
