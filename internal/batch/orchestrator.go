// Package batch loads a set of STL files in the background, keeps one
// result per file and binds a single model to the view. All state is owned
// by one goroutine; background work reports back through a Dispatcher and
// is discarded when its generation token is no longer current.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/philipparndt/stlvol/pkg/stl"
)

// Status is the load state of one file
type Status int

const (
	Pending Status = iota
	Ready
	Error
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Entry is the per-file record of the current batch
type Entry struct {
	Name   string
	Source Source
	Status Status
	Volume float32 // raw volume in the file's unit cubed
	Err    string
}

// Binder pushes decoded geometry into the view. Unbind is called when a
// new batch replaces the one the bound model came from.
type Binder interface {
	Bind(name string, soup *stl.Soup)
	Unbind()
}

// Listener is notified on the owner goroutine whenever visible state changes
type Listener interface {
	StatusChanged(message string)
	EntriesChanged(entries []Entry, bound int)
	TotalChanged(total float32)
}

// run is the shared state of one submitted batch
type run struct {
	token Token
	ctx   context.Context
	// set once a model is bound or the user picked one; later files are
	// measured without keeping geometry
	bound atomic.Bool
}

type result struct {
	soup   *stl.Soup
	volume float32
	err    error
}

// Orchestrator is the batch state machine
type Orchestrator struct {
	dispatcher Dispatcher
	binder     Binder
	listener   Listener
	logger     *log.Logger

	batchGen  Generation
	selectGen Generation

	current  *run
	cancel   context.CancelFunc
	entries  []Entry
	bound    int
	inflight int
}

// New creates an orchestrator. A nil logger discards output.
func New(dispatcher Dispatcher, binder Binder, listener Listener, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{
		dispatcher: dispatcher,
		binder:     binder,
		listener:   listener,
		logger:     logger,
		bound:      -1,
	}
}

// Submit replaces the current batch with the STL files among sources
func (o *Orchestrator) Submit(sources []Source) error {
	var accepted []Source
	for _, src := range sources {
		if stl.HasSTLExt(src.Name()) {
			accepted = append(accepted, src)
		}
	}
	skipped := len(sources) - len(accepted)
	if len(accepted) == 0 {
		o.listener.StatusChanged(fmt.Sprintf("STL file required (binary or ASCII), %d skipped", skipped))
		return ErrNoSTLFiles
	}

	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &run{token: o.batchGen.Next(), ctx: ctx}
	selection := o.selectGen.Next()

	o.current = r
	o.cancel = cancel
	if o.bound >= 0 {
		o.binder.Unbind()
	}
	o.bound = -1
	o.entries = make([]Entry, len(accepted))
	for i, src := range accepted {
		o.entries[i] = Entry{Name: src.Name(), Source: src, Status: Pending}
	}

	o.logger.Printf("batch %d: %d files queued, %d skipped", r.token, len(accepted), skipped)
	o.listener.StatusChanged(fmt.Sprintf("%d files queued (%d skipped)", len(accepted), skipped))
	o.notify()

	o.inflight++
	go o.load(r, selection, accepted)
	return nil
}

// load reads and decodes files in order on a background goroutine
func (o *Orchestrator) load(r *run, selection Token, sources []Source) {
	defer o.dispatcher.Dispatch(func() { o.inflight-- })

	produced := false
	for i, src := range sources {
		if r.ctx.Err() != nil {
			return
		}
		res := o.read(r.ctx, src, !produced && !r.bound.Load())
		if res.soup != nil {
			produced = true
		}
		o.dispatcher.Dispatch(func() { o.complete(r, selection, i, res) })
	}
}

func (o *Orchestrator) read(ctx context.Context, src Source, full bool) result {
	data, err := src.Read(ctx)
	if err != nil {
		return result{err: err}
	}
	if full {
		soup, err := stl.Decode(data)
		if err != nil {
			return result{err: err}
		}
		return result{soup: soup, volume: soup.Volume()}
	}
	m, err := stl.Measure(data)
	if err != nil {
		return result{err: err}
	}
	return result{volume: m.Volume}
}

func (o *Orchestrator) complete(r *run, selection Token, i int, res result) {
	if !o.batchGen.IsCurrent(r.token) {
		return
	}

	e := &o.entries[i]
	if res.err != nil {
		o.logger.Printf("%s: %v", e.Name, res.err)
		e.Status = Error
		e.Err = Describe(res.err)
	} else {
		e.Status = Ready
		e.Volume = res.volume
		e.Err = ""
	}

	if res.soup != nil && o.bound < 0 && o.selectGen.IsCurrent(selection) {
		o.bind(r, i, res.soup)
	}
	o.notify()
}

// Select binds file i, re-reading it in the background. Selecting an
// index out of range does nothing. Selecting the bound file keeps it and
// discards any selection still loading.
func (o *Orchestrator) Select(i int) {
	if i < 0 || i >= len(o.entries) {
		return
	}
	if i == o.bound {
		o.selectGen.Next()
		return
	}

	r := o.current
	selection := o.selectGen.Next()
	r.bound.Store(true)
	src := o.entries[i].Source

	o.inflight++
	go func() {
		res := o.read(r.ctx, src, true)
		o.dispatcher.Dispatch(func() {
			o.inflight--
			if !o.batchGen.IsCurrent(r.token) || !o.selectGen.IsCurrent(selection) {
				return
			}

			e := &o.entries[i]
			if res.err != nil {
				o.logger.Printf("%s: %v", e.Name, res.err)
				// a ready entry keeps its volume; only the reload failed
				if e.Status == Pending {
					e.Status = Error
					e.Err = Describe(res.err)
				} else {
					o.listener.StatusChanged(e.Name + ": " + Describe(res.err))
				}
				o.notify()
				return
			}
			if e.Status != Ready {
				e.Status = Ready
				e.Volume = res.volume
				e.Err = ""
			}
			o.bind(r, i, res.soup)
			o.notify()
		})
	}()
}

func (o *Orchestrator) bind(r *run, i int, soup *stl.Soup) {
	r.bound.Store(true)
	o.bound = i
	o.binder.Bind(o.entries[i].Name, soup)
}

func (o *Orchestrator) notify() {
	o.listener.EntriesChanged(o.Entries(), o.bound)
	o.listener.TotalChanged(o.Total())
}

// Entries returns a copy of the current batch
func (o *Orchestrator) Entries() []Entry {
	out := make([]Entry, len(o.entries))
	copy(out, o.entries)
	return out
}

// Bound returns the index of the displayed file, or -1
func (o *Orchestrator) Bound() int {
	return o.bound
}

// Total sums the raw volumes of every ready file
func (o *Orchestrator) Total() float32 {
	var total float32
	for _, e := range o.entries {
		if e.Status == Ready {
			total += e.Volume
		}
	}
	return total
}

// Idle reports whether no background work is outstanding
func (o *Orchestrator) Idle() bool {
	return o.inflight == 0
}

// Close cancels the current batch
func (o *Orchestrator) Close() {
	if o.cancel != nil {
		o.cancel()
	}
}
