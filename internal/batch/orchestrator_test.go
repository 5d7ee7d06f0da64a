package batch

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/stlvol/internal/meshgen"
	"github.com/philipparndt/stlvol/pkg/geometry"
	"github.com/philipparndt/stlvol/pkg/stl"
)

func cubeBytes(t *testing.T, size float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, stl.WriteBinary(&buf, "", meshgen.Cube(geometry.Vector3{}, size)))
	return buf.Bytes()
}

// gatedSource blocks reads while its gate is closed
type gatedSource struct {
	name string
	data []byte
	err  error

	mu   sync.Mutex
	gate chan struct{}
}

func (g *gatedSource) Name() string { return g.name }

func (g *gatedSource) Read(ctx context.Context) ([]byte, error) {
	g.mu.Lock()
	gate := g.gate
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.data, g.err
}

func (g *gatedSource) hold() {
	g.mu.Lock()
	g.gate = make(chan struct{})
	g.mu.Unlock()
}

func (g *gatedSource) release() {
	g.mu.Lock()
	close(g.gate)
	g.mu.Unlock()
}

type recordingBinder struct {
	names   []string
	soups   []*stl.Soup
	unbinds int
}

func (b *recordingBinder) Unbind() { b.unbinds++ }

func (b *recordingBinder) Bind(name string, soup *stl.Soup) {
	b.names = append(b.names, name)
	b.soups = append(b.soups, soup)
}

type recordingListener struct {
	statuses []string
	bound    int
	total    float32
	updates  int
}

func (l *recordingListener) StatusChanged(message string) { l.statuses = append(l.statuses, message) }

func (l *recordingListener) EntriesChanged(entries []Entry, bound int) {
	l.bound = bound
	l.updates++
}

func (l *recordingListener) TotalChanged(total float32) { l.total = total }

type fixture struct {
	queue    *Queue
	binder   *recordingBinder
	listener *recordingListener
	o        *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		queue:    NewQueue(),
		binder:   &recordingBinder{},
		listener: &recordingListener{bound: -1},
	}
	f.o = New(f.queue, f.binder, f.listener, nil)
	return f
}

func (f *fixture) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.queue.RunUntilIdle(ctx, f.o))
}

func TestFirstFileIsBound(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.o.Submit([]Source{
		BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)},
		BytesSource{FileName: "b.stl", Data: cubeBytes(t, 2)},
	}))
	assert.False(t, f.o.Idle())
	f.settle(t)

	assert.Equal(t, 0, f.o.Bound())
	assert.Equal(t, []string{"a.stl"}, f.binder.names)
	require.Len(t, f.binder.soups, 1)
	assert.Equal(t, 12, f.binder.soups[0].TriangleCount())

	entries := f.o.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, Ready, e.Status)
	}
	assert.InDelta(t, 9.0, f.o.Total(), 1e-4)
	assert.InDelta(t, 9.0, f.listener.total, 1e-4)
	assert.Equal(t, 0, f.listener.bound)
	assert.Equal(t, "2 files queued (0 skipped)", f.listener.statuses[0])
}

func TestSubmitFiltersBySuffix(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.o.Submit([]Source{
		BytesSource{FileName: "notes.txt"},
		BytesSource{FileName: "PART.STL", Data: cubeBytes(t, 1)},
		BytesSource{FileName: "model.obj"},
	}))
	f.settle(t)

	entries := f.o.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "PART.STL", entries[0].Name)
	assert.Equal(t, "1 files queued (2 skipped)", f.listener.statuses[0])
}

func TestSubmitWithoutSTLChangesNothing(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)}}))
	f.settle(t)
	updates := f.listener.updates

	err := f.o.Submit([]Source{BytesSource{FileName: "a.png"}, BytesSource{FileName: "b.3mf"}})
	assert.ErrorIs(t, err, ErrNoSTLFiles)
	assert.True(t, f.o.Idle())
	assert.Equal(t, 0, f.o.Bound())
	assert.Len(t, f.o.Entries(), 1)
	assert.Equal(t, updates, f.listener.updates)
	assert.Contains(t, f.listener.statuses[len(f.listener.statuses)-1], "2 skipped")
}

func TestErrorsAreIsolated(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.o.Submit([]Source{
		BytesSource{FileName: "empty.stl", Data: []byte("solid nothing\nendsolid\n")},
		&gatedSource{name: "broken.stl", err: errors.New("disk on fire")},
		BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)},
		BytesSource{FileName: "b.stl", Data: cubeBytes(t, 3)},
	}))
	f.settle(t)

	entries := f.o.Entries()
	assert.Equal(t, Error, entries[0].Status)
	assert.Equal(t, "no triangles found", entries[0].Err)
	assert.Equal(t, Error, entries[1].Status)
	assert.Equal(t, "could not read file", entries[1].Err)
	assert.Equal(t, Ready, entries[2].Status)
	assert.Equal(t, Ready, entries[3].Status)

	assert.Equal(t, 2, f.o.Bound(), "first decodable file is bound")
	assert.InDelta(t, 28.0, f.o.Total(), 1e-3)
}

func TestSupersededBatchIsDropped(t *testing.T) {
	f := newFixture()
	slow := &gatedSource{name: "old.stl", data: cubeBytes(t, 5)}
	slow.hold()

	require.NoError(t, f.o.Submit([]Source{slow}))
	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "new.stl", Data: cubeBytes(t, 2)}}))
	slow.release()
	f.settle(t)

	assert.Equal(t, []string{"new.stl"}, f.binder.names)
	entries := f.o.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "new.stl", entries[0].Name)
	assert.InDelta(t, 8.0, f.o.Total(), 1e-4)
}

func TestLateOldResultAfterNewBatch(t *testing.T) {
	f := newFixture()
	slow := &gatedSource{name: "old.stl", data: cubeBytes(t, 5)}
	slow.hold()

	require.NoError(t, f.o.Submit([]Source{slow}))
	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "new.stl", Data: cubeBytes(t, 2)}}))
	// let the new batch finish before the old read returns
	for f.o.Bound() != 0 {
		f.queue.Drain()
		time.Sleep(time.Millisecond)
	}
	slow.release()
	f.settle(t)

	assert.Equal(t, []string{"new.stl"}, f.binder.names)
	assert.Equal(t, 0, f.o.Bound())
}

func TestSelectionSupersedesEarlierSelection(t *testing.T) {
	f := newFixture()
	b := &gatedSource{name: "b.stl", data: cubeBytes(t, 2)}
	require.NoError(t, f.o.Submit([]Source{
		BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)},
		b,
		BytesSource{FileName: "c.stl", Data: cubeBytes(t, 3)},
	}))
	f.settle(t)
	require.Equal(t, 0, f.o.Bound())

	b.hold()
	f.o.Select(1)
	f.o.Select(2)
	for f.o.Bound() != 2 {
		f.queue.Drain()
		time.Sleep(time.Millisecond)
	}
	b.release()
	f.settle(t)

	assert.Equal(t, 2, f.o.Bound())
	assert.Equal(t, []string{"a.stl", "c.stl"}, f.binder.names)
}

func TestSelectionSuppressesAutoBind(t *testing.T) {
	f := newFixture()
	b := &gatedSource{name: "b.stl", data: cubeBytes(t, 2)}
	b.hold()
	require.NoError(t, f.o.Submit([]Source{
		BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)},
		b,
	}))
	f.o.Select(1)
	f.queue.Drain()
	b.release()
	f.settle(t)

	assert.Equal(t, 1, f.o.Bound())
	assert.Equal(t, []string{"b.stl"}, f.binder.names)
	assert.InDelta(t, 9.0, f.o.Total(), 1e-4)
}

func TestSelectBoundIsNoop(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.o.Submit([]Source{
		BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)},
		BytesSource{FileName: "b.stl", Data: cubeBytes(t, 1)},
	}))
	f.settle(t)

	f.o.Select(0)
	f.o.Select(7)
	f.o.Select(-1)
	assert.True(t, f.o.Idle())
	assert.Len(t, f.binder.names, 1)
}

func TestSelectReadFailureKeepsReadyVolume(t *testing.T) {
	f := newFixture()
	b := &gatedSource{name: "b.stl", data: cubeBytes(t, 2)}
	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)}, b}))
	f.settle(t)
	require.InDelta(t, 9.0, f.o.Total(), 1e-4)

	b.data = []byte("garbage")
	f.o.Select(1)
	f.settle(t)

	assert.Equal(t, 0, f.o.Bound())
	entry := f.o.Entries()[1]
	assert.Equal(t, Ready, entry.Status)
	assert.InDelta(t, 8.0, entry.Volume, 1e-4)
	assert.InDelta(t, 9.0, f.o.Total(), 1e-4)
	assert.Contains(t, f.listener.statuses, "b.stl: no triangles found")
}

func TestSelectReadFailureMarksPendingEntry(t *testing.T) {
	f := newFixture()
	b := &gatedSource{name: "b.stl", data: []byte("garbage")}
	b.hold()
	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)}, b}))
	f.o.Select(1)
	b.release()
	f.settle(t)

	assert.Equal(t, Error, f.o.Entries()[1].Status)
	assert.InDelta(t, 1.0, f.o.Total(), 1e-5)
}

func TestSelectRecoversErroredEntry(t *testing.T) {
	f := newFixture()
	b := &gatedSource{name: "b.stl", data: []byte("garbage")}
	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)}, b}))
	f.settle(t)
	require.Equal(t, Error, f.o.Entries()[1].Status)

	b.data = cubeBytes(t, 2)
	f.o.Select(1)
	f.settle(t)

	entry := f.o.Entries()[1]
	assert.Equal(t, 1, f.o.Bound())
	assert.Equal(t, Ready, entry.Status)
	assert.Empty(t, entry.Err)
	assert.InDelta(t, 9.0, f.o.Total(), 1e-4)
}

func TestReselectingBoundDropsPendingSelection(t *testing.T) {
	f := newFixture()
	x := &gatedSource{name: "x.stl", data: cubeBytes(t, 2)}
	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)}, x}))
	f.settle(t)
	require.Equal(t, 0, f.o.Bound())

	x.hold()
	f.o.Select(1)
	f.o.Select(0)
	x.release()
	f.settle(t)

	assert.Equal(t, 0, f.o.Bound())
	assert.Equal(t, []string{"a.stl"}, f.binder.names)
}

func TestNewBatchUnbindsPreviousModel(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "a.stl", Data: cubeBytes(t, 1)}}))
	f.settle(t)
	require.Equal(t, 0, f.o.Bound())
	assert.Zero(t, f.binder.unbinds)

	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "bad.stl", Data: []byte("solid\nendsolid\n")}}))
	f.settle(t)

	assert.Equal(t, 1, f.binder.unbinds)
	assert.Equal(t, -1, f.o.Bound())
	assert.Equal(t, Error, f.o.Entries()[0].Status)

	require.NoError(t, f.o.Submit([]Source{BytesSource{FileName: "b.stl", Data: cubeBytes(t, 1)}}))
	f.settle(t)
	assert.ErrorIs(t, f.o.Submit([]Source{BytesSource{FileName: "notes.txt"}}), ErrNoSTLFiles)
	assert.Equal(t, 1, f.binder.unbinds)
	assert.Equal(t, 0, f.o.Bound())
}

func TestGeneration(t *testing.T) {
	var g Generation
	a := g.Next()
	assert.True(t, g.IsCurrent(a))
	b := g.Next()
	assert.False(t, g.IsCurrent(a))
	assert.True(t, g.IsCurrent(b))
	assert.Equal(t, b, g.Current())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "file is truncated", Describe(stl.ErrTruncated))
	assert.Equal(t, "no triangles found", Describe(errors.Join(errors.New("x"), stl.ErrNoTriangles)))
	_, err := FileSource{Path: "/definitely/not/here.stl"}.Read(context.Background())
	assert.Equal(t, "file not found", Describe(err))
}
