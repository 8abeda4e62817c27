package doc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livedocs/internal/app/store"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func TestManagerGetOrCreateReturnsSameSession(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	s1 := m.GetOrCreate("d1")
	s2 := m.GetOrCreate("d1")
	assert.Same(t, s1, s2)

	other := m.GetOrCreate("d2")
	assert.NotSame(t, s1, other)
}

func TestManagerGetReturnsNilForUnknownDocument(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	assert.Nil(t, m.Get("d1"))
}

func TestManagerRemovesSessionAfterDocumentEmpties(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	s := m.GetOrCreate("d1")
	sink := &fakeSink{}
	s.Join("c1", alice, sink)

	require.Eventually(t, func() bool {
		return sink.count(TypeDocumentData) == 1
	}, waitFor, tick, "join delivers the document snapshot")

	s.Leave("c1")

	require.Eventually(t, func() bool {
		return m.Get("d1") == nil
	}, waitFor, tick, "session is reaped once the document empties")

	// A fresh join starts a replacement session.
	assert.NotNil(t, m.GetOrCreate("d1"))
}

func TestManagerUpdateTitlePersistsAndBroadcasts(t *testing.T) {
	gw := store.NewMemoryGateway()
	require.NoError(t, gw.Create(context.Background(), "d1", "", store.DefaultTitle))

	m := NewManager(gw)
	defer m.Shutdown()

	s := m.GetOrCreate("d1")
	sink := &fakeSink{}
	s.Join("c1", alice, sink)

	require.Eventually(t, func() bool {
		return sink.count(TypeDocumentData) == 1
	}, waitFor, tick)

	require.NoError(t, m.UpdateTitle(context.Background(), "d1", "Renamed"))

	require.Eventually(t, func() bool {
		msg, ok := sink.last(TypeTitleUpdated)
		return ok && msg.Payload.(TitleUpdatedPayload).Title == "Renamed"
	}, waitFor, tick, "live participants hear about the rename")

	d, err := gw.Load(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", d.Title)
}

func TestManagerShutdownWaitsForSessionLoops(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())

	s1 := m.GetOrCreate("d1")
	s2 := m.GetOrCreate("d2")

	sink := &fakeSink{}
	s1.Join("c1", alice, sink)

	require.Eventually(t, func() bool {
		return sink.count(TypeDocumentData) == 1
	}, waitFor, tick)

	m.Shutdown()

	// Shutdown returns only after every session goroutine has exited.
	assert.True(t, s1.stopped())
	assert.True(t, s2.stopped())
}
