package doc

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livedocs/internal/app/store"
)

// collabSpy counts collaborator appends on top of the memory gateway.
type collabSpy struct {
	store.Gateway
	appendCalls int
	failAppend  bool
}

func (c *collabSpy) AppendCollaborator(ctx context.Context, documentID string, collab store.Collaborator) error {
	c.appendCalls++
	if c.failAppend {
		return assert.AnError
	}
	return c.Gateway.AppendCollaborator(ctx, documentID, collab)
}

func newOwnedDocument(t *testing.T) *collabSpy {
	t.Helper()

	mem := store.NewMemoryGateway()
	require.NoError(t, mem.Create(context.Background(), "d1", "", store.DefaultTitle))
	mem.SetOwner("d1", bob.ID, bob.Email)

	return &collabSpy{Gateway: mem}
}

func TestEnrollerAppendsNonOwnerJoiner(t *testing.T) {
	gw := newOwnedDocument(t)
	e := newEnroller("d1", gw, zerolog.Nop())

	e.OnJoin(context.Background(), alice)

	assert.Equal(t, 1, gw.appendCalls)

	collabs, err := gw.ListCollaborators(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, collabs, 1)
	assert.Equal(t, alice.ID, collabs[0].UserID)
	assert.Equal(t, alice.Email, collabs[0].Email)
}

func TestEnrollerCachesPositiveResult(t *testing.T) {
	gw := newOwnedDocument(t)
	e := newEnroller("d1", gw, zerolog.Nop())

	e.OnJoin(context.Background(), alice)
	e.OnJoin(context.Background(), alice)

	assert.Equal(t, 1, gw.appendCalls, "a second tab join must not re-enroll")
}

func TestEnrollerSkipsOwner(t *testing.T) {
	gw := newOwnedDocument(t)
	e := newEnroller("d1", gw, zerolog.Nop())

	e.OnJoin(context.Background(), bob)

	assert.Zero(t, gw.appendCalls, "the owner is never enrolled as a collaborator")
}

func TestEnrollerSkipsOwnerlessDocument(t *testing.T) {
	mem := store.NewMemoryGateway()
	require.NoError(t, mem.Create(context.Background(), "d1", "", store.DefaultTitle))
	gw := &collabSpy{Gateway: mem}

	e := newEnroller("d1", gw, zerolog.Nop())
	e.OnJoin(context.Background(), alice)

	assert.Zero(t, gw.appendCalls)
}

func TestEnrollerSkipsExistingCollaborator(t *testing.T) {
	gw := newOwnedDocument(t)
	require.NoError(t, gw.Gateway.AppendCollaborator(context.Background(), "d1", store.Collaborator{
		UserID:  alice.ID,
		Email:   alice.Email,
		Name:    alice.Name,
		AddedAt: time.Now(),
	}))

	e := newEnroller("d1", gw, zerolog.Nop())
	e.OnJoin(context.Background(), alice)

	assert.Zero(t, gw.appendCalls, "already-listed collaborators are not re-appended")
}

func TestEnrollerRetriesAfterAppendFailure(t *testing.T) {
	gw := newOwnedDocument(t)
	gw.failAppend = true

	e := newEnroller("d1", gw, zerolog.Nop())
	e.OnJoin(context.Background(), alice)
	assert.Equal(t, 1, gw.appendCalls)

	gw.failAppend = false
	e.OnJoin(context.Background(), alice)
	assert.Equal(t, 2, gw.appendCalls, "a failed enrollment is retried on the next join")
}

func TestEnrollerIgnoresMissingDocument(t *testing.T) {
	gw := &collabSpy{Gateway: store.NewMemoryGateway()}
	e := newEnroller("d1", gw, zerolog.Nop())

	e.OnJoin(context.Background(), alice)
	assert.Zero(t, gw.appendCalls)
}
