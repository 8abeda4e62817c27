package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGatewayLoadMissingDocument(t *testing.T) {
	g := NewMemoryGateway()

	_, err := g.Load(context.Background(), "d1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGatewayCreateAndLoad(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Create(ctx, "d1", "# Hello", "Notes"))

	d, err := g.Load(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", d.DocumentID)
	assert.Equal(t, "# Hello", d.Content)
	assert.Equal(t, "Notes", d.Title)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestMemoryGatewayCreateIsIdempotent(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Create(ctx, "d1", "original", "Notes"))
	require.NoError(t, g.Create(ctx, "d1", "clobbered", "Other"))

	d, err := g.Load(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "original", d.Content, "a second create must not overwrite")
	assert.Equal(t, "Notes", d.Title)
}

func TestMemoryGatewayUpdateContent(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Create(ctx, "d1", "", DefaultTitle))

	savedAt := time.Now().Add(time.Minute)
	require.NoError(t, g.UpdateContent(ctx, "d1", "# Saved", savedAt))

	d, err := g.Load(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "# Saved", d.Content)
	assert.True(t, d.UpdatedAt.Equal(savedAt))
}

func TestMemoryGatewayUpdateContentOnAbsentDocumentIsNoOp(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.UpdateContent(ctx, "ghost", "content", time.Now()))

	_, err := g.Load(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound, "an update must never resurrect a document")
}

func TestMemoryGatewayUpdateTitle(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Create(ctx, "d1", "", DefaultTitle))
	require.NoError(t, g.UpdateTitle(ctx, "d1", "Renamed"))

	d, err := g.Load(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", d.Title)

	require.NoError(t, g.UpdateTitle(ctx, "ghost", "Renamed"))
	_, err = g.Load(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGatewayAppendCollaboratorDeduplicates(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Create(ctx, "d1", "", DefaultTitle))

	c := Collaborator{UserID: "u1", Email: "u1@example.com", Name: "U One", AddedAt: time.Now()}
	require.NoError(t, g.AppendCollaborator(ctx, "d1", c))
	require.NoError(t, g.AppendCollaborator(ctx, "d1", c))

	collabs, err := g.ListCollaborators(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, collabs, 1)
	assert.Equal(t, "u1", collabs[0].UserID)
}

func TestMemoryGatewayLoadReturnsACopy(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Create(ctx, "d1", "", DefaultTitle))
	require.NoError(t, g.AppendCollaborator(ctx, "d1", Collaborator{UserID: "u1"}))

	d, err := g.Load(ctx, "d1")
	require.NoError(t, err)
	d.Collaborators[0].UserID = "mutated"
	d.Content = "mutated"

	fresh, err := g.Load(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "u1", fresh.Collaborators[0].UserID)
	assert.Equal(t, "", fresh.Content)
}

func TestMemoryGatewayDelete(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Create(ctx, "d1", "", DefaultTitle))
	require.NoError(t, g.Delete(ctx, "d1"))

	_, err := g.Load(ctx, "d1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, g.Delete(ctx, "d1"), "deleting an absent document is tolerated")
}

func TestMemoryGatewaySetOwner(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	require.NoError(t, g.Create(ctx, "d1", "", DefaultTitle))
	g.SetOwner("d1", "u-owner", "owner@example.com")

	d, err := g.Load(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "u-owner", d.OwnerID)
	assert.Equal(t, "owner@example.com", d.OwnerEmail)
}
