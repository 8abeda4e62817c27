/*
Package store defines the persistence gateway for documents.

The realtime coordinator keeps the live working copy of every joined document in
memory and consults the gateway lazily: a cold load on first join, an explicit
update on save, and collaborator bookkeeping on enrollment. Two implementations
exist: a PostgreSQL-backed gateway for deployments and an in-process memory
gateway used in development (no DATABASE_URL) and in tests.
*/
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load when no document exists for the requested id.
var ErrNotFound = errors.New("document not found")

// DefaultTitle is the title given to documents created on first join.
const DefaultTitle = "Untitled Document"

// Collaborator is one durable collaborator-list entry on a document.
type Collaborator struct {
	UserID  string    `json:"userId"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"addedAt"`
}

// Document is the durable record for one document.
type Document struct {
	DocumentID    string
	Title         string
	Content       string
	OwnerID       string
	OwnerEmail    string
	Collaborators []Collaborator
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Gateway is the durable document store consumed by the realtime coordinator.
// Implementations must tolerate concurrent callers; the coordinator serializes
// calls per document but different documents proceed in parallel.
type Gateway interface {
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Load returns the document with the given id, or ErrNotFound.
	Load(ctx context.Context, documentID string) (Document, error)

	// Create inserts a new document record. The record starts without an
	// owner; ownership is assigned by the document CRUD surface, which is
	// outside the realtime path.
	Create(ctx context.Context, documentID, content, title string) error

	// UpdateContent overwrites the stored content and updatedAt timestamp.
	// Updating an absent document is a no-op, never an insert.
	UpdateContent(ctx context.Context, documentID, content string, updatedAt time.Time) error

	// UpdateTitle overwrites the stored title of an existing document.
	UpdateTitle(ctx context.Context, documentID, title string) error

	// ListCollaborators returns the current collaborator list.
	ListCollaborators(ctx context.Context, documentID string) ([]Collaborator, error)

	// AppendCollaborator adds an entry to the collaborator list. Appending a
	// user who is already listed is a no-op.
	AppendCollaborator(ctx context.Context, documentID string, c Collaborator) error

	// Delete removes the document and its collaborator list.
	Delete(ctx context.Context, documentID string) error
}
