package store

import (
	"context"
	"sync"
	"time"
)

// MemoryGateway is an in-process Gateway. It backs development runs without a
// configured database and serves as the fixture for coordinator tests.
// Documents do not survive a restart.
type MemoryGateway struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryGateway returns an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		docs: make(map[string]*Document),
	}
}

// Ping always succeeds.
func (g *MemoryGateway) Ping(ctx context.Context) error {
	return nil
}

// Load returns a copy of the stored document, or ErrNotFound.
func (g *MemoryGateway) Load(ctx context.Context, documentID string) (Document, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.docs[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}

	out := *d
	out.Collaborators = append([]Collaborator(nil), d.Collaborators...)
	return out, nil
}

// Create inserts a fresh record; creating an existing document is a no-op.
func (g *MemoryGateway) Create(ctx context.Context, documentID, content, title string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.docs[documentID]; ok {
		return nil
	}

	now := time.Now()
	g.docs[documentID] = &Document{
		DocumentID: documentID,
		Title:      title,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

// UpdateContent overwrites content for an existing document; absent ids no-op.
func (g *MemoryGateway) UpdateContent(ctx context.Context, documentID, content string, updatedAt time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if d, ok := g.docs[documentID]; ok {
		d.Content = content
		d.UpdatedAt = updatedAt
	}
	return nil
}

// UpdateTitle overwrites the title for an existing document; absent ids no-op.
func (g *MemoryGateway) UpdateTitle(ctx context.Context, documentID, title string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if d, ok := g.docs[documentID]; ok {
		d.Title = title
		d.UpdatedAt = time.Now()
	}
	return nil
}

// ListCollaborators returns a copy of the collaborator list.
func (g *MemoryGateway) ListCollaborators(ctx context.Context, documentID string) ([]Collaborator, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.docs[documentID]
	if !ok {
		return nil, nil
	}
	return append([]Collaborator(nil), d.Collaborators...), nil
}

// AppendCollaborator adds an entry unless the user is already listed.
func (g *MemoryGateway) AppendCollaborator(ctx context.Context, documentID string, c Collaborator) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	d, ok := g.docs[documentID]
	if !ok {
		return nil
	}

	for _, existing := range d.Collaborators {
		if existing.UserID == c.UserID {
			return nil
		}
	}
	d.Collaborators = append(d.Collaborators, c)
	return nil
}

// Delete removes the record; deleting an absent document is a no-op.
func (g *MemoryGateway) Delete(ctx context.Context, documentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.docs, documentID)
	return nil
}

// SetOwner records document ownership. The realtime path never assigns
// ownership; tests use this to stage documents owned by someone else.
func (g *MemoryGateway) SetOwner(documentID, ownerID, ownerEmail string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if d, ok := g.docs[documentID]; ok {
		d.OwnerID = ownerID
		d.OwnerEmail = ownerEmail
	}
}
