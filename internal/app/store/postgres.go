package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"livedocs/internal/app/db"
)

// PostgresGateway implements Gateway on top of a pgx connection pool.
type PostgresGateway struct {
	pool *pgxpool.Pool
}

// NewPostgresGateway wraps an initialized connection pool. Migrations are
// applied by db.NewPool before the pool reaches this constructor.
func NewPostgresGateway(pool *pgxpool.Pool) *PostgresGateway {
	return &PostgresGateway{pool: pool}
}

// Close releases the underlying connection pool.
func (g *PostgresGateway) Close() {
	g.pool.Close()
}

// Ping reports whether the database is reachable.
func (g *PostgresGateway) Ping(ctx context.Context) error {
	return g.pool.Ping(ctx)
}

// Load returns the document row plus its collaborator list, or ErrNotFound.
func (g *PostgresGateway) Load(ctx context.Context, documentID string) (Document, error) {
	const query = `
		SELECT document_id, title, content,
		       COALESCE(owner_id, ''), COALESCE(owner_email, ''),
		       created_at, updated_at
		FROM documents
		WHERE document_id = $1`

	var d Document
	err := g.pool.QueryRow(ctx, query, documentID).Scan(
		&d.DocumentID, &d.Title, &d.Content,
		&d.OwnerID, &d.OwnerEmail,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("load document %s: %w", documentID, err)
	}

	collaborators, err := g.ListCollaborators(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	d.Collaborators = collaborators

	return d, nil
}

// Create inserts a fresh, ownerless document record.
func (g *PostgresGateway) Create(ctx context.Context, documentID, content, title string) error {
	const query = `
		INSERT INTO documents (document_id, title, content)
		VALUES ($1, $2, $3)`

	_, err := g.pool.Exec(ctx, query, documentID, title, content)
	if db.IsUniqueViolation(err) {
		// Another node or a racing CRUD request created it first.
		return nil
	}
	if err != nil {
		return fmt.Errorf("create document %s: %w", documentID, err)
	}
	return nil
}

// UpdateContent overwrites content for an existing document. Zero rows
// affected means the record was deleted out from under the working copy,
// which the caller treats as a silent no-op.
func (g *PostgresGateway) UpdateContent(ctx context.Context, documentID, content string, updatedAt time.Time) error {
	const query = `
		UPDATE documents
		SET content = $2, updated_at = $3
		WHERE document_id = $1`

	if _, err := g.pool.Exec(ctx, query, documentID, content, updatedAt); err != nil {
		return fmt.Errorf("update content %s: %w", documentID, err)
	}
	return nil
}

// UpdateTitle overwrites the title for an existing document.
func (g *PostgresGateway) UpdateTitle(ctx context.Context, documentID, title string) error {
	const query = `
		UPDATE documents
		SET title = $2, updated_at = now()
		WHERE document_id = $1`

	if _, err := g.pool.Exec(ctx, query, documentID, title); err != nil {
		return fmt.Errorf("update title %s: %w", documentID, err)
	}
	return nil
}

// ListCollaborators returns the collaborator list ordered by enrollment time.
func (g *PostgresGateway) ListCollaborators(ctx context.Context, documentID string) ([]Collaborator, error) {
	const query = `
		SELECT user_id, email, name, added_at
		FROM document_collaborators
		WHERE document_id = $1
		ORDER BY added_at`

	rows, err := g.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators %s: %w", documentID, err)
	}
	defer rows.Close()

	var collaborators []Collaborator
	for rows.Next() {
		var c Collaborator
		if err := rows.Scan(&c.UserID, &c.Email, &c.Name, &c.AddedAt); err != nil {
			return nil, fmt.Errorf("scan collaborator %s: %w", documentID, err)
		}
		collaborators = append(collaborators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collaborators %s: %w", documentID, err)
	}

	return collaborators, nil
}

// AppendCollaborator inserts a collaborator entry. A duplicate insert reports
// success: enrollment is idempotent per (document, user).
func (g *PostgresGateway) AppendCollaborator(ctx context.Context, documentID string, c Collaborator) error {
	const query = `
		INSERT INTO document_collaborators (document_id, user_id, email, name, added_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := g.pool.Exec(ctx, query, documentID, c.UserID, c.Email, c.Name, c.AddedAt)
	if db.IsUniqueViolation(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("append collaborator %s/%s: %w", documentID, c.UserID, err)
	}
	return nil
}

// Delete removes the document; the collaborator rows cascade.
func (g *PostgresGateway) Delete(ctx context.Context, documentID string) error {
	const query = `DELETE FROM documents WHERE document_id = $1`

	if _, err := g.pool.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}
