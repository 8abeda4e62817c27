package doc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"livedocs/internal/app/store"
	"livedocs/internal/app/user"
)

// enroller idempotently appends non-owner joiners to the document's durable
// collaborator list. A positive result is cached for the session's lifetime so
// repeated tab joins by the same user do not re-query the store.
type enroller struct {
	documentID string
	gateway    store.Gateway
	enrolled   map[string]struct{}
	logger     zerolog.Logger
}

func newEnroller(documentID string, gateway store.Gateway, logger zerolog.Logger) *enroller {
	return &enroller{
		documentID: documentID,
		gateway:    gateway,
		enrolled:   make(map[string]struct{}),
		logger:     logger,
	}
}

// OnJoin enrolls the joining user as a collaborator when the document has a
// recorded owner other than the user and the user is not already listed.
// Failure is logged and never blocks the join; enrollment retries on the
// user's next uncached join.
func (e *enroller) OnJoin(ctx context.Context, u user.User) {
	if _, ok := e.enrolled[u.ID]; ok {
		return
	}

	d, err := e.gateway.Load(ctx, e.documentID)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		e.logger.Error().Err(err).
			Str("user_id", u.ID).
			Msg("Collaborator enrollment lookup failed.")
		return
	}

	if d.OwnerID == "" || d.OwnerID == u.ID {
		// The owner is a participant, not a collaborator. An ownerless
		// document gains collaborators only once the CRUD surface assigns
		// an owner.
		e.enrolled[u.ID] = struct{}{}
		return
	}

	for _, c := range d.Collaborators {
		if c.UserID == u.ID {
			e.enrolled[u.ID] = struct{}{}
			return
		}
	}

	err = e.gateway.AppendCollaborator(ctx, e.documentID, store.Collaborator{
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.Name,
		AddedAt: time.Now(),
	})
	if err != nil {
		e.logger.Error().Err(err).
			Str("user_id", u.ID).
			Msg("Failed to enroll collaborator.")
		return
	}

	e.enrolled[u.ID] = struct{}{}
	e.logger.Info().
		Str("user_id", u.ID).
		Str("display_name", u.Name).
		Msg("User enrolled as collaborator.")
}
