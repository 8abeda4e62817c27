/*
Package doc implements the realtime document collaboration coordinator.

This file defines the Session struct, the serialization point for a single
document. Every state transition for a document (connection registration,
content edits, cursor moves, saves, deletion) flows through one event loop,
so in-memory invariants hold without locks and broadcasts always observe
post-mutation state. Different documents run fully independent sessions.
*/
package doc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"livedocs/internal/app/store"
	"livedocs/internal/app/user"
	"livedocs/internal/pkg/logx"
)

const (
	// eventChannelBuffer bounds how many inbound events can queue while the
	// loop awaits a persistence call.
	eventChannelBuffer = 256

	// persistTimeout bounds every gateway call made from the event loop; a
	// store stall must not wedge the document forever.
	persistTimeout = 10 * time.Second
)

// eventKind discriminates the events the session loop dispatches on.
type eventKind int

const (
	evtJoin eventKind = iota
	evtLeave
	evtEdit
	evtCursor
	evtSave
	evtDelete
	evtTitle
)

// event is one unit of work for the session loop. Only the fields relevant
// to the kind are set.
type event struct {
	kind         eventKind
	connectionID string
	user         user.User
	sink         Sink
	content      string
	title        string
	x, y         float64
}

// workingCopy is the in-memory authoritative content and title of the
// document while at least one participant is present. The durable store may
// lag behind it until a save occurs.
type workingCopy struct {
	Content string
	Title   string
}

// CleanupMsg notifies the Manager that a session has terminated and should be
// removed from the session map.
type CleanupMsg struct {
	DocumentID string
}

// Session is the per-document coordinator. All mutation happens on the
// goroutine running Run; public methods enqueue events.
type Session struct {
	// DocumentID identifies the document this session coordinates.
	DocumentID string

	gateway  store.Gateway
	registry *Registry
	cursors  *cursorTable
	enroller *enroller

	// working is nil until the first join loads or creates the document.
	working *workingCopy

	events chan event

	// stopChan forces the Run loop to exit, used on server shutdown.
	stopChan chan struct{}

	// done is closed when the Run loop has exited; enqueue uses it to turn
	// late events into no-ops instead of blocking forever.
	done chan struct{}

	cleanupChan chan<- CleanupMsg

	logger zerolog.Logger
}

// NewSession constructs a session for the document. The caller starts the
// event loop with go s.Run().
func NewSession(documentID string, gateway store.Gateway, cleanupChan chan<- CleanupMsg) *Session {
	sessionLogger := logx.Logger().With().
		Str("document_id", documentID).
		Logger()

	return &Session{
		DocumentID:  documentID,
		gateway:     gateway,
		registry:    NewRegistry(),
		cursors:     newCursorTable(),
		enroller:    newEnroller(documentID, gateway, sessionLogger),
		events:      make(chan event, eventChannelBuffer),
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
		cleanupChan: cleanupChan,
		logger:      sessionLogger,
	}
}

// Run executes the session event loop until the document empties, is deleted,
// or the session is stopped. On exit it notifies the Manager for cleanup.
func (s *Session) Run() {
	defer func() {
		close(s.done)

		// The Manager only closes the cleanup channel after every session
		// loop has exited, so this send can never hit a closed channel.
		select {
		case s.cleanupChan <- CleanupMsg{DocumentID: s.DocumentID}:
		default:
			s.logger.Warn().Msg("Manager cleanup channel blocked. Skipping cleanup notification.")
		}

		s.logger.Info().Msg("Session loop finished.")
	}()

	for {
		select {
		case ev := <-s.events:
			if stop := s.dispatch(ev); stop {
				return
			}

		case <-s.stopChan:
			s.logger.Info().Msg("Session forced stop initiated.")
			return
		}
	}
}

// Stop terminates the Run loop immediately, used during server shutdown.
func (s *Session) Stop() {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
}

// stopped reports whether the Run loop has exited.
func (s *Session) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// enqueue hands an event to the loop. Events arriving after the loop exited
// are dropped; a disconnect racing a session teardown is a no-op.
func (s *Session) enqueue(ev event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Join registers a connection for the user and delivers the initial document
// state through the sink.
func (s *Session) Join(connectionID string, u user.User, sink Sink) {
	s.enqueue(event{kind: evtJoin, connectionID: connectionID, user: u, sink: sink})
}

// Leave removes a connection; the transport calls it on disconnect.
func (s *Session) Leave(connectionID string) {
	s.enqueue(event{kind: evtLeave, connectionID: connectionID})
}

// Edit applies new content to the working copy and relays it to the other
// participants.
func (s *Session) Edit(connectionID, content string) {
	s.enqueue(event{kind: evtEdit, connectionID: connectionID, content: content})
}

// MoveCursor records and relays the sender's pointer position.
func (s *Session) MoveCursor(connectionID string, x, y float64) {
	s.enqueue(event{kind: evtCursor, connectionID: connectionID, x: x, y: y})
}

// Save persists the given content snapshot and acknowledges the requester.
func (s *Session) Save(connectionID, content string) {
	s.enqueue(event{kind: evtSave, connectionID: connectionID, content: content})
}

// Delete removes the document from the durable store and purges all live
// state for it.
func (s *Session) Delete(connectionID string) {
	s.enqueue(event{kind: evtDelete, connectionID: connectionID})
}

// SetTitle updates the working-copy title and notifies participants. The
// durable store is updated by the caller before this runs.
func (s *Session) SetTitle(title string) {
	s.enqueue(event{kind: evtTitle, title: title})
}

// dispatch applies one event to the session state and performs the resulting
// broadcasts. It returns true when the session should terminate. It runs on
// the loop goroutine only, which is what makes the registry, cursor table and
// working copy safe without locks.
func (s *Session) dispatch(ev event) bool {
	switch ev.kind {
	case evtJoin:
		s.handleJoin(ev)
	case evtLeave:
		return s.handleLeave(ev)
	case evtEdit:
		s.handleEdit(ev)
	case evtCursor:
		s.handleCursor(ev)
	case evtSave:
		s.handleSave(ev)
	case evtDelete:
		return s.handleDelete(ev)
	case evtTitle:
		s.handleTitle(ev)
	}
	return false
}

// handleJoin registers the connection, makes sure the working copy exists,
// enrolls the user as a collaborator when applicable, and emits the initial
// state: document_data to the joiner, online_users to everyone, and a
// user_joined notification to the others only on the user's first connection.
func (s *Session) handleJoin(ev event) {
	first := len(s.registry.ConnectionsForUser(ev.user.ID)) == 0

	s.registry.Register(Connection{
		ID:       ev.connectionID,
		User:     ev.user,
		JoinedAt: time.Now(),
		sink:     ev.sink,
	})

	s.ensureLoaded()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	s.enroller.OnJoin(ctx, ev.user)
	cancel()

	s.sendTo(ev.connectionID, NewMessage(TypeDocumentData, s.DocumentID, DocumentDataPayload{
		Content: s.working.Content,
		Title:   s.working.Title,
	}))

	s.broadcastAll(NewMessage(TypeOnlineUsers, s.DocumentID, OnlineUsersPayload{Users: onlineUsers(s.registry)}))

	if first {
		s.broadcastExcept(ev.connectionID, NewMessage(TypeUserJoined, s.DocumentID, UserEventPayload{
			UserID:      ev.user.ID,
			DisplayName: ev.user.Name,
			Email:       ev.user.Email,
			Color:       ev.user.Color,
		}))

		s.logger.Info().
			Str("user_id", ev.user.ID).
			Str("display_name", ev.user.Name).
			Msg("User joined document (first connection).")
	} else {
		s.logger.Info().
			Str("user_id", ev.user.ID).
			Msg("User connected from an additional tab.")
	}
}

// ensureLoaded populates the working copy on first use: loaded from the store
// when a record exists, otherwise initialized empty and created durably.
// Persistence errors degrade to memory-only operation; the joiner still gets
// a working copy.
func (s *Session) ensureLoaded() {
	if s.working != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	d, err := s.gateway.Load(ctx, s.DocumentID)
	switch {
	case err == nil:
		s.working = &workingCopy{Content: d.Content, Title: d.Title}
		s.logger.Info().Msg("Loaded existing document into working set.")

	case errors.Is(err, store.ErrNotFound):
		s.working = &workingCopy{Content: "", Title: store.DefaultTitle}
		if createErr := s.gateway.Create(ctx, s.DocumentID, "", store.DefaultTitle); createErr != nil {
			s.logger.Error().Err(createErr).Msg("Failed to create document record; continuing in memory only.")
		} else {
			s.logger.Info().Msg("Created new document.")
		}

	default:
		s.working = &workingCopy{Content: "", Title: store.DefaultTitle}
		s.logger.Error().Err(err).Msg("Failed to load document; continuing in memory only.")
	}
}

// handleLeave unregisters the connection. When the user's last connection
// closed, the user's cursor entry is dropped and user_left goes out to the
// remaining participants; when the document emptied, the working copy is
// evicted and the session terminates.
func (s *Session) handleLeave(ev event) bool {
	conn, ok := s.registry.Unregister(ev.connectionID)
	if !ok {
		// Double-disconnect, nothing to do.
		return false
	}

	remaining := s.registry.ConnectionsForUser(conn.User.ID)
	if len(remaining) == 0 {
		s.cursors.Remove(conn.User.ID)
		s.broadcastAll(NewMessage(TypeUserLeft, s.DocumentID, UserLeftPayload{UserID: conn.User.ID}))

		s.logger.Info().
			Str("user_id", conn.User.ID).
			Msg("User fully left document.")
	} else {
		s.logger.Info().
			Str("user_id", conn.User.ID).
			Int("remaining_connections", len(remaining)).
			Msg("User closed one tab; other connections remain.")
	}

	if s.registry.IsEmpty() {
		s.evict()
		return true
	}

	s.broadcastAll(NewMessage(TypeOnlineUsers, s.DocumentID, OnlineUsersPayload{Users: onlineUsers(s.registry)}))
	return false
}

// evict drops the in-memory state once no participant remains. A later join
// reloads or recreates the document.
func (s *Session) evict() {
	s.working = nil
	s.cursors.Clear()
	s.logger.Info().Msg("Document empty; working copy evicted.")
}

// handleEdit overwrites the working-copy content and relays the update to
// every other connection. Last writer wins: the authoritative content is
// whichever edit reached this loop most recently.
func (s *Session) handleEdit(ev event) {
	if s.working == nil {
		return
	}

	s.working.Content = ev.content

	s.broadcastExcept(ev.connectionID, NewMessage(TypeUpdate, s.DocumentID, ContentPayload{
		DocumentID: s.DocumentID,
		Content:    ev.content,
	}))
}

// handleCursor records the sender's pointer position and relays it to the
// other connections. The identity attached to the relay comes from the
// registered connection, not from the inbound payload.
func (s *Session) handleCursor(ev event) {
	conn, ok := s.registry.Get(ev.connectionID)
	if !ok {
		return
	}

	s.cursors.Set(CursorEntry{
		UserID:      conn.User.ID,
		X:           ev.x,
		Y:           ev.y,
		DisplayName: conn.User.Name,
		Color:       conn.User.Color,
	})

	s.broadcastExcept(ev.connectionID, NewMessage(TypeCursorMove, s.DocumentID, CursorPayload{
		UserID:      conn.User.ID,
		X:           ev.x,
		Y:           ev.y,
		DisplayName: conn.User.Name,
		Color:       conn.User.Color,
	}))
}

// handleSave persists the content snapshot carried by the save request, not
// the latest working-set value, then acknowledges the requester and notifies
// the others. On persistence failure nothing is emitted; the requester's
// client times out and retries.
func (s *Session) handleSave(ev event) {
	if s.working == nil {
		return
	}

	s.working.Content = ev.content

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	err := s.gateway.UpdateContent(ctx, s.DocumentID, ev.content, time.Now())
	cancel()

	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save document.")
		return
	}

	s.sendTo(ev.connectionID, NewMessage(TypeDocumentSaved, s.DocumentID, DocumentRefPayload{DocumentID: s.DocumentID}))
	s.broadcastExcept(ev.connectionID, NewMessage(TypeSavedBroadcast, s.DocumentID, DocumentRefPayload{DocumentID: s.DocumentID}))

	s.logger.Info().Msg("Document saved.")
}

// handleDelete removes the durable record, tells every participant the
// document is gone, and tears the session down. On store failure the live
// state is left intact so a retry can succeed.
func (s *Session) handleDelete(ev event) bool {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	err := s.gateway.Delete(ctx, s.DocumentID)
	cancel()

	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete document.")
		return false
	}

	s.broadcastAll(NewMessage(TypeDocumentDeleted, s.DocumentID, DocumentRefPayload{DocumentID: s.DocumentID}))

	s.working = nil
	s.cursors.Clear()
	s.registry.Clear()

	s.logger.Info().Msg("Document deleted; session terminating.")
	return true
}

// handleTitle applies a title change to the working copy and broadcasts it.
func (s *Session) handleTitle(ev event) {
	if s.working != nil {
		s.working.Title = ev.title
	}

	s.broadcastAll(NewMessage(TypeTitleUpdated, s.DocumentID, TitleUpdatedPayload{
		DocumentID: s.DocumentID,
		Title:      ev.title,
	}))
}

// sendTo delivers a message to a single connection.
func (s *Session) sendTo(connectionID string, msg Message) {
	conn, ok := s.registry.Get(connectionID)
	if !ok {
		return
	}
	if err := conn.sink.Send(msg); err != nil {
		s.logger.Warn().Err(err).
			Str("connection_id", connectionID).
			Str("msg_type", string(msg.Type)).
			Msg("Dropping message for connection.")
	}
}

// broadcastAll delivers a message to every connection on the document.
func (s *Session) broadcastAll(msg Message) {
	s.registry.Each(func(conn Connection) {
		if err := conn.sink.Send(msg); err != nil {
			s.logger.Warn().Err(err).
				Str("connection_id", conn.ID).
				Str("msg_type", string(msg.Type)).
				Msg("Dropping broadcast for connection.")
		}
	})
}

// broadcastExcept delivers a message to every connection except the sender.
func (s *Session) broadcastExcept(senderConnectionID string, msg Message) {
	s.registry.Each(func(conn Connection) {
		if conn.ID == senderConnectionID {
			return
		}
		if err := conn.sink.Send(msg); err != nil {
			s.logger.Warn().Err(err).
				Str("connection_id", conn.ID).
				Str("msg_type", string(msg.Type)).
				Msg("Dropping broadcast for connection.")
		}
	})
}
