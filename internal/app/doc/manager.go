/*
Package doc implements the realtime document collaboration coordinator.

This file defines the Manager struct, which owns the map of live document
sessions. It creates sessions on demand, removes them when their event loops
finish, and provides the non-realtime entry point for title updates.
*/
package doc

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"livedocs/internal/app/store"
	"livedocs/internal/pkg/logx"
)

// Manager coordinates all active document sessions.
type Manager struct {
	// sessions stores the live Session instances, keyed by document id.
	sessions map[string]*Session

	// gateway is the durable store handed to every session.
	gateway store.Gateway

	// mu protects concurrent access to the sessions map.
	mu sync.RWMutex

	// cleanup is the channel sessions use to request their own removal.
	cleanup chan CleanupMsg

	// wg waits for the cleanup loop during shutdown.
	wg sync.WaitGroup

	// sessionWG tracks every session goroutine so Shutdown can wait for the
	// loops to drain, including any in-flight persistence call.
	sessionWG sync.WaitGroup

	logger zerolog.Logger
}

// NewManager constructs a Manager and starts its cleanup loop.
func NewManager(gateway store.Gateway) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		gateway:  gateway,
		cleanup:  make(chan CleanupMsg, 16),
		logger:   logx.Logger().With().Str("component", "Manager").Logger(),
	}

	m.wg.Add(1)
	go m.runCleanupLoop()

	return m
}

// runCleanupLoop removes sessions whose event loops have finished.
func (m *Manager) runCleanupLoop() {
	defer m.wg.Done()

	for msg := range m.cleanup {
		m.deleteSession(msg.DocumentID)
	}
}

// deleteSession drops the session from the map, but only if it has actually
// stopped; a replacement session created in the meantime stays.
func (m *Manager) deleteSession(documentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[documentID]; ok && s.stopped() {
		delete(m.sessions, documentID)
		m.logger.Info().Str("document_id", documentID).Msg("Session removed.")
	}
}

// GetOrCreate returns the live session for the document, starting one when
// none exists. A session found mid-teardown is replaced.
func (m *Manager) GetOrCreate(documentID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[documentID]; ok && !s.stopped() {
		return s
	}

	s := NewSession(documentID, m.gateway, m.cleanup)
	m.sessions[documentID] = s

	m.sessionWG.Add(1)
	go func() {
		defer m.sessionWG.Done()
		s.Run()
	}()

	m.logger.Info().Str("document_id", documentID).Msg("Session started.")
	return s
}

// Get returns the live session for the document, or nil.
func (m *Manager) Get(documentID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[documentID]
	if !ok || s.stopped() {
		return nil
	}
	return s
}

// UpdateTitle is the non-realtime title path: the durable store is updated
// first, and when the document is live its working copy is refreshed and
// title_updated goes out to its participants.
func (m *Manager) UpdateTitle(ctx context.Context, documentID, title string) error {
	if err := m.gateway.UpdateTitle(ctx, documentID, title); err != nil {
		return err
	}

	if s := m.Get(documentID); s != nil {
		s.SetTitle(title)
	}
	return nil
}

// Shutdown stops every session loop, waits for the loops to exit, then closes
// the cleanup channel and waits for the cleanup goroutine. When it returns,
// no session goroutine is still running.
func (m *Manager) Shutdown() {
	m.logger.Info().Msg("Shutting down session manager...")

	m.mu.Lock()
	for _, s := range m.sessions {
		s.Stop()
	}
	m.sessions = nil
	m.mu.Unlock()

	m.sessionWG.Wait()

	close(m.cleanup)
	m.wg.Wait()

	m.logger.Info().Msg("Session manager shutdown complete.")
}
