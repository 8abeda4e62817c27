/*
Package doc implements the realtime document collaboration coordinator.

This file defines the WebSocket message envelope and the typed payloads
exchanged with clients. Inbound events carry a type discriminator plus a raw
payload; outbound messages wrap a payload in a stamped envelope.
*/
package doc

import (
	"time"

	"livedocs/internal/app/user"
	"livedocs/internal/pkg/randx"
)

// MessageType identifies the kind of a WebSocket message on either direction.
type MessageType string

// Inbound message types.
const (
	TypeJoinDocument   MessageType = "join_document"
	TypeUpdate         MessageType = "update"
	TypeCursorMove     MessageType = "cursor_move"
	TypeSaveDocument   MessageType = "save_document"
	TypeDeleteDocument MessageType = "delete_document"
)

// Outbound message types.
const (
	TypeDocumentData    MessageType = "document_data"
	TypeOnlineUsers     MessageType = "online_users"
	TypeUserJoined      MessageType = "user_joined"
	TypeUserLeft        MessageType = "user_left"
	TypeDocumentSaved   MessageType = "document_saved"
	TypeSavedBroadcast  MessageType = "document_saved_broadcast"
	TypeDocumentDeleted MessageType = "document_deleted"
	TypeTitleUpdated    MessageType = "title_updated"
)

// Message is the envelope for every outbound WebSocket message.
type Message struct {
	ID         string      `json:"id"`
	Type       MessageType `json:"type"`
	DocumentID string      `json:"documentId,omitempty"`
	Payload    any         `json:"payload,omitempty"`
	Timestamp  int64       `json:"timestamp"`
}

// NewMessage stamps a payload with a fresh message id and the current time.
func NewMessage(msgType MessageType, documentID string, payload any) Message {
	return Message{
		ID:         randx.MessageID(),
		Type:       msgType,
		DocumentID: documentID,
		Payload:    payload,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// JoinPayload is the inbound join_document payload. Identity fields are
// resolved from the authenticated connection; the client only contributes its
// chosen presence color.
type JoinPayload struct {
	DocumentID string `json:"documentId"`
	Color      string `json:"color,omitempty"`
}

// ContentPayload carries document content for update and save_document
// inbound events and for the update broadcast.
type ContentPayload struct {
	DocumentID string `json:"documentId"`
	Content    string `json:"content"`
}

// CursorPayload carries a pointer position, inbound and outbound.
type CursorPayload struct {
	DocumentID  string  `json:"documentId,omitempty"`
	UserID      string  `json:"userId,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	DisplayName string  `json:"displayName,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// DocumentRefPayload names a document with no further data, used by
// delete_document, document_saved and related notifications.
type DocumentRefPayload struct {
	DocumentID string `json:"documentId"`
}

// DocumentDataPayload is the working-copy snapshot sent to a joiner.
type DocumentDataPayload struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

// OnlineUsersPayload is the deduplicated presence list for a document.
type OnlineUsersPayload struct {
	Users []user.Summary `json:"users"`
}

// UserEventPayload announces a logical user's first join to the document.
type UserEventPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	Color       string `json:"color"`
}

// UserLeftPayload announces that a logical user's last connection closed.
type UserLeftPayload struct {
	UserID string `json:"userId"`
}

// TitleUpdatedPayload announces a title change to a document's participants.
type TitleUpdatedPayload struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
}
