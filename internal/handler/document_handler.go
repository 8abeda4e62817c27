/*
Package handler provides the HTTP handlers and routing setup for the LiveDocs server.

This file contains the non-realtime document operations, currently the title
update path: persist the new title, refresh the live working copy when one
exists, and broadcast title_updated to the document's participants.
*/
package handler

import (
	"net/http"
	"strings"

	"livedocs/internal/pkg/auth/jwt"
	"livedocs/internal/pkg/errs"
	"livedocs/internal/pkg/req"
	"livedocs/internal/pkg/resp"
)

// MaxTitleLength bounds document titles.
const MaxTitleLength = 200

// UpdateTitleInput is the JSON input for the title update endpoint.
type UpdateTitleInput struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
}

// HandleUpdateTitle creates the HandlerFunc for renaming a document.
func HandleUpdateTitle(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input UpdateTitleInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.DocumentID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		title := strings.TrimSpace(input.Title)
		if title == "" || len(title) > MaxTitleLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrTitleInvalid))
			return
		}

		if err := deps.Manager.UpdateTitle(r.Context(), input.DocumentID, title); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreUnavailable))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"documentId": input.DocumentID,
			"title":      title,
		})
	}
}
