/*
Package handler provides the HTTP handlers and routing setup for the LiveDocs server.

This file contains the attachment endpoints: presigned upload and download
URLs for images embedded in markdown documents, scoped to the document the
caller participates in.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"livedocs/internal/app/doc"
	"livedocs/internal/pkg/auth/jwt"
	"livedocs/internal/pkg/errs"
	"livedocs/internal/pkg/req"
	"livedocs/internal/pkg/resp"
)

// PresignUploadInput is the JSON input for generating an upload URL.
type PresignUploadInput struct {
	DocumentID string `json:"documentId"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	FileSize   int64  `json:"fileSize"`
}

// HandlePresignUploadURL creates the HandlerFunc that issues a time-limited
// upload URL for an image, keyed under the target document.
func HandlePresignUploadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.StorageService == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.DocumentID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := doc.ValidateFileSize(input.FileSize); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if err := doc.ValidateFileType(input.FileName, input.MimeType); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		fileExt := strings.ToLower(filepath.Ext(input.FileName))
		fileKey := fmt.Sprintf("%s/%s%s", input.DocumentID, uuid.New().String(), fileExt)

		url, err := deps.StorageService.PresignUpload(
			r.Context(),
			fileKey,
			input.MimeType,
			input.FileSize,
			doc.PresignedURLDuration,
		)

		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		data := map[string]any{
			"presignedUrl": url,
			"fileKey":      fileKey,
			"fileName":     input.FileName,
		}
		resp.RespondSuccess(w, r, data)
	}
}

// HandlePresignDownloadURL creates the HandlerFunc that issues a time-limited
// download URL for a previously uploaded attachment.
func HandlePresignDownloadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.StorageService == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		fileKey := r.URL.Query().Get("k")
		documentID := r.URL.Query().Get("documentId")
		if fileKey == "" || documentID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		expectedKeyPrefix := fmt.Sprintf("%s/", documentID)
		if !strings.HasPrefix(fileKey, expectedKeyPrefix) {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileKeyInvalid))
			return
		}

		url, err := deps.StorageService.PresignDownload(
			r.Context(),
			fileKey,
			doc.PresignedURLDuration,
		)

		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		data := map[string]any{
			"presignedUrl": url,
		}
		resp.RespondSuccess(w, r, data)
	}
}
