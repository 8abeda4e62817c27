/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Document and Attachment Business Logic Errors
	ErrDocumentNotFound: {Code: ErrDocumentNotFound, Message: "Document not found.", Status: http.StatusNotFound},
	ErrTitleInvalid:     {Code: ErrTitleInvalid, Message: "Invalid document title."},
	ErrFileSizeTooLarge: {Code: ErrFileSizeTooLarge, Message: "File is too large."},
	ErrFileTypeInvalid:  {Code: ErrFileTypeInvalid, Message: "File type is not supported."},
	ErrFileKeyInvalid:   {Code: ErrFileKeyInvalid, Message: "Invalid attachment."},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized: {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrTokenInvalid: {Code: ErrTokenInvalid, Message: "Your session has expired. Please sign in again.", Status: http.StatusUnauthorized},

	// 4xxx: External Service Errors
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
	ErrStoreUnavailable:  {Code: ErrStoreUnavailable, Message: "Document service is temporarily unavailable.", Status: http.StatusServiceUnavailable},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
