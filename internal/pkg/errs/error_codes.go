/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
and in responses to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate exceeded the configured limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Document and Attachment Business Logic Errors
const (
	// ErrDocumentNotFound indicates that the referenced document does not exist.
	ErrDocumentNotFound = 2101

	// ErrTitleInvalid indicates a missing or overlong document title.
	ErrTitleInvalid = 2102

	// ErrFileSizeTooLarge indicates that an attachment exceeded the size limit.
	ErrFileSizeTooLarge = 2201

	// ErrFileTypeInvalid indicates an attachment type outside the allowed image set.
	ErrFileTypeInvalid = 2202

	// ErrFileKeyInvalid indicates an attachment key outside the caller's document.
	ErrFileKeyInvalid = 2203
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing or unverifiable identity.
	ErrUnauthorized = 3001

	// ErrTokenInvalid indicates an expired or malformed access token.
	ErrTokenInvalid = 3002
)

// 4xxx: External Service Errors
const (
	// ErrFileStorageFailed indicates a failure talking to the object storage service.
	ErrFileStorageFailed = 4001

	// ErrStoreUnavailable indicates a failure talking to the document store.
	ErrStoreUnavailable = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000
)
