/*
Package req provides helpers for HTTP request parsing and data binding.

It wraps JSON decoding with strict format and size checks so handlers receive
validated input structs.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"livedocs/internal/pkg/errs"
)

// MaxRequestBodySize is the maximum allowed size for a JSON request body.
const MaxRequestBodySize int64 = 1 << 20 // 1 MB

// BindJSON binds the JSON request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
