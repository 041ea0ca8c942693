package binder

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// DefaultMaxMemory is the maximum memory used for parsing multipart forms (10MB).
const DefaultMaxMemory = 10 << 20

// Form binds application/x-www-form-urlencoded or multipart/form-data fields
// into struct fields tagged with `form:"name"`. Fields without a tag bind by
// lowercased field name; `form:"-"` skips a field.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected form data", ErrMissingContentType)
		}

		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
		}

		switch {
		case mediaType == "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
		case strings.HasPrefix(mediaType, "multipart/"):
			if r.MultipartForm == nil {
				if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
					return fmt.Errorf("%w: %v", ErrInvalidForm, err)
				}
			}
		default:
			return fmt.Errorf("%w: got %s, expected form data", ErrUnsupportedMediaType, mediaType)
		}

		return bindToStruct(v, "form", r.Form, ErrInvalidForm)
	}
}
