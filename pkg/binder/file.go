package binder

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
)

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

// File binds uploaded files from multipart/form-data requests into struct
// fields tagged with `file:"name"`. Supported field types are
// *multipart.FileHeader (optional single file, nil when absent) and
// []*multipart.FileHeader (all files for the field).
//
// Non-multipart requests are skipped without error, so the binder composes
// with Form and JSON on the same route.
func File() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "multipart/form-data") {
			return nil
		}

		if r.MultipartForm == nil {
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || rv.IsNil() {
			return fmt.Errorf("%w: target must be a non-nil pointer", ErrInvalidForm)
		}
		rv = rv.Elem()
		if rv.Kind() != reflect.Struct {
			return fmt.Errorf("%w: target must be a pointer to struct", ErrInvalidForm)
		}

		rt := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Field(i)
			if !field.CanSet() {
				continue
			}

			tag := rt.Field(i).Tag.Get("file")
			if tag == "" || tag == "-" {
				continue
			}

			headers := r.MultipartForm.File[tag]
			if len(headers) == 0 {
				continue
			}

			switch field.Type() {
			case fileHeaderType:
				field.Set(reflect.ValueOf(headers[0]))
			case reflect.SliceOf(fileHeaderType):
				field.Set(reflect.ValueOf(headers))
			default:
				return fmt.Errorf("%w: field %s must be *multipart.FileHeader or []*multipart.FileHeader", ErrInvalidForm, rt.Field(i).Name)
			}
		}

		return nil
	}
}
