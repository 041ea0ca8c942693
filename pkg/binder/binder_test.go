package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/userhub/pkg/binder"
)

type registerForm struct {
	FirstName string                `form:"firstName" json:"firstName"`
	LastName  string                `form:"lastName" json:"lastName"`
	Email     string                `form:"email" json:"email"`
	Password  string                `form:"password" json:"password"`
	Phone     string                `form:"phone" json:"phone"`
	Avatar    *multipart.FileHeader `file:"file" json:"-"`
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("binds body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@x.com","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")

		var v struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, binder.JSON()(req, &v))
		assert.Equal(t, "a@x.com", v.Email)
		assert.Equal(t, "secret1", v.Password)
	})

	t.Run("rejects missing content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/login", strings.NewReader(`{}`))
		var v struct{}
		assert.ErrorIs(t, binder.JSON()(req, &v), binder.ErrMissingContentType)
	})

	t.Run("rejects wrong media type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		var v struct{}
		assert.ErrorIs(t, binder.JSON()(req, &v), binder.ErrUnsupportedMediaType)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"nope":true}`))
		req.Header.Set("Content-Type", "application/json")
		var v struct {
			Email string `json:"email"`
		}
		assert.ErrorIs(t, binder.JSON()(req, &v), binder.ErrInvalidJSON)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/login", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/json")
		var v struct{}
		assert.ErrorIs(t, binder.JSON()(req, &v), binder.ErrInvalidJSON)
	})
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("binds urlencoded", func(t *testing.T) {
		t.Parallel()

		form := url.Values{
			"firstName": {"Ada"},
			"lastName":  {"Lovelace"},
			"email":     {"ada@x.com"},
			"password":  {"secret1"},
		}
		req := httptest.NewRequest("POST", "/register", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var v registerForm
		require.NoError(t, binder.Form()(req, &v))
		assert.Equal(t, "Ada", v.FirstName)
		assert.Equal(t, "ada@x.com", v.Email)
		assert.Empty(t, v.Phone)
	})

	t.Run("binds multipart fields", func(t *testing.T) {
		t.Parallel()

		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		require.NoError(t, w.WriteField("email", "ada@x.com"))
		require.NoError(t, w.WriteField("password", "secret1"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest("POST", "/register", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())

		var v registerForm
		require.NoError(t, binder.Form()(req, &v))
		assert.Equal(t, "ada@x.com", v.Email)
		assert.Equal(t, "secret1", v.Password)
	})

	t.Run("rejects non-form media type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/register", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		var v registerForm
		assert.ErrorIs(t, binder.Form()(req, &v), binder.ErrUnsupportedMediaType)
	})
}

func TestFile(t *testing.T) {
	t.Parallel()

	t.Run("binds single file header", func(t *testing.T) {
		t.Parallel()

		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		part, err := w.CreateFormFile("file", "avatar.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, w.WriteField("email", "ada@x.com"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest("POST", "/register", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())

		var v registerForm
		require.NoError(t, binder.Form()(req, &v))
		require.NoError(t, binder.File()(req, &v))
		require.NotNil(t, v.Avatar)
		assert.Equal(t, "avatar.png", v.Avatar.Filename)
		assert.Equal(t, "ada@x.com", v.Email)
	})

	t.Run("leaves field nil when no file attached", func(t *testing.T) {
		t.Parallel()

		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		require.NoError(t, w.WriteField("email", "ada@x.com"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest("POST", "/register", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())

		var v registerForm
		require.NoError(t, binder.File()(req, &v))
		assert.Nil(t, v.Avatar)
	})

	t.Run("skips non-multipart requests", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/register", strings.NewReader(`{"email":"a@x.com"}`))
		req.Header.Set("Content-Type", "application/json")

		var v registerForm
		require.NoError(t, binder.File()(req, &v))
		assert.Nil(t, v.Avatar)
	})
}
