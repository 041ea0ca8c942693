package user

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/userhub/pkg/file"
	"github.com/dmitrymomot/userhub/pkg/jwt"
)

var testPNG = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func testHasher() *PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

// attachedFile builds a *multipart.FileHeader the way a handler receives one.
func attachedFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func TestServiceRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates account with hashed password", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, ErrNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Email == "a@x.com" &&
				u.Password != "secret1" &&
				testHasher().Verify("secret1", u.Password) &&
				u.Avatar == ""
		})).Return(nil)

		svc := NewService(repo, &mockIssuer{}, WithPasswordHasher(testHasher()))

		u, err := svc.Register(context.Background(), RegisterInput{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "A@X.com", // normalized to lowercase
			Password:  "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", u.Email)
		assert.NotEqual(t, "secret1", u.Password)
		assert.Empty(t, u.Avatar)
		repo.AssertExpectations(t)
	})

	t.Run("rejects existing email without side effects", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(&User{Email: "a@x.com"}, nil)

		svc := NewService(repo, &mockIssuer{}, WithPasswordHasher(testHasher()))

		_, err := svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("maps concurrent duplicate insert to conflict", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, ErrNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(ErrAlreadyExists)

		svc := NewService(repo, &mockIssuer{}, WithPasswordHasher(testHasher()))

		_, err := svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("surfaces store failure", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection refused"))

		svc := NewService(repo, &mockIssuer{}, WithPasswordHasher(testHasher()))

		_, err := svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})

	t.Run("uploads avatar and stores its URL", func(t *testing.T) {
		t.Parallel()

		storage := &mockStorage{}
		storage.On("Save", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
			return len(p) > len("avatars/") && p[:8] == "avatars/"
		})).Return(&file.File{RelativePath: "avatars/x.png"}, nil)
		storage.On("URL", "avatars/x.png").Return("https://cdn.example.com/avatars/x.png")

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, ErrNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Avatar == "https://cdn.example.com/avatars/x.png"
		})).Return(nil)

		svc := NewService(repo, &mockIssuer{},
			WithPasswordHasher(testHasher()),
			WithAvatarStorage(storage, "avatars", 5<<20),
		)

		u, err := svc.Register(context.Background(), RegisterInput{
			Email:    "a@x.com",
			Password: "secret1",
			Avatar:   attachedFile(t, "me.png", testPNG),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/avatars/x.png", u.Avatar)
		storage.AssertExpectations(t)
	})

	t.Run("upload failure still creates the account", func(t *testing.T) {
		t.Parallel()

		storage := &mockStorage{}
		storage.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("bucket gone"))

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, ErrNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Avatar == ""
		})).Return(nil)

		svc := NewService(repo, &mockIssuer{},
			WithPasswordHasher(testHasher()),
			WithAvatarStorage(storage, "avatars", 5<<20),
		)

		u, err := svc.Register(context.Background(), RegisterInput{
			Email:    "a@x.com",
			Password: "secret1",
			Avatar:   attachedFile(t, "me.png", testPNG),
		})
		require.NoError(t, err)
		assert.Empty(t, u.Avatar)
		repo.AssertExpectations(t)
	})

	t.Run("non-image attachment is skipped", func(t *testing.T) {
		t.Parallel()

		storage := &mockStorage{}

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, ErrNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(repo, &mockIssuer{},
			WithPasswordHasher(testHasher()),
			WithAvatarStorage(storage, "avatars", 5<<20),
		)

		u, err := svc.Register(context.Background(), RegisterInput{
			Email:    "a@x.com",
			Password: "secret1",
			Avatar:   attachedFile(t, "notes.txt", []byte("plain text")),
		})
		require.NoError(t, err)
		assert.Empty(t, u.Avatar)
		storage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServiceLogin(t *testing.T) {
	t.Parallel()

	hasher := testHasher()
	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	account := &User{
		ID:        bson.NewObjectID(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "a@x.com",
		Password:  hash,
		Avatar:    "https://cdn.example.com/a.png",
	}

	t.Run("issues token on match", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(account, nil)

		issuer := &mockIssuer{}
		issuer.On("Issue", account.ID.Hex(), "a@x.com").Return("signed-token", nil)

		svc := NewService(repo, issuer, WithPasswordHasher(hasher))

		result, err := svc.Login(context.Background(), "a@x.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", result.Token)
		assert.Equal(t, "a@x.com", result.Email)
		assert.Equal(t, "Ada", result.FirstName)
		assert.Equal(t, "Lovelace", result.LastName)
		assert.Equal(t, "https://cdn.example.com/a.png", result.Avatar)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "missing@x.com").Return(nil, ErrNotFound)
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(account, nil)

		svc := NewService(repo, &mockIssuer{}, WithPasswordHasher(hasher))

		_, errUnknown := svc.Login(context.Background(), "missing@x.com", "secret1")
		_, errWrongPass := svc.Login(context.Background(), "a@x.com", "wrong")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})

	t.Run("issued token carries the account identity", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(account, nil)

		issuer, err := jwt.New([]byte("test-signing-key-0123456789abcdef"))
		require.NoError(t, err)

		svc := NewService(repo, issuer, WithPasswordHasher(hasher))

		result, err := svc.Login(context.Background(), "a@x.com", "secret1")
		require.NoError(t, err)

		claims, err := issuer.Parse(result.Token)
		require.NoError(t, err)
		assert.Equal(t, account.ID.Hex(), claims.Subject)
		assert.Equal(t, "a@x.com", claims.Email)

		other, err := jwt.New([]byte("a-different-key-0123456789abcdef"))
		require.NoError(t, err)
		_, err = other.Parse(result.Token)
		assert.Error(t, err)
	})

	t.Run("signing failure fails the login", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(account, nil)

		issuer := &mockIssuer{}
		issuer.On("Issue", mock.Anything, mock.Anything).Return("", errors.New("no secret"))

		svc := NewService(repo, issuer, WithPasswordHasher(hasher))

		_, err := svc.Login(context.Background(), "a@x.com", "secret1")
		assert.ErrorIs(t, err, ErrTokenSigning)
	})

	t.Run("surfaces store failure", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection refused"))

		svc := NewService(repo, &mockIssuer{}, WithPasswordHasher(hasher))

		_, err := svc.Login(context.Background(), "a@x.com", "secret1")
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestServiceListAll(t *testing.T) {
	t.Parallel()

	t.Run("returns all records", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindAll", mock.Anything).Return([]User{{Email: "a@x.com"}, {Email: "b@x.com"}}, nil)

		svc := NewService(repo, &mockIssuer{})

		users, err := svc.ListAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("surfaces store failure", func(t *testing.T) {
		t.Parallel()

		repo := &mockRepository{}
		repo.On("FindAll", mock.Anything).Return(nil, errors.New("connection refused"))

		svc := NewService(repo, &mockIssuer{})

		_, err := svc.ListAll(context.Background())
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("replaces the whole document", func(t *testing.T) {
		t.Parallel()

		id := bson.NewObjectID()

		repo := &mockRepository{}
		repo.On("Replace", mock.Anything, id, mock.MatchedBy(func(u *User) bool {
			// Literal replacement: the omitted password overwrites the hash.
			return u.Email == "new@x.com" && u.Password == ""
		})).Return(&User{ID: id, Email: "new@x.com"}, nil)

		svc := NewService(repo, &mockIssuer{})

		updated, err := svc.Update(context.Background(), UpdateInput{
			ID:        id.Hex(),
			FirstName: "Ada",
			Email:     "new@x.com",
		})
		require.NoError(t, err)
		assert.Equal(t, id, updated.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&mockRepository{}, &mockIssuer{})

		_, err := svc.Update(context.Background(), UpdateInput{ID: "not-an-object-id"})
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("propagates not found", func(t *testing.T) {
		t.Parallel()

		id := bson.NewObjectID()

		repo := &mockRepository{}
		repo.On("Replace", mock.Anything, id, mock.Anything).Return(nil, ErrNotFound)

		svc := NewService(repo, &mockIssuer{})

		_, err := svc.Update(context.Background(), UpdateInput{ID: id.Hex()})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
