package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/userhub/pkg/file"
	"github.com/dmitrymomot/userhub/pkg/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenIssuer produces a signed identity token for an authenticated account.
type TokenIssuer interface {
	Issue(accountID, email string) (string, error)
}

// Service orchestrates the account flows: registration, login, listing and
// full-document profile update. Each request runs as a strictly sequential
// chain of steps with early return on failure; the only shared state is
// read-only configuration.
type Service struct {
	repo          Repository
	tokens        TokenIssuer
	hasher        *PasswordHasher
	avatars       file.Storage
	avatarDir     string
	avatarMaxSize int64
	log           *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithAvatarStorage enables avatar uploads to the given storage backend.
// dir is the storage prefix for uploaded files; maxSize caps the accepted
// upload size in bytes.
func WithAvatarStorage(storage file.Storage, dir string, maxSize int64) Option {
	return func(s *Service) {
		s.avatars = storage
		s.avatarDir = strings.Trim(dir, "/")
		s.avatarMaxSize = maxSize
	}
}

// WithPasswordHasher overrides the default password hasher.
func WithPasswordHasher(h *PasswordHasher) Option {
	return func(s *Service) { s.hasher = h }
}

// NewService creates the user service.
func NewService(repo Repository, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		tokens:        tokens,
		hasher:        NewPasswordHasher(0),
		avatarDir:     "avatars",
		avatarMaxSize: 5 << 20,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new account. Steps run in a fixed order: existence
// check, optional avatar upload, password hash, persist. An avatar upload
// failure does not abort registration; the account is created without an
// avatar and the failure is logged. The plaintext password never reaches the
// store or the logs.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := normalizeEmail(in.Email)

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	avatarURL := ""
	if in.Avatar != nil {
		avatarURL = s.uploadAvatar(ctx, in.Avatar, email)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Password:  hash,
		Phone:     in.Phone,
		Avatar:    avatarURL,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		// The unique index closes the race between the existence check and
		// the insert: a concurrent registration surfaces here as a conflict.
		if errors.Is(err, ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return u, nil
}

// uploadAvatar validates and stores the attached file, returning its public
// URL or empty string when the upload cannot be completed.
func (s *Service) uploadAvatar(ctx context.Context, fh *multipart.FileHeader, email string) string {
	if s.avatars == nil {
		s.log.WarnContext(ctx, "avatar attached but no storage configured", logger.Component("user"))
		return ""
	}

	if err := file.ValidateSize(fh, s.avatarMaxSize); err != nil {
		s.log.WarnContext(ctx, "avatar rejected", logger.Error(err), logger.Component("user"))
		return ""
	}
	if !file.IsImage(fh) {
		s.log.WarnContext(ctx, "avatar rejected: not an image", logger.Component("user"))
		return ""
	}

	key := path.Join(s.avatarDir, uuid.NewString()+strings.ToLower(file.GetExtension(fh)))
	saved, err := s.avatars.Save(ctx, fh, key)
	if err != nil {
		s.log.ErrorContext(ctx, "avatar upload failed",
			slog.String("email", email),
			logger.Error(err),
			logger.Component("user"),
		)
		return ""
	}

	return s.avatars.URL(saved.RelativePath)
}

// Login verifies the credentials and issues a signed identity token.
// Unknown email and wrong password are deliberately indistinguishable: both
// return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if !s.hasher.Verify(password, u.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID.Hex(), u.Email)
	if err != nil {
		s.log.ErrorContext(ctx, "token signing failed",
			logger.UserID(u.ID.Hex()),
			logger.Error(err),
			logger.Component("user"),
		)
		return nil, ErrTokenSigning
	}

	return &LoginResult{
		Email:     u.Email,
		Avatar:    u.Avatar,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Token:     token,
	}, nil
}

// ListAll returns every account record, hash field included.
func (s *Service) ListAll(ctx context.Context) ([]User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return users, nil
}

// Update replaces the whole account document with the submitted field set
// and returns the stored result. The replacement is literal: a request that
// omits a field clears it, the password included. Passwords submitted here
// are stored as-is, mirroring the replace-everything contract.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*User, error) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(in.ID))
	if err != nil {
		return nil, ErrInvalidID
	}

	u := &User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     normalizeEmail(in.Email),
		Password:  in.Password,
		Phone:     in.Phone,
	}

	updated, err := s.repo.Replace(ctx, id, u)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, ErrAlreadyExists):
			return nil, ErrAlreadyExists
		default:
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
	}
	return updated, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
