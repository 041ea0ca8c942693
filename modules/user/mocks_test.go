package user

import (
	"context"
	"mime/multipart"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/userhub/pkg/file"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) FindAll(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if users := args.Get(0); users != nil {
		return users.([]User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Replace(ctx context.Context, id bson.ObjectID, u *User) (*User, error) {
	args := m.Called(ctx, id, u)
	if updated := args.Get(0); updated != nil {
		return updated.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Issue(accountID, email string) (string, error) {
	args := m.Called(accountID, email)
	return args.String(0), args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Save(ctx context.Context, fh *multipart.FileHeader, path string) (*file.File, error) {
	args := m.Called(ctx, fh, path)
	if f := args.Get(0); f != nil {
		return f.(*file.File), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *mockStorage) Exists(ctx context.Context, path string) bool {
	args := m.Called(ctx, path)
	return args.Bool(0)
}

func (m *mockStorage) URL(path string) string {
	args := m.Called(path)
	return args.String(0)
}
