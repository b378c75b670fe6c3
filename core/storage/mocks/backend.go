package mocks

import (
	"context"

	"storage-init/core/storage"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of storage.Backend
type Backend struct {
	mock.Mock
}

func (m *Backend) Kind() storage.Provider {
	args := m.Called()
	return args.Get(0).(storage.Provider)
}

func (m *Backend) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Backend) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *Backend) MakeBucket(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *Backend) SetPublicReadPolicy(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *Backend) Close() error {
	args := m.Called()
	return args.Error(0)
}
