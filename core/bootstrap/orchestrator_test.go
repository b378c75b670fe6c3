package bootstrap_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storage-init/core/bootstrap"
	"storage-init/core/readiness"
	"storage-init/core/storage"
	"storage-init/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validConfig() storage.Config {
	return storage.Config{
		Provider:  "s3",
		Endpoint:  "localhost:9000",
		AccessKey: "testkey",
		SecretKey: "testsecret",
		Bucket:    "media",
	}
}

func newOrchestrator(cfg storage.Config, backend storage.Backend) *bootstrap.Orchestrator {
	waiter := readiness.NewWaiter(backend, 3, time.Millisecond, time.Millisecond, zap.NewNop())
	return bootstrap.New(cfg, backend, waiter, zap.NewNop())
}

func TestOrchestrator_Run(t *testing.T) {
	t.Run("CreatesMissingBucket", func(t *testing.T) {
		backend := new(mocks.Backend)
		backend.On("Ping", mock.Anything).Return(nil)
		backend.On("BucketExists", mock.Anything, "media").Return(false, nil)
		backend.On("MakeBucket", mock.Anything, "media").Return(nil)

		orch := newOrchestrator(validConfig(), backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeSuccess, result.Outcome)
		assert.Equal(t, storage.ProviderS3, result.Backend)
		assert.Equal(t, 1, result.Attempts)
		assert.Equal(t, bootstrap.StateDone, orch.State())
		assert.Equal(t, bootstrap.BucketPresent, orch.BucketState())
		backend.AssertExpectations(t)

		select {
		case <-orch.Done():
		default:
			t.Fatal("Done channel should be closed after the run")
		}
	})

	t.Run("ExistingBucketSkipsCreate", func(t *testing.T) {
		backend := new(mocks.Backend)
		backend.On("Ping", mock.Anything).Return(nil)
		backend.On("BucketExists", mock.Anything, "media").Return(true, nil)

		orch := newOrchestrator(validConfig(), backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeSuccess, result.Outcome)
		backend.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything)
	})

	t.Run("AlreadyExistsOnCreateIsSuccess", func(t *testing.T) {
		backend := new(mocks.Backend)
		backend.On("Ping", mock.Anything).Return(nil)
		backend.On("BucketExists", mock.Anything, "media").Return(false, nil)
		backend.On("MakeBucket", mock.Anything, "media").Return(
			&storage.BackendError{Code: storage.BackendAlreadyExists, Op: "make-bucket", Backend: storage.ProviderS3, Cause: errors.New("BucketAlreadyOwnedByYou")},
		)

		orch := newOrchestrator(validConfig(), backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeSuccess, result.Outcome)
		assert.Equal(t, bootstrap.BucketPresent, orch.BucketState())
	})

	t.Run("MissingBucketNameFailsBeforeAnyCall", func(t *testing.T) {
		cfg := validConfig()
		cfg.Bucket = ""
		backend := new(mocks.Backend)

		orch := newOrchestrator(cfg, backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeFailed, result.Outcome)
		var cfgErr *storage.ConfigError
		assert.ErrorAs(t, result.Err, &cfgErr)
		backend.AssertNotCalled(t, "Ping", mock.Anything)
		backend.AssertNotCalled(t, "BucketExists", mock.Anything, mock.Anything)
		backend.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything)
	})

	t.Run("UnreachableServerFails", func(t *testing.T) {
		backend := new(mocks.Backend)
		backend.On("Kind").Return(storage.ProviderS3)
		backend.On("Ping", mock.Anything).Return(
			&storage.ConnectError{Kind: storage.ConnectUnreachable, Backend: storage.ProviderS3, Cause: errors.New("connection refused")},
		)

		orch := newOrchestrator(validConfig(), backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeFailed, result.Outcome)
		assert.Equal(t, bootstrap.StateFailed, orch.State())
		var timeoutErr *readiness.TimeoutError
		assert.ErrorAs(t, result.Err, &timeoutErr)
		assert.Equal(t, 3, result.Attempts)
		backend.AssertNotCalled(t, "BucketExists", mock.Anything, mock.Anything)
	})

	t.Run("UnauthorizedFailsWithoutRetrying", func(t *testing.T) {
		backend := new(mocks.Backend)
		backend.On("Ping", mock.Anything).Return(
			&storage.ConnectError{Kind: storage.ConnectUnauthorized, Backend: storage.ProviderS3, Cause: errors.New("access denied")},
		)

		orch := newOrchestrator(validConfig(), backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeFailed, result.Outcome)
		assert.True(t, storage.IsUnauthorized(result.Err))
		assert.Equal(t, 1, result.Attempts)
	})

	t.Run("BucketCheckErrorFails", func(t *testing.T) {
		backend := new(mocks.Backend)
		backend.On("Ping", mock.Anything).Return(nil)
		backend.On("BucketExists", mock.Anything, "media").Return(false,
			&storage.BackendError{Code: storage.BackendOther, Op: "bucket-exists", Backend: storage.ProviderS3, Cause: errors.New("boom")},
		)

		orch := newOrchestrator(validConfig(), backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeFailed, result.Outcome)
	})
}

func TestOrchestrator_PublicReadPolicy(t *testing.T) {
	t.Run("AppliedWhenFlagSet", func(t *testing.T) {
		cfg := validConfig()
		cfg.PublicRead = true

		backend := new(mocks.Backend)
		backend.On("Ping", mock.Anything).Return(nil)
		backend.On("BucketExists", mock.Anything, "media").Return(true, nil)
		backend.On("SetPublicReadPolicy", mock.Anything, "media").Return(nil)

		orch := newOrchestrator(cfg, backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeSuccess, result.Outcome)
		assert.Equal(t, bootstrap.BucketPolicyApplied, orch.BucketState())
		backend.AssertExpectations(t)
	})

	t.Run("SkippedWhenFlagUnset", func(t *testing.T) {
		backend := new(mocks.Backend)
		backend.On("Ping", mock.Anything).Return(nil)
		backend.On("BucketExists", mock.Anything, "media").Return(true, nil)

		orch := newOrchestrator(validConfig(), backend)
		orch.Run(context.Background())

		backend.AssertNotCalled(t, "SetPublicReadPolicy", mock.Anything, mock.Anything)
	})

	t.Run("PolicyFailureDoesNotBlockDone", func(t *testing.T) {
		cfg := validConfig()
		cfg.PublicRead = true

		backend := new(mocks.Backend)
		backend.On("Ping", mock.Anything).Return(nil)
		backend.On("BucketExists", mock.Anything, "media").Return(false, nil)
		backend.On("MakeBucket", mock.Anything, "media").Return(nil)
		backend.On("SetPublicReadPolicy", mock.Anything, "media").Return(
			&storage.BackendError{Code: storage.BackendOther, Op: "set-policy", Backend: storage.ProviderS3, Cause: errors.New("denied")},
		)

		orch := newOrchestrator(cfg, backend)
		result := orch.Run(context.Background())

		assert.Equal(t, bootstrap.OutcomeSuccess, result.Outcome)
		assert.Equal(t, bootstrap.StateDone, orch.State())
		// Policy failed, so the bucket stays at present rather than policy_applied.
		assert.Equal(t, bootstrap.BucketPresent, orch.BucketState())
	})
}

func TestOrchestrator_Rerun(t *testing.T) {
	backend := new(mocks.Backend)
	backend.On("Ping", mock.Anything).Return(nil)
	// First run creates the bucket; the second observes it.
	backend.On("BucketExists", mock.Anything, "media").Return(false, nil).Once()
	backend.On("MakeBucket", mock.Anything, "media").Return(nil).Once()
	backend.On("BucketExists", mock.Anything, "media").Return(true, nil)

	orch := newOrchestrator(validConfig(), backend)
	first := orch.Run(context.Background())
	second := orch.Run(context.Background())

	assert.Equal(t, bootstrap.OutcomeSuccess, first.Outcome)
	assert.Equal(t, bootstrap.OutcomeSuccess, second.Outcome)
	backend.AssertExpectations(t)
}

func TestResult_WriteSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bootstrap.done")
	result := bootstrap.Result{
		Outcome: bootstrap.OutcomeSuccess,
		Backend: storage.ProviderS3,
		Bucket:  "media",
	}

	require.NoError(t, result.WriteSignal(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "success", decoded["outcome"])
	assert.Equal(t, "media", decoded["bucket"])
	assert.NotEmpty(t, decoded["finished_at"])
}
