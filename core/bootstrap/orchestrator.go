package bootstrap

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"storage-init/core/readiness"
	"storage-init/core/storage"

	"go.uber.org/zap"
)

// State is the current step of the bootstrap state machine.
type State string

const (
	StateStart          State = "start"
	StateWaitingReady   State = "waiting_ready"
	StateEnsuringBucket State = "ensuring_bucket"
	StateApplyingPolicy State = "applying_policy"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// BucketState tracks what the orchestrator knows about the target bucket.
type BucketState string

const (
	BucketUnknown       BucketState = "unknown"
	BucketMissing       BucketState = "missing"
	BucketPresent       BucketState = "present"
	BucketPolicyApplied BucketState = "policy_applied"
)

// Outcome is the terminal verdict of a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Result is produced once per orchestrator run and consumed by the
// application launcher as a gate.
type Result struct {
	Outcome  Outcome          `json:"outcome"`
	Reason   string           `json:"reason,omitempty"`
	Backend  storage.Provider `json:"backend"`
	Bucket   string           `json:"bucket"`
	Attempts int              `json:"attempts"`
	Duration time.Duration    `json:"duration"`
	Err      error            `json:"-"`
}

// WriteSignal writes the result to path as the one-shot completion flag.
func (r Result) WriteSignal(path string) error {
	data, err := json.MarshalIndent(struct {
		Result
		FinishedAt time.Time `json:"finished_at"`
	}{Result: r, FinishedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Orchestrator sequences the bootstrap: wait for readiness, ensure the
// bucket exists, apply the access policy, signal completion. Every step is
// idempotent, so the whole sequence is safe to re-run on restart.
type Orchestrator struct {
	cfg     storage.Config
	backend storage.Backend
	waiter  *readiness.Waiter
	logger  *zap.Logger

	mu          sync.Mutex
	state       State
	bucketState BucketState
	result      *Result

	done     chan struct{}
	doneOnce sync.Once
}

// New creates an orchestrator for one deployment lifecycle.
func New(cfg storage.Config, backend storage.Backend, waiter *readiness.Waiter, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		backend:     backend,
		waiter:      waiter,
		logger:      logger,
		state:       StateStart,
		bucketState: BucketUnknown,
		done:        make(chan struct{}),
	}
}

// Run drives the state machine to a terminal state and returns the result.
func (o *Orchestrator) Run(ctx context.Context) Result {
	start := time.Now()

	// Start: configuration errors are not transient, fail fast before any
	// network call.
	o.setState(StateStart)
	if err := o.cfg.Validate(); err != nil {
		return o.fail("invalid configuration", err, start)
	}

	o.setState(StateWaitingReady)
	if err := o.waiter.Await(ctx); err != nil {
		return o.fail("storage server never became ready", err, start)
	}
	o.logger.Info("storage server is ready",
		zap.String("backend", o.cfg.Provider),
		zap.Int("attempts", o.waiter.Attempts()),
	)

	o.setState(StateEnsuringBucket)
	exists, err := o.backend.BucketExists(ctx, o.cfg.Bucket)
	if err != nil {
		return o.fail("bucket existence check failed", err, start)
	}
	if exists {
		o.setBucketState(BucketPresent)
		o.logger.Info("bucket already exists", zap.String("bucket", o.cfg.Bucket))
	} else {
		o.setBucketState(BucketMissing)
		if err := o.backend.MakeBucket(ctx, o.cfg.Bucket); err != nil && !storage.IsAlreadyExists(err) {
			return o.fail("bucket creation failed", err, start)
		}
		o.setBucketState(BucketPresent)
		o.logger.Info("bucket created", zap.String("bucket", o.cfg.Bucket))
	}

	if o.cfg.PublicRead {
		o.setState(StateApplyingPolicy)
		// Best effort: the bucket is usable without the policy, so a policy
		// failure must not block application startup.
		if err := o.backend.SetPublicReadPolicy(ctx, o.cfg.Bucket); err != nil {
			o.logger.Warn("public read policy not applied",
				zap.String("bucket", o.cfg.Bucket),
				zap.Error(err),
			)
		} else {
			o.setBucketState(BucketPolicyApplied)
			o.logger.Info("public read policy applied", zap.String("bucket", o.cfg.Bucket))
		}
	}

	o.setState(StateDone)
	result := Result{
		Outcome:  OutcomeSuccess,
		Backend:  o.cfg.Kind(),
		Bucket:   o.cfg.Bucket,
		Attempts: o.waiter.Attempts(),
		Duration: time.Since(start),
	}
	o.finish(result)
	return result
}

// Done is closed once the run reaches a terminal state. It is the in-process
// flavor of the completion signal.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// Result returns the terminal result, if the run has finished.
func (o *Orchestrator) Result() (Result, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.result == nil {
		return Result{}, false
	}
	return *o.result, true
}

// State returns the current step.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// BucketState returns what is known about the target bucket.
func (o *Orchestrator) BucketState() BucketState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bucketState
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) setBucketState(s BucketState) {
	o.mu.Lock()
	o.bucketState = s
	o.mu.Unlock()
}

func (o *Orchestrator) fail(reason string, err error, start time.Time) Result {
	o.setState(StateFailed)
	o.logger.Error("bootstrap failed",
		zap.String("reason", reason),
		zap.String("backend", o.cfg.Provider),
		zap.String("bucket", o.cfg.Bucket),
		zap.Error(err),
	)
	result := Result{
		Outcome:  OutcomeFailed,
		Reason:   reason,
		Backend:  o.cfg.Kind(),
		Bucket:   o.cfg.Bucket,
		Attempts: o.waiter.Attempts(),
		Duration: time.Since(start),
		Err:      err,
	}
	o.finish(result)
	return result
}

func (o *Orchestrator) finish(result Result) {
	o.mu.Lock()
	o.result = &result
	o.mu.Unlock()
	o.doneOnce.Do(func() { close(o.done) })
}
