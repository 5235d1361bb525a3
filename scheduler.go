package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunResult is the terminal report of one registration run.
type RunResult struct {
	IdentityEmail string
	Outcome       Outcome
	Err           error
	Fatal         bool
}

// engineFactory builds a fresh engine (and with it a fresh transport, cookie
// jar, and identity) for one run. Swappable in tests.
type engineFactory func(logger *zap.SugaredLogger, proxyURL string) (*Engine, error)

// Scheduler fans zero-argument run triggers out to a pool of workers. Each
// run owns an entirely independent Session and CookieStore; nothing is shared
// across runs.
type Scheduler struct {
	workerCount int
	jobs        chan struct{}
	results     chan RunResult
	wg          sync.WaitGroup
	proxies     *ProxyManager
	logger      *zap.SugaredLogger
	stagger     time.Duration
	newEngine   engineFactory
	cancel      context.CancelFunc
	fatalOnce   sync.Once
	stopped     atomic.Bool
}

func NewScheduler(workerCount int, proxies *ProxyManager, stagger time.Duration, logger *zap.SugaredLogger) *Scheduler {
	s := &Scheduler{
		workerCount: workerCount,
		jobs:        make(chan struct{}, workerCount*2),
		results:     make(chan RunResult, workerCount*2),
		proxies:     proxies,
		logger:      logger,
		stagger:     stagger,
	}
	s.newEngine = func(logger *zap.SugaredLogger, proxyURL string) (*Engine, error) {
		client, err := NewClient(nil, proxyURL)
		if err != nil {
			return nil, err
		}
		return NewEngine(client, logger), nil
	}
	return s
}

func generateWorkerID() string {
	return uuid.New().String()[:8]
}

// Start launches the worker pool, staggering worker startup.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.runWorker(ctx, generateWorkerID())

		if s.stagger > 0 && i < s.workerCount-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.stagger):
			}
		}
	}
}

func (s *Scheduler) runWorker(ctx context.Context, id string) {
	defer s.wg.Done()
	logger := s.logger.With("worker", id)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-s.jobs:
			if !ok {
				return
			}
			if s.stopped.Load() {
				return
			}

			proxyURL, display := s.proxies.Random()
			logger.Debugw("starting run", "proxy", display)

			engine, err := s.newEngine(logger, proxyURL)
			if err != nil {
				if IsFatalError(err) {
					s.handleFatalError(err)
					return
				}
				s.emit(ctx, RunResult{Err: err})
				continue
			}

			sess := engine.Run(ctx)
			s.emit(ctx, RunResult{IdentityEmail: sess.IdentityEmail, Outcome: sess.Outcome})
		}
	}
}

func (s *Scheduler) emit(ctx context.Context, r RunResult) {
	select {
	case s.results <- r:
	case <-ctx.Done():
	}
}

func (s *Scheduler) handleFatalError(err error) {
	s.fatalOnce.Do(func() {
		s.stopped.Store(true)
		s.logger.Errorw("fatal error, stopping all workers", "error", err)

		if s.cancel != nil {
			s.cancel()
		}

		select {
		case s.results <- RunResult{Fatal: true, Err: err}:
		default:
		}
	})
}

// Submit queues one zero-argument run trigger.
func (s *Scheduler) Submit() {
	s.jobs <- struct{}{}
}

// Results returns the channel of run outcomes.
func (s *Scheduler) Results() <-chan RunResult {
	return s.results
}

// Close shuts down the scheduler and waits for workers to finish.
func (s *Scheduler) Close() {
	close(s.jobs)
	s.wg.Wait()
	close(s.results)
}
