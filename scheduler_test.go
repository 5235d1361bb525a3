package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchedulerRunsEveryJobOnIndependentEngines(t *testing.T) {
	s := NewScheduler(2, nil, 0, zap.NewNop().Sugar())
	s.newEngine = func(logger *zap.SugaredLogger, proxyURL string) (*Engine, error) {
		fake := &fakeClient{responses: []scriptedResponse{
			{status: 200, body: registrationPage},
			{status: 200, body: "Invalid registration details. Error:003"},
		}}
		return newTestEngine(fake), nil
	}

	s.Start(context.Background())
	const jobs = 3
	for range jobs {
		s.Submit()
	}

	identities := make(map[string]bool)
	for range jobs {
		select {
		case result := <-s.Results():
			require.NoError(t, result.Err)
			assert.Equal(t, OutcomeRegistrationError003, result.Outcome)
			assert.False(t, identities[result.IdentityEmail], "identity reused across runs")
			identities[result.IdentityEmail] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}
	s.Close()
}

func TestSchedulerReportsEngineFactoryErrors(t *testing.T) {
	s := NewScheduler(1, nil, 0, zap.NewNop().Sugar())
	s.newEngine = func(logger *zap.SugaredLogger, proxyURL string) (*Engine, error) {
		return nil, errors.New("proxy unreachable")
	}

	s.Start(context.Background())
	s.Submit()

	select {
	case result := <-s.Results():
		assert.Error(t, result.Err)
		assert.False(t, result.Fatal)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	s.Close()
}

func TestSchedulerStopsOnFatalError(t *testing.T) {
	s := NewScheduler(1, nil, 0, zap.NewNop().Sugar())
	s.newEngine = func(logger *zap.SugaredLogger, proxyURL string) (*Engine, error) {
		return nil, NewFatalError(errors.New("bad configuration"))
	}

	s.Start(context.Background())
	s.Submit()

	select {
	case result := <-s.Results():
		assert.True(t, result.Fatal)
		assert.Error(t, result.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for fatal result")
	}
	s.Close()
}
