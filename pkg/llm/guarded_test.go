package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/retry"
)

func fastRetry(maxRetries int) *retry.Config {
	return retry.GenerationConfig(maxRetries, time.Millisecond, 5*time.Millisecond)
}

func TestGuardedGenerator_PassesThroughSuccess(t *testing.T) {
	mock := NewMockGenerator(`{"executive_summary":"ok"}`)
	g := NewGuardedGenerator(mock, NewCircuitBreaker(DefaultCircuitBreakerConfig()), fastRetry(2), zap.NewNop())

	gen, err := g.Generate(context.Background(), &GenerationRequest{Prompt: "{}"})
	require.NoError(t, err)
	assert.Equal(t, `{"executive_summary":"ok"}`, gen.Content)
	assert.Equal(t, 1, mock.Calls())
}

func TestGuardedGenerator_RetriesTransientFailures(t *testing.T) {
	mock := &MockGenerator{}
	mock.GenerateFunc = func(ctx context.Context, req *GenerationRequest) (*Generation, error) {
		if mock.Calls() < 3 {
			return nil, NewError(ErrorTypeEndpoint, "server error", true, nil)
		}
		return &Generation{Content: "third time"}, nil
	}
	breaker := NewCircuitBreaker(DefaultCircuitBreakerConfig())
	g := NewGuardedGenerator(mock, breaker, fastRetry(2), zap.NewNop())

	gen, err := g.Generate(context.Background(), &GenerationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "third time", gen.Content)
	assert.Equal(t, 3, mock.Calls())
	assert.Equal(t, 0, breaker.ConsecutiveFailures())
}

func TestGuardedGenerator_DoesNotRetryPermanentFailures(t *testing.T) {
	mock := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req *GenerationRequest) (*Generation, error) {
			return nil, errMalformed(ProviderOpenAI, "gpt-4.1", "no choices in response")
		},
	}
	g := NewGuardedGenerator(mock, NewCircuitBreaker(DefaultCircuitBreakerConfig()), fastRetry(3), zap.NewNop())

	_, err := g.Generate(context.Background(), &GenerationRequest{})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeMalformed, GetErrorType(err))
	assert.Equal(t, 1, mock.Calls())
}

func TestGuardedGenerator_ExhaustedRetriesReturnLastError(t *testing.T) {
	mock := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req *GenerationRequest) (*Generation, error) {
			return nil, errors.New("status code: 503, message: overloaded")
		},
	}
	g := NewGuardedGenerator(mock, NewCircuitBreaker(CircuitBreakerConfig{Threshold: 10, ResetAfter: time.Minute}), fastRetry(2), zap.NewNop())

	_, err := g.Generate(context.Background(), &GenerationRequest{})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeEndpoint, GetErrorType(err))
	assert.Equal(t, 3, mock.Calls())
}

func TestGuardedGenerator_OpenCircuitSkipsProvider(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, ResetAfter: time.Hour})
	breaker.RecordFailure()

	mock := NewMockGenerator("unused")
	g := NewGuardedGenerator(mock, breaker, fastRetry(2), zap.NewNop())

	_, err := g.Generate(context.Background(), &GenerationRequest{})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeUnavailable, GetErrorType(err))
	assert.Equal(t, 0, mock.Calls())
}

func TestGuardedGenerator_CancellationDoesNotTripBreaker(t *testing.T) {
	mock := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req *GenerationRequest) (*Generation, error) {
			return nil, context.Canceled
		},
	}
	breaker := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, ResetAfter: time.Hour})
	g := NewGuardedGenerator(mock, breaker, fastRetry(2), zap.NewNop())

	_, err := g.Generate(context.Background(), &GenerationRequest{})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeCanceled, GetErrorType(err))
	assert.Equal(t, CircuitClosed, breaker.State())
	assert.Equal(t, 1, mock.Calls())
}

func TestGuardedGenerator_CanceledHalfOpenAttemptReleasesCircuit(t *testing.T) {
	canceled := true
	mock := &MockGenerator{
		GenerateFunc: func(ctx context.Context, req *GenerationRequest) (*Generation, error) {
			if canceled {
				return nil, context.Canceled
			}
			return &Generation{Content: "{}", RawResponse: []byte(`{}`)}, nil
		},
	}
	breaker := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, ResetAfter: time.Millisecond})
	breaker.RecordFailure()
	require.Equal(t, CircuitOpen, breaker.State())
	time.Sleep(5 * time.Millisecond)

	g := NewGuardedGenerator(mock, breaker, fastRetry(0), zap.NewNop())

	_, err := g.Generate(context.Background(), &GenerationRequest{})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeCanceled, GetErrorType(err))
	assert.Equal(t, CircuitOpen, breaker.State())
	assert.Equal(t, 1, breaker.ConsecutiveFailures())

	canceled = false
	for i := 0; i < 3; i++ {
		_, err := g.Generate(context.Background(), &GenerationRequest{})
		require.NoError(t, err, "run %d", i)
	}
	assert.Equal(t, CircuitClosed, breaker.State())
	assert.Equal(t, 4, mock.Calls())
}
