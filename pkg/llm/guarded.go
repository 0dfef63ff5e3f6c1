package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/retry"
)

// GuardedGenerator wraps a provider client with a circuit breaker and bounded
// retries of transient failures. Callers invoke Generate once per logical request;
// any retrying happens here.
type GuardedGenerator struct {
	next    Generator
	breaker *CircuitBreaker
	retry   *retry.Config
	logger  *zap.Logger
}

// NewGuardedGenerator creates a GuardedGenerator. A nil retry config disables retries.
func NewGuardedGenerator(next Generator, breaker *CircuitBreaker, retryCfg *retry.Config, logger *zap.Logger) *GuardedGenerator {
	if retryCfg == nil {
		retryCfg = retry.GenerationConfig(0, 0, 0)
	}
	return &GuardedGenerator{
		next:    next,
		breaker: breaker,
		retry:   retryCfg,
		logger:  logger.Named("llm-guard"),
	}
}

// Generate implements Generator. Every failure is returned as an *Error.
func (g *GuardedGenerator) Generate(ctx context.Context, req *GenerationRequest) (*Generation, error) {
	var generation *Generation
	attempt := 0

	err := retry.DoIfRetryable(ctx, g.retry, func() error {
		attempt++
		if err := g.breaker.Allow(); err != nil {
			return err
		}

		result, err := g.next.Generate(ctx, req)
		if err != nil {
			llmErr := ClassifyError(err)
			if llmErr.Type == ErrorTypeCanceled {
				g.breaker.Abort()
			} else {
				g.breaker.RecordFailure()
			}
			g.logger.Warn("Generation attempt failed",
				zap.Int("attempt", attempt),
				zap.String("error_type", string(llmErr.Type)),
				zap.Bool("retryable", llmErr.Retryable),
				zap.String("circuit", g.breaker.State().String()),
				zap.Error(err))
			return llmErr
		}

		g.breaker.RecordSuccess()
		generation = result
		return nil
	})
	if err != nil {
		return nil, ClassifyError(err)
	}

	if attempt > 1 {
		g.logger.Info("Generation succeeded after retry", zap.Int("attempts", attempt))
	}
	return generation, nil
}
