package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/piresc/unitransport/internal/pkg/logger"
)

// Unlimited makes Execute retry until the function succeeds or the context ends
const Unlimited = -1

// RetryableFunc represents a function that can be retried
type RetryableFunc func(ctx context.Context) error

// Config holds retry configuration
type Config struct {
	Name          string           // Label used in log lines
	MaxRetries    int              // Maximum number of retry attempts, or Unlimited
	BaseDelay     time.Duration    // Base delay between retries
	MaxDelay      time.Duration    // Maximum delay between retries
	Multiplier    float64          // Backoff multiplier, 1 keeps the delay fixed
	Jitter        bool             // Add up to 10% randomization to each delay
	InitialDelay  time.Duration    // Wait before the first attempt
	RetryableFunc func(error) bool // Function to determine if error is retryable
}

// DefaultConfig returns a bounded exponential backoff configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
		RetryableFunc: func(err error) bool {
			return true
		},
	}
}

// FixedConfig returns a policy that retries forever with the same delay
// between attempts. Reconnect loops use it.
func FixedConfig(name string, delay time.Duration) Config {
	return Config{
		Name:       name,
		MaxRetries: Unlimited,
		BaseDelay:  delay,
		MaxDelay:   delay,
		Multiplier: 1,
		RetryableFunc: func(err error) bool {
			return true
		},
	}
}

// Retrier runs a function under a retry policy
type Retrier struct {
	config Config
	logger *logger.ZapLogger
}

// New creates a new retrier with the given configuration
func New(config Config, l *logger.ZapLogger) *Retrier {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	if config.RetryableFunc == nil {
		config.RetryableFunc = func(error) bool { return true }
	}
	return &Retrier{
		config: config,
		logger: l,
	}
}

// NewWithDefaults creates a new retrier with default configuration
func NewWithDefaults(l *logger.ZapLogger) *Retrier {
	return New(DefaultConfig(), l)
}

// Execute executes the function with retry logic
func (r *Retrier) Execute(ctx context.Context, fn RetryableFunc) error {
	if r.config.InitialDelay > 0 {
		if err := sleep(ctx, r.config.InitialDelay); err != nil {
			return err
		}
	}

	var lastErr error

	for attempt := 0; r.config.MaxRetries == Unlimited || attempt <= r.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				r.logger.Info("Function succeeded after retries",
					logger.String("name", r.config.Name),
					logger.Int("total_attempts", attempt+1))
			}
			return nil
		}

		lastErr = err

		if !r.config.RetryableFunc(err) {
			r.logger.Debug("Error is not retryable, stopping",
				logger.String("name", r.config.Name),
				logger.Err(err),
				logger.Int("attempt", attempt+1))
			return err
		}

		if attempt == r.config.MaxRetries {
			break
		}

		delay := r.calculateDelay(attempt)

		r.logger.Debug("Function failed, retrying",
			logger.String("name", r.config.Name),
			logger.Err(err),
			logger.Int("attempt", attempt+1),
			logger.Duration("delay", delay))

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	r.logger.Error("Function failed after all retries",
		logger.String("name", r.config.Name),
		logger.Err(lastErr),
		logger.Int("total_attempts", r.config.MaxRetries+1))

	return fmt.Errorf("retry limit exceeded after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

// calculateDelay calculates the delay for the given attempt number
func (r *Retrier) calculateDelay(attempt int) time.Duration {
	multiplier := r.config.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := float64(r.config.BaseDelay) * math.Pow(multiplier, float64(attempt))

	if r.config.MaxDelay > 0 && delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	if r.config.Jitter {
		delay += delay * 0.1 * rand.Float64()
	}

	return time.Duration(delay)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
