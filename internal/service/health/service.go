package health

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker runs one readiness probe.
type Checker func(ctx context.Context) CheckResult

// Pinger is implemented by the cache and queue adapters.
type Pinger interface {
	Ping() error
}

type Config struct {
	Version string
	DB      *sql.DB
	Cache   Pinger
	// Queue is reported under QueueName (the configured driver).
	Queue     Pinger
	QueueName string
	Timeout   time.Duration
}

type Service struct {
	startTime time.Time
	version   string
	timeout   time.Duration
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

func NewService(cfg *Config, log *zap.Logger) *Service {
	s := &Service{
		startTime: time.Now(),
		version:   cfg.Version,
		timeout:   cfg.Timeout,
		checkers:  make(map[string]Checker),
		log:       log,
	}
	if s.timeout <= 0 {
		s.timeout = 5 * time.Second
	}

	if cfg.DB != nil {
		s.RegisterChecker("database", PingCheck("database", cfg.DB.PingContext))
	}
	if cfg.Cache != nil {
		s.RegisterChecker("cache", PingCheck("cache", ignoreContext(cfg.Cache.Ping)))
	}
	if cfg.Queue != nil {
		name := cfg.QueueName
		if name == "" {
			name = "queue"
		}
		s.RegisterChecker(name, PingCheck(name, ignoreContext(cfg.Queue.Ping)))
	}
	return s
}

func ignoreContext(fn func() error) func(context.Context) error {
	return func(context.Context) error { return fn() }
}

// PingCheck turns a ping function into a Checker.
func PingCheck(name string, ping func(ctx context.Context) error) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := ping(ctx)
		result := CheckResult{
			Name:      name,
			Status:    StatusHealthy,
			Message:   "connection ok",
			Duration:  time.Since(start),
			Timestamp: start,
		}
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = fmt.Sprintf("ping failed: %v", err)
		}
		return result
	}
}

func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Health is the liveness probe; it never touches dependencies.
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Check runs a single registered checker. ok is false for unknown names.
func (s *Service) Check(ctx context.Context, name string) (CheckResult, bool) {
	s.mu.RLock()
	checker, ok := s.checkers[name]
	s.mu.RUnlock()
	if !ok {
		return CheckResult{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return checker(ctx), true
}

// Ready runs every registered check concurrently, each with its own timeout.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult, len(checkers))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			result := checker(checkCtx)
			if result.Status == StatusUnhealthy {
				s.log.Warn("Readiness check failed", zap.String("check", name), zap.String("message", result.Message))
			}

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	status := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
		case StatusDegraded:
			if status != StatusUnhealthy {
				status = StatusDegraded
			}
		}
	}

	return &ReadyResponse{
		Ready:     status != StatusUnhealthy,
		Status:    status,
		Timestamp: time.Now(),
		Checks:    results,
	}
}
