package application

import (
	"context"
	"time"

	"github.com/openkraft/svcaudit/internal/domain"
)

// Default probe paths and latency budget.
const (
	DefaultReadinessPath = "/health/ready"
	DefaultLivenessPath  = "/health/live"
	DefaultMaxLatency    = 300 * time.Millisecond
)

// HealthRequest describes a comprehensive check of one running service.
type HealthRequest struct {
	BaseURL       string
	ReadinessPath string
	LivenessPath  string
	MaxLatency    time.Duration
}

// HealthService runs readiness and liveness probes and combines them.
type HealthService struct {
	prober     domain.HealthProber
	maxLatency time.Duration
}

// HealthOption configures a HealthService.
type HealthOption func(*HealthService)

// WithDefaultMaxLatency sets the latency budget used when a request leaves
// MaxLatency unset. Non-positive values keep DefaultMaxLatency.
func WithDefaultMaxLatency(d time.Duration) HealthOption {
	return func(s *HealthService) {
		if d > 0 {
			s.maxLatency = d
		}
	}
}

func NewHealthService(prober domain.HealthProber, opts ...HealthOption) *HealthService {
	s := &HealthService{prober: prober, maxLatency: DefaultMaxLatency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check probes readiness then liveness. Overall is healthy only when both are.
func (s *HealthService) Check(ctx context.Context, req HealthRequest) domain.HealthReport {
	if req.ReadinessPath == "" {
		req.ReadinessPath = DefaultReadinessPath
	}
	if req.LivenessPath == "" {
		req.LivenessPath = DefaultLivenessPath
	}
	if req.MaxLatency <= 0 {
		req.MaxLatency = s.maxLatency
	}

	readiness := s.prober.Check(ctx, req.BaseURL, req.ReadinessPath, domain.ProbeReadiness, req.MaxLatency)
	liveness := s.prober.Check(ctx, req.BaseURL, req.LivenessPath, domain.ProbeLiveness, req.MaxLatency)

	return domain.HealthReport{
		BaseURL:       req.BaseURL,
		Readiness:     readiness,
		Liveness:      liveness,
		OverallStatus: domain.OverallHealth(readiness, liveness),
	}
}
