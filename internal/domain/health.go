package domain

import (
	"fmt"
	"time"
)

// HealthStatus classifies a probe of a running service.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnknown   HealthStatus = "unknown"
)

// ProbeMode decides how a slow but successful response is judged: readiness
// probes degrade, liveness probes fail.
type ProbeMode string

const (
	ProbeReadiness ProbeMode = "readiness"
	ProbeLiveness  ProbeMode = "liveness"
)

// ProbeObservation is the raw outcome of one HTTP request.
type ProbeObservation struct {
	URL        string
	StatusCode int
	Latency    time.Duration
	Err        error
	TimedOut   bool
	// Invalid means the request could not be built at all.
	Invalid bool
}

// CheckResult is a classified probe.
type CheckResult struct {
	URL          string       `json:"url"`
	Mode         ProbeMode    `json:"mode"`
	Status       HealthStatus `json:"status"`
	Timestamp    time.Time    `json:"timestamp"`
	LatencyMS    float64      `json:"latency_ms"`
	ResponseCode int          `json:"response_code,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// HealthReport combines a readiness and a liveness probe.
type HealthReport struct {
	BaseURL       string       `json:"base_url"`
	Readiness     CheckResult  `json:"readiness"`
	Liveness      CheckResult  `json:"liveness"`
	OverallStatus HealthStatus `json:"overall_status"`
}

// ClassifyProbe maps an observation to a status. Responses below 400 are
// healthy unless slower than maxLatency; a zero maxLatency disables the
// latency check.
func ClassifyProbe(obs ProbeObservation, mode ProbeMode, maxLatency time.Duration) (HealthStatus, string) {
	switch {
	case obs.Invalid:
		return HealthUnknown, errString(obs.Err)
	case obs.TimedOut:
		return HealthUnhealthy, "timeout"
	case obs.Err != nil:
		return HealthUnhealthy, obs.Err.Error()
	case obs.StatusCode >= 400:
		return HealthUnhealthy, fmt.Sprintf("HTTP %d", obs.StatusCode)
	case obs.StatusCode == 0:
		return HealthUnknown, "no response"
	}

	if maxLatency > 0 && obs.Latency > maxLatency {
		msg := fmt.Sprintf("high latency: %.2fms > %dms", DurationMS(obs.Latency), maxLatency.Milliseconds())
		if mode == ProbeLiveness {
			return HealthUnhealthy, msg
		}
		return HealthDegraded, msg
	}
	return HealthHealthy, ""
}

// OverallHealth is healthy only when both probes are.
func OverallHealth(readiness, liveness CheckResult) HealthStatus {
	if readiness.Status == HealthHealthy && liveness.Status == HealthHealthy {
		return HealthHealthy
	}
	return HealthUnhealthy
}

// DurationMS converts d to fractional milliseconds.
func DurationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
