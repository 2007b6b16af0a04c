package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openkraft/svcaudit/internal/domain"
)

// Prober implements domain.HealthProber with plain HTTP GETs. Each probe
// times out after twice the latency budget.
type Prober struct {
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

func New(client *http.Client, logger *zap.Logger) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{client: client, logger: logger, now: time.Now}
}

// Check probes baseURL+path once and classifies the outcome.
func (p *Prober) Check(ctx context.Context, baseURL, path string, mode domain.ProbeMode, maxLatency time.Duration) domain.CheckResult {
	obs := p.observe(ctx, baseURL, path, maxLatency)
	status, msg := domain.ClassifyProbe(obs, mode, maxLatency)

	p.logger.Debug("health probe",
		zap.String("url", obs.URL),
		zap.String("mode", string(mode)),
		zap.String("status", string(status)),
		zap.Duration("latency", obs.Latency),
	)

	return domain.CheckResult{
		URL:          obs.URL,
		Mode:         mode,
		Status:       status,
		Timestamp:    p.now().UTC(),
		LatencyMS:    domain.DurationMS(obs.Latency),
		ResponseCode: obs.StatusCode,
		Error:        msg,
	}
}

func (p *Prober) observe(ctx context.Context, baseURL, path string, maxLatency time.Duration) domain.ProbeObservation {
	target, err := joinURL(baseURL, path)
	obs := domain.ProbeObservation{URL: target}
	if err != nil {
		obs.Invalid = true
		obs.Err = err
		return obs
	}

	if maxLatency > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*maxLatency)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		obs.Invalid = true
		obs.Err = err
		return obs
	}

	start := p.now()
	resp, err := p.client.Do(req)
	obs.Latency = p.now().Sub(start)
	if err != nil {
		obs.Err = err
		obs.TimedOut = errors.Is(err, context.DeadlineExceeded) || isTimeout(err)
		return obs
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	obs.StatusCode = resp.StatusCode
	return obs
}

// joinURL appends path to baseURL and rejects anything that is not an
// absolute http(s) URL.
func joinURL(baseURL, path string) (string, error) {
	target := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	u, err := url.Parse(target)
	if err != nil {
		return target, fmt.Errorf("invalid url %q: %w", target, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return target, fmt.Errorf("invalid url %q: want http(s)://host", target)
	}
	return target, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
