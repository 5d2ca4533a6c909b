package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pitabwire/frame/workerpool"

	"github.com/wavecap/wavecap/pkg/events"
	"github.com/wavecap/wavecap/pkg/urlvalidation"
)

const (
	maxBreakers    = 10000
	maxDeadLetters = 1000
)

// DelivererConfig holds delivery-related settings.
type DelivererConfig struct {
	MaxRetries        int
	TimeoutSec        int
	BackoffInitialSec int
	BackoffMaxSec     int
	CBFailThreshold   int
	CBResetTimeoutSec int
}

// DeadLetter holds an event that exhausted all delivery retries. Dead
// letters are kept in a bounded in-memory ring for inspection.
type DeadLetter struct {
	EndpointID string    `json:"endpoint_id"`
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Payload    string    `json:"payload"`
	LastError  string    `json:"last_error"`
	Attempts   int       `json:"attempts"`
	At         time.Time `json:"at"`
}

// Deliverer delivers webhook events to configured endpoints.
type Deliverer struct {
	httpClient   *http.Client
	config       DelivererConfig
	pool         workerpool.WorkerPool
	validateOpts []urlvalidation.Option

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	dead     []DeadLetter
}

// NewDeliverer creates a new webhook deliverer.
func NewDeliverer(cfg DelivererConfig, pool workerpool.WorkerPool, validateOpts ...urlvalidation.Option) *Deliverer {
	return &Deliverer{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		config:       cfg,
		pool:         pool,
		breakers:     make(map[string]*CircuitBreaker),
		validateOpts: validateOpts,
	}
}

func (d *Deliverer) getOrCreateBreaker(endpointID string) *CircuitBreaker {
	d.mu.Lock()
	defer d.mu.Unlock()

	cb, ok := d.breakers[endpointID]
	if ok {
		return cb
	}

	// Evict an arbitrary entry at capacity.
	if len(d.breakers) >= maxBreakers {
		for k := range d.breakers {
			delete(d.breakers, k)
			break
		}
	}

	cb = NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold:    d.config.CBFailThreshold,
		ResetTimeout:        time.Duration(d.config.CBResetTimeoutSec) * time.Second,
		HalfOpenMaxAttempts: 1,
	})
	d.breakers[endpointID] = cb
	return cb
}

// BreakerState reports the circuit state for an endpoint.
func (d *Deliverer) BreakerState(endpointID string) BreakerState {
	d.mu.Lock()
	cb, ok := d.breakers[endpointID]
	d.mu.Unlock()
	if !ok {
		return BreakerClosed
	}
	return cb.State()
}

// DeadLetters returns a copy of the retained dead letters.
func (d *Deliverer) DeadLetters() []DeadLetter {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DeadLetter, len(d.dead))
	copy(out, d.dead)
	return out
}

// Deliver attempts to POST an event envelope to an endpoint.
func (d *Deliverer) Deliver(ctx context.Context, ep Endpoint, env events.Envelope) {
	d.deliverWithRetry(ctx, ep, env, 1)
}

func (d *Deliverer) deliverWithRetry(ctx context.Context, ep Endpoint, env events.Envelope, attempt int) {
	if err := urlvalidation.ValidateWebhookURL(ep.URL, d.validateOpts...); err != nil {
		slog.ErrorContext(ctx, "webhook URL failed SSRF validation",
			slog.String("endpoint_id", ep.ID),
			slog.String("url", ep.URL),
			slog.String("error", err.Error()))
		return
	}

	cb := d.getOrCreateBreaker(ep.ID)
	if !cb.AllowRequest() {
		d.handleFailure(ctx, ep, env, attempt, "circuit open")
		return
	}

	body, err := json.Marshal(env)
	if err != nil {
		d.handleFailure(ctx, ep, env, attempt, fmt.Sprintf("marshal: %v", err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		d.handleFailure(ctx, ep, env, attempt, fmt.Sprintf("create request: %v", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(ep.Secret, body))
	req.Header.Set("X-Wavecap-Event", string(env.Type))
	req.Header.Set("X-Wavecap-Delivery", env.ID)

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		cb.RecordFailure()
		d.handleFailure(ctx, ep, env, attempt, err.Error())
		return
	}
	defer resp.Body.Close()

	// Drain for connection reuse.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		cb.RecordSuccess()
		slog.InfoContext(ctx, "webhook delivered",
			slog.String("endpoint_id", ep.ID),
			slog.String("event_id", env.ID),
			slog.Int("attempt", attempt),
			slog.Int64("duration_ms", durationMs))
		return
	}

	cb.RecordFailure()
	d.handleFailure(ctx, ep, env, attempt, fmt.Sprintf("HTTP %d", resp.StatusCode))
}

func (d *Deliverer) handleFailure(ctx context.Context, ep Endpoint, env events.Envelope, attempt int, errMsg string) {
	if attempt >= d.config.MaxRetries {
		payload, _ := json.Marshal(env)
		d.addDeadLetter(DeadLetter{
			EndpointID: ep.ID,
			EventID:    env.ID,
			EventType:  string(env.Type),
			Payload:    string(payload),
			LastError:  errMsg,
			Attempts:   attempt,
			At:         time.Now().UTC(),
		})
		slog.ErrorContext(ctx, "webhook delivery exhausted",
			slog.String("endpoint_id", ep.ID),
			slog.String("event_id", env.ID),
			slog.Int("attempts", attempt),
			slog.String("error", errMsg))
		return
	}

	backoff := d.config.BackoffInitialSec * (1 << (attempt - 1))
	if backoff > d.config.BackoffMaxSec {
		backoff = d.config.BackoffMaxSec
	}

	retryFunc := func() {
		timer := time.NewTimer(time.Duration(backoff) * time.Second)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			d.deliverWithRetry(ctx, ep, env, attempt+1)
		}
	}

	if d.pool != nil {
		if err := d.pool.Submit(ctx, retryFunc); err != nil {
			slog.WarnContext(ctx, "retry pool full, dropping retry",
				slog.String("endpoint_id", ep.ID),
				slog.Int("attempt", attempt))
		}
	} else {
		time.AfterFunc(time.Duration(backoff)*time.Second, func() {
			d.deliverWithRetry(ctx, ep, env, attempt+1)
		})
	}
}

func (d *Deliverer) addDeadLetter(dl DeadLetter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.dead) >= maxDeadLetters {
		d.dead = d.dead[1:]
	}
	d.dead = append(d.dead, dl)
}
