package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// HTTPClientConfig bundles HTTP client and per-call timeout settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Timeout time.Duration
}

var (
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// StatusError reports an upstream response whose status was not accepted.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d", errUnexpected, e.Code)
}

// acceptFunc decides which status codes count as success for a call.
type acceptFunc func(code int) bool

func exactlyOK(code int) bool { return code == http.StatusOK }

func any2xx(code int) bool { return code >= 200 && code < 300 }

// fetch executes one GET under its own timeout and the circuit breaker, and
// returns the body. There are no retries: any failure is terminal for the
// call. Server errors and transport failures count against the breaker;
// client errors do not. Every returned error wraps weather.ErrUpstream
// except request construction failures.
func fetch(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	accept acceptFunc,
	buildRequest func(ctx context.Context) (*http.Request, error),
) ([]byte, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", weather.ErrUpstream, errCircuitOpen, err)
		}
		return nil, fmt.Errorf("%w: %w", weather.ErrUpstream, redact(err))
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	if !accept(resp.StatusCode) {
		// Drain so the connection can be reused; the body is never surfaced.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %w", weather.ErrUpstream, &StatusError{Code: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", weather.ErrUpstream, redact(err))
	}
	return body, nil
}

// redact strips the query string, which carries the API key, from URL errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			u.RawQuery = ""
			ue.URL = u.String()
		}
	}
	return err
}
