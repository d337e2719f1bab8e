package circuitbreaker

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// StatusError is returned for non-2xx responses; Body holds at most 4 KiB.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// HTTPClient wraps an HTTP client with circuit breaker protection. 5xx
// responses and transport errors count as failures.
type HTTPClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

func NewHTTPClient(client *http.Client, breaker *gobreaker.CircuitBreaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &HTTPClient{
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// Do executes req and returns the body of a 2xx response. Non-2xx responses
// become a *StatusError.
func (c *HTTPClient) Do(req *http.Request) ([]byte, error) {
	var clientErr *StatusError

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 500 {
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(body)}
		}
		if resp.StatusCode >= 300 {
			// Client errors are not the provider's fault; keep the breaker closed.
			clientErr = &StatusError{StatusCode: resp.StatusCode, Body: truncate(body)}
			return nil, nil
		}
		return body, nil
	})

	if err != nil {
		if IsOpen(err) {
			c.log.Warn("Circuit breaker open, request blocked",
				zap.String("host", req.URL.Host),
				zap.String("breaker", c.breaker.Name()),
			)
		}
		return nil, err
	}
	if clientErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrPermanent, clientErr)
	}

	return result.([]byte), nil
}

func (c *HTTPClient) State() string {
	return c.breaker.State().String()
}

func truncate(b []byte) string {
	const max = 4096
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
