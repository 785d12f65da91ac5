package fedlex

import (
	"net/http"
	"sync"
	"time"
)

// HTTPClient is an interface matching the Do method of *http.Client,
// allowing injection of mock clients for testing and custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RateLimitedHTTPClient wraps an HTTPClient and enforces a minimum interval
// between requests, so the public Fedlex endpoint is never hammered by a
// burst of resolutions.
type RateLimitedHTTPClient struct {
	underlying      HTTPClient
	requestInterval time.Duration
	lastRequest     time.Time
	mu              sync.Mutex
}

// NewRateLimitedHTTPClient creates a rate-limited HTTP client that enforces
// the given minimum interval between requests. A zero interval disables
// waiting.
func NewRateLimitedHTTPClient(underlying HTTPClient, requestInterval time.Duration) *RateLimitedHTTPClient {
	return &RateLimitedHTTPClient{
		underlying:      underlying,
		requestInterval: requestInterval,
	}
}

// Do executes an HTTP request, waiting for the rate limiter before sending.
func (rateLimitedClient *RateLimitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	rateLimitedClient.mu.Lock()

	if !rateLimitedClient.lastRequest.IsZero() && rateLimitedClient.requestInterval > 0 {
		elapsed := time.Since(rateLimitedClient.lastRequest)
		if elapsed < rateLimitedClient.requestInterval {
			waitTime := rateLimitedClient.requestInterval - elapsed
			rateLimitedClient.mu.Unlock()

			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(waitTime):
			}

			rateLimitedClient.mu.Lock()
		}
	}

	rateLimitedClient.lastRequest = time.Now()
	rateLimitedClient.mu.Unlock()

	return rateLimitedClient.underlying.Do(req)
}
