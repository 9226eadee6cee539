package orgsdk

import (
	"context"
	"net/http"
)

// Livez hits the liveness probe.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out)
	return out, err
}

// Readyz hits the readiness probe. A not-ready service returns *APIError
// with a 503 status.
func (c *Client) Readyz(ctx context.Context) (ReadyResponse, error) {
	var out ReadyResponse
	err := c.do(ctx, http.MethodGet, "/readyz", nil, &out)
	return out, err
}
