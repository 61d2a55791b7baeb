package vendorapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"complimart/pkg/platform/sentinel"
	"complimart/pkg/requestcontext"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks complimart/internal/vendorapi ProfileClient,DocumentsClient

// ProfileClient fetches the active vendor's profile. The vendor is identified
// by the session carried in the context.
type ProfileClient interface {
	FetchProfile(ctx context.Context) (VendorProfile, error)
}

// HTTPProfileClient talks to the marketplace backend.
type HTTPProfileClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProfileClient(baseURL string) *HTTPProfileClient {
	return &HTTPProfileClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPProfileClient) FetchProfile(ctx context.Context) (VendorProfile, error) {
	var profile VendorProfile
	path := "/internal/vendors/" + url.PathEscape(requestcontext.UserID(ctx)) + "/profile"
	if err := getJSON(ctx, c.client, c.baseURL+path, &profile); err != nil {
		return VendorProfile{}, err
	}
	return profile, nil
}

// MockProfileClient serves deterministic data with a configurable latency to
// mimic real-world calls. Used in development when no backend is configured.
type MockProfileClient struct {
	Latency time.Duration
	Score   float64
	Err     error
}

func (c MockProfileClient) FetchProfile(_ context.Context) (VendorProfile, error) {
	time.Sleep(c.Latency)
	if c.Err != nil {
		return VendorProfile{}, c.Err
	}
	return VendorProfile{CompanyName: "Sample Vendor Co", OverallComplianceScore: c.Score}, nil
}

// getJSON performs an authenticated-by-header GET and decodes the response.
// Non-2xx responses surface as ErrUnavailable: the engine treats collaborator
// failures as transient and degrades silently.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return sentinel.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
