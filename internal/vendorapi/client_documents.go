package vendorapi

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"complimart/pkg/requestcontext"
)

// DocumentsClient fetches the active vendor's document collection, the
// detector's snapshot source.
type DocumentsClient interface {
	FetchDocuments(ctx context.Context) ([]VendorDocument, error)
}

// HTTPDocumentsClient talks to the marketplace backend.
type HTTPDocumentsClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPDocumentsClient(baseURL string) *HTTPDocumentsClient {
	return &HTTPDocumentsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPDocumentsClient) FetchDocuments(ctx context.Context) ([]VendorDocument, error) {
	var docs []VendorDocument
	path := "/internal/vendors/" + url.PathEscape(requestcontext.UserID(ctx)) + "/documents"
	if err := getJSON(ctx, c.client, c.baseURL+path, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// MockDocumentsClient serves a mutable in-memory document collection for
// development and tests. Set a new collection to simulate the verifier
// advancing statuses between polling ticks.
type MockDocumentsClient struct {
	Latency time.Duration

	mu        sync.Mutex
	documents []VendorDocument
	err       error
}

func NewMockDocumentsClient(initial []VendorDocument) *MockDocumentsClient {
	return &MockDocumentsClient{documents: initial}
}

func (c *MockDocumentsClient) FetchDocuments(_ context.Context) ([]VendorDocument, error) {
	time.Sleep(c.Latency)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	out := make([]VendorDocument, len(c.documents))
	copy(out, c.documents)
	return out, nil
}

// SetDocuments replaces the collection returned by subsequent fetches.
func (c *MockDocumentsClient) SetDocuments(docs []VendorDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents = docs
}

// SetError makes subsequent fetches fail until cleared with a nil error.
func (c *MockDocumentsClient) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}
