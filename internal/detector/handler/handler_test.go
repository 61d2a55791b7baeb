package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	id "complimart/pkg/domain"
	"complimart/pkg/testutil"
)

type fakePoller struct {
	starts int
}

func (p *fakePoller) StartPolling(_ context.Context) { p.starts++ }
func (p *fakePoller) Polling() bool                  { return p.starts > 0 }

type HandlerSuite struct {
	suite.Suite
	poller *fakePoller
	router chi.Router
}

func (s *HandlerSuite) SetupTest() {
	s.poller = &fakePoller{}
	s.router = chi.NewRouter()
	New(s.poller, slog.Default()).Register(s.router)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) TestStartPolling() {
	req := testutil.NewRequest(s.T(), http.MethodPost, "/documents/poll")
	rr := testutil.DoRequest(s.router, testutil.WithSession(req, "vendor@x", id.RoleVendor))

	testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
	s.Equal(1, s.poller.starts)
}

// TestStartPollingIdempotent verifies repeated calls succeed; deduplication is
// the detector's concern.
func (s *HandlerSuite) TestStartPollingIdempotent() {
	for range 2 {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/documents/poll")
		rr := testutil.DoRequest(s.router, testutil.WithSession(req, "vendor@x", id.RoleVendor))
		testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
	}
	s.Equal(2, s.poller.starts)
}
