package handler

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"complimart/internal/notification"
	"complimart/internal/notification/dispatcher"
	"complimart/internal/notification/feed"
	"complimart/internal/notification/signal"
	"complimart/internal/notification/store"
	"complimart/internal/vendorapi"
	id "complimart/pkg/domain"
	"complimart/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func (s *HandlerSuite) SetupTest() {
	st := store.NewInMemory()
	refresh := signal.New()
	disp := dispatcher.New(st, refresh)
	svc := feed.New(
		st,
		disp,
		vendorapi.MockProfileClient{Score: 70},
		vendorapi.NewMockDocumentsClient(nil),
		refresh,
	)

	h := New(svc, disp, slog.Default())
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) vendorRequest(method, path string, body any) *http.Request {
	var req *http.Request
	if body != nil {
		req = testutil.NewJSONRequest(s.T(), method, path, body)
	} else {
		req = testutil.NewRequest(s.T(), method, path)
	}
	return testutil.WithSession(req, "vendor@x", id.RoleVendor)
}

func (s *HandlerSuite) TestEmptyFeed() {
	rr := testutil.DoRequest(s.router, s.vendorRequest(http.MethodGet, "/notifications", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[struct {
		Notifications []notification.Notification `json:"notifications"`
		Count         int                         `json:"count"`
	}](s.T(), rr)
	s.Zero(resp.Count)
	s.Empty(resp.Notifications)
}

func (s *HandlerSuite) TestTriggerThenFeed() {
	at := time.UnixMilli(1700000000000)
	req := s.vendorRequest(http.MethodPost, "/notifications/trigger", triggerRequest{
		Action:     "DOCUMENT_REJECTED",
		TargetRole: "vendor",
		Payload:    dispatcher.Payload{DocumentID: "d1", DocumentName: "Fire NOC"},
	})
	rr := testutil.DoRequest(s.router, testutil.WithTime(req, at))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	created := testutil.UnmarshalResponse[triggerResponse](s.T(), rr)
	s.Require().NotNil(created.Notification)
	s.Equal("DOCUMENT_REJECTED_1700000000000", created.Notification.ID)

	rr = testutil.DoRequest(s.router, s.vendorRequest(http.MethodGet, "/notifications", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[feedResponse](s.T(), rr)
	s.Equal(1, resp.Count)
}

// TestTriggerUnknownAction verifies an unrecognized kind is accepted but
// produces nothing.
func (s *HandlerSuite) TestTriggerUnknownAction() {
	rr := testutil.DoRequest(s.router, s.vendorRequest(http.MethodPost, "/notifications/trigger", triggerRequest{
		Action: "DOCUMENT_SHREDDED",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}

// TestTriggerCrossRole verifies a buyer-scoped trigger in a vendor session
// writes nothing.
func (s *HandlerSuite) TestTriggerCrossRole() {
	rr := testutil.DoRequest(s.router, s.vendorRequest(http.MethodPost, "/notifications/trigger", triggerRequest{
		Action:     "ENGAGEMENT_RESPONDED",
		TargetRole: "buyer",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	rr = testutil.DoRequest(s.router, s.vendorRequest(http.MethodGet, "/notifications", nil))
	resp := testutil.UnmarshalResponse[feedResponse](s.T(), rr)
	s.Zero(resp.Count)
}

func (s *HandlerSuite) TestTriggerInvalidRole() {
	rr := testutil.DoRequest(s.router, s.vendorRequest(http.MethodPost, "/notifications/trigger", triggerRequest{
		Action:     "DOCUMENT_UPLOADED",
		TargetRole: "admin",
	}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertErrorCode(s.T(), rr, "invalid_input")
}

func (s *HandlerSuite) TestTriggerMalformedBody() {
	req := testutil.NewRequest(s.T(), http.MethodPost, "/notifications/trigger")
	rr := testutil.DoRequest(s.router, testutil.WithSession(req, "vendor@x", id.RoleVendor))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *HandlerSuite) TestAcknowledge() {
	at := time.UnixMilli(1700000000000)
	req := s.vendorRequest(http.MethodPost, "/notifications/trigger", triggerRequest{
		Action: "DOCUMENT_UPLOADED",
	})
	rr := testutil.DoRequest(s.router, testutil.WithTime(req, at))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[triggerResponse](s.T(), rr)

	rr = testutil.DoRequest(s.router, s.vendorRequest(
		http.MethodPost, "/notifications/"+created.Notification.ID+"/ack", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	rr = testutil.DoRequest(s.router, s.vendorRequest(http.MethodGet, "/notifications", nil))
	resp := testutil.UnmarshalResponse[feedResponse](s.T(), rr)
	s.Zero(resp.Count)
}

func (s *HandlerSuite) TestAcknowledgeAll() {
	for _, action := range []string{"DOCUMENT_UPLOADED", "ENGAGEMENT_CREATED"} {
		rr := testutil.DoRequest(s.router, s.vendorRequest(http.MethodPost, "/notifications/trigger", triggerRequest{
			Action: action,
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	}

	rr := testutil.DoRequest(s.router, s.vendorRequest(http.MethodPost, "/notifications/ack-all", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	rr = testutil.DoRequest(s.router, s.vendorRequest(http.MethodGet, "/notifications", nil))
	resp := testutil.UnmarshalResponse[feedResponse](s.T(), rr)
	s.Zero(resp.Count)
}

func (s *HandlerSuite) TestResetIdentity() {
	rr := testutil.DoRequest(s.router, s.vendorRequest(http.MethodPost, "/notifications/reset", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}

func (s *HandlerSuite) TestManualRefresh() {
	rr := testutil.DoRequest(s.router, s.vendorRequest(http.MethodPost, "/notifications/refresh", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
}
