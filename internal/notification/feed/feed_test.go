package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"complimart/internal/notification"
	"complimart/internal/notification/dispatcher"
	"complimart/internal/notification/signal"
	"complimart/internal/notification/store"
	"complimart/internal/vendorapi"
	"complimart/internal/vendorapi/mocks"
	id "complimart/pkg/domain"
	"complimart/pkg/requestcontext"
)

type FeedSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *store.InMemory
	refresh   *signal.Refresh
	profiles  *mocks.MockProfileClient
	documents *mocks.MockDocumentsClient
	svc       *Service
	refreshed int
}

func (s *FeedSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.refresh = signal.New()
	s.refreshed = 0
	s.refresh.Register(func() { s.refreshed++ })
	s.profiles = mocks.NewMockProfileClient(s.ctrl)
	s.documents = mocks.NewMockDocumentsClient(s.ctrl)

	disp := dispatcher.New(s.store, s.refresh)
	s.svc = New(s.store, disp, s.profiles, s.documents, s.refresh)
}

func TestFeedSuite(t *testing.T) {
	suite.Run(t, new(FeedSuite))
}

func (s *FeedSuite) sessionCtx(userID string, role id.Role) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), userID)
	return requestcontext.WithRole(ctx, role)
}

func (s *FeedSuite) vendorCtx() context.Context {
	return s.sessionCtx("vendor@x", id.RoleVendor)
}

// seed writes a notification directly, bypassing bootstrap.
func (s *FeedSuite) seed(ctx context.Context, priority notification.Priority, at time.Time, nID string) {
	owner := requestcontext.UserID(ctx)
	state, err := s.store.Load(ctx, owner)
	s.Require().NoError(err)
	state.Notifications = append([]notification.Notification{{
		ID:            nID,
		Timestamp:     at,
		Priority:      priority,
		Kind:          notification.KindInfo,
		TargetRole:    requestcontext.Role(ctx),
		OwnerIdentity: owner,
		Message:       "seeded " + nID,
	}}, state.Notifications...)
	state.Generated = true
	s.Require().NoError(s.store.Save(ctx, owner, state))
}

// TestOrdering verifies priority-descending order with newest-first ties.
func (s *FeedSuite) TestOrdering() {
	ctx := s.vendorCtx()
	t1 := time.UnixMilli(1700000001000)
	s.seed(ctx, notification.PriorityLow, t1, "low@t1")
	s.seed(ctx, notification.PriorityHigh, t1.Add(time.Second), "high@t2")
	s.seed(ctx, notification.PriorityMedium, t1.Add(2*time.Second), "medium@t3")
	s.seed(ctx, notification.PriorityHigh, t1.Add(3*time.Second), "high@t4")

	feed, err := s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	s.Require().Len(feed, 4)
	s.Equal("high@t4", feed[0].ID)
	s.Equal("high@t2", feed[1].ID)
	s.Equal("medium@t3", feed[2].ID)
	s.Equal("low@t1", feed[3].ID)
}

// TestIdentityIsolation verifies one identity's notifications never surface
// for another on the same store.
func (s *FeedSuite) TestIdentityIsolation() {
	vendorCtx := s.vendorCtx()
	s.seed(vendorCtx, notification.PriorityHigh, time.Now(), "vendor-only")

	buyerCtx := s.sessionCtx("buyer@y", id.RoleBuyer)
	feed, err := s.svc.ComputeFeed(buyerCtx)
	s.Require().NoError(err)
	s.Empty(feed)
}

// TestAcknowledgeIdempotence verifies a double acknowledgement equals a single
// one and the record is physically removed.
func (s *FeedSuite) TestAcknowledgeIdempotence() {
	ctx := s.vendorCtx()
	s.seed(ctx, notification.PriorityLow, time.Now(), "n1")

	s.Require().NoError(s.svc.Acknowledge(ctx, "n1"))
	s.Require().NoError(s.svc.Acknowledge(ctx, "n1"))

	feed, err := s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	s.Empty(feed)

	state, err := s.store.Load(ctx, "vendor@x")
	s.Require().NoError(err)
	s.Empty(state.Notifications, "acknowledged record must be physically removed")
	s.Equal([]string{"n1"}, state.DismissedIDs)
}

// TestAcknowledgeAllTotality verifies a cleared feed regardless of prior size,
// with the bootstrap flag preserved.
func (s *FeedSuite) TestAcknowledgeAllTotality() {
	ctx := s.vendorCtx()
	now := time.Now()
	for i, nID := range []string{"a", "b", "c"} {
		s.seed(ctx, notification.PriorityMedium, now.Add(time.Duration(i)*time.Second), nID)
	}

	s.Require().NoError(s.svc.AcknowledgeAll(ctx))

	feed, err := s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	s.Empty(feed)

	state, err := s.store.Load(ctx, "vendor@x")
	s.Require().NoError(err)
	s.True(state.Generated, "acknowledge-all must not trigger a re-bootstrap")
}

// TestBootstrapAtMostOnce verifies the one-time batch runs on the first read
// and never again until reset.
func (s *FeedSuite) TestBootstrapAtMostOnce() {
	ctx := s.vendorCtx()
	s.profiles.EXPECT().FetchProfile(gomock.Any()).Return(
		vendorapi.VendorProfile{OverallComplianceScore: 30}, nil).Times(1)
	s.documents.EXPECT().FetchDocuments(gomock.Any()).Return(
		[]vendorapi.VendorDocument{
			{ID: "d1", Name: "Fire NOC", UploadedDocuments: []vendorapi.UploadedDocument{
				{VerificationStatus: vendorapi.StatusRejected, UploadedAt: time.Now()},
			}},
			{ID: "d2", Name: "Tax Certificate", UploadedDocuments: []vendorapi.UploadedDocument{
				{VerificationStatus: vendorapi.StatusPending, UploadedAt: time.Now()},
			}},
		}, nil).Times(1)

	first, err := s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	// Low score + rejected doc + pending doc; score is not high.
	s.Len(first, 3)

	second, err := s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	s.Len(second, 3, "second read must not duplicate the bootstrap batch")
}

// TestBootstrapSkippedForBuyers verifies bootstrap is vendor-only.
func (s *FeedSuite) TestBootstrapSkippedForBuyers() {
	ctx := s.sessionCtx("buyer@y", id.RoleBuyer)

	feed, err := s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	s.Empty(feed)

	state, err := s.store.Load(ctx, "buyer@y")
	s.Require().NoError(err)
	s.False(state.Generated)
}

// TestBootstrapFetchFailureDefers verifies a collaborator failure leaves the
// flag unset so a later read retries.
func (s *FeedSuite) TestBootstrapFetchFailureDefers() {
	ctx := s.vendorCtx()
	s.profiles.EXPECT().FetchProfile(gomock.Any()).Return(
		vendorapi.VendorProfile{}, errors.New("upstream down")).Times(1)
	s.documents.EXPECT().FetchDocuments(gomock.Any()).Return(nil, nil).MaxTimes(1)

	feed, err := s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	s.Empty(feed)

	// Retry succeeds and generates.
	s.profiles.EXPECT().FetchProfile(gomock.Any()).Return(
		vendorapi.VendorProfile{OverallComplianceScore: 90}, nil).Times(1)
	s.documents.EXPECT().FetchDocuments(gomock.Any()).Return(nil, nil).Times(1)

	feed, err = s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	s.Len(feed, 1)
	s.Equal(notification.KindSuccess, feed[0].Kind)
}

// TestResetThenNewIdentity verifies the logout/login scenario: vendor resets,
// buyer on the same device sees an empty feed and no vendor bootstrap.
func (s *FeedSuite) TestResetThenNewIdentity() {
	vendorCtx := s.vendorCtx()
	s.seed(vendorCtx, notification.PriorityHigh, time.Now(), "vendor-n1")

	s.Require().NoError(s.svc.ResetIdentity(vendorCtx))

	state, err := s.store.Load(vendorCtx, "vendor@x")
	s.Require().NoError(err)
	s.False(state.Generated, "reset must force the next login to re-bootstrap")

	buyerCtx := s.sessionCtx("buyer@y", id.RoleBuyer)
	feed, err := s.svc.ComputeFeed(buyerCtx)
	s.Require().NoError(err)
	s.Empty(feed)
}

// TestManualRefreshReBootstraps verifies the refresh path clears only the
// bootstrap flag.
func (s *FeedSuite) TestManualRefreshReBootstraps() {
	ctx := s.vendorCtx()
	s.profiles.EXPECT().FetchProfile(gomock.Any()).Return(
		vendorapi.VendorProfile{OverallComplianceScore: 90}, nil).Times(1)
	s.documents.EXPECT().FetchDocuments(gomock.Any()).Return(nil, nil).Times(1)

	feed, err := s.svc.ComputeFeed(ctx)
	s.Require().NoError(err)
	s.Require().Len(feed, 1)

	s.Require().NoError(s.svc.RequestManualRefresh(ctx))

	state, err := s.store.Load(ctx, "vendor@x")
	s.Require().NoError(err)
	s.False(state.Generated)
	s.Len(state.Notifications, 1, "manual refresh must not clear notifications")
}

// TestRefreshSignalFires verifies every mutation signals at most once.
func (s *FeedSuite) TestRefreshSignalFires() {
	ctx := s.vendorCtx()
	s.seed(ctx, notification.PriorityLow, time.Now(), "n1")
	s.refreshed = 0

	s.Require().NoError(s.svc.Acknowledge(ctx, "n1"))
	s.Equal(1, s.refreshed)

	s.Require().NoError(s.svc.AcknowledgeAll(ctx))
	s.Equal(2, s.refreshed)

	s.Require().NoError(s.svc.RequestManualRefresh(ctx))
	s.Equal(3, s.refreshed)
}
