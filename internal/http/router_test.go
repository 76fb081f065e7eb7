package httpapi_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"eventdesk/internal/attendee"
	attendeehandler "eventdesk/internal/attendee/handler"
	attendeesvc "eventdesk/internal/attendee/service"
	"eventdesk/internal/booth"
	boothhandler "eventdesk/internal/booth/handler"
	boothsvc "eventdesk/internal/booth/service"
	"eventdesk/internal/checkin"
	checkinhandler "eventdesk/internal/checkin/handler"
	checkinsvc "eventdesk/internal/checkin/service"
	"eventdesk/internal/dedupe"
	dedupehandler "eventdesk/internal/dedupe/handler"
	dedupesvc "eventdesk/internal/dedupe/service"
	"eventdesk/internal/entitlement"
	entitlementhandler "eventdesk/internal/entitlement/handler"
	entsvc "eventdesk/internal/entitlement/service"
	httpapi "eventdesk/internal/http"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/middleware/auth"
	"eventdesk/pkg/testutil"
)

const testSigningKey = "router-test-key"

type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

// SetupTest assembles the router over in-memory stores, mirroring the wiring
// in cmd/server.
func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	attendeeMem := attendee.NewInMemoryStore()
	checkinMem := checkin.NewInMemoryStore()
	boothMem := booth.NewInMemoryStore()
	entitlementMem := entitlement.NewInMemoryStore()
	mergeStore := dedupe.NewInMemoryMergeStore(attendeeMem, checkinMem, boothMem)

	attendeeSvc, err := attendeesvc.New(attendeeMem, logger)
	s.Require().NoError(err)
	dedupeSvc, err := dedupesvc.New(attendeeMem, mergeStore, logger)
	s.Require().NoError(err)
	checkinSvc, err := checkinsvc.New(checkinMem, checkinMem, logger)
	s.Require().NoError(err)
	boothSvc, err := boothsvc.New(boothMem, logger)
	s.Require().NoError(err)
	entitlementSvc, err := entsvc.New(entitlementMem, entitlementMem, logger)
	s.Require().NoError(err)

	s.router = httpapi.NewRouter(httpapi.Handlers{
		Attendees:    attendeehandler.New(attendeeSvc, logger),
		Dedupe:       dedupehandler.New(dedupeSvc, logger),
		Checkins:     checkinhandler.New(checkinSvc, logger),
		Booths:       boothhandler.New(boothSvc, logger),
		Entitlements: entitlementhandler.New(entitlementSvc, logger),
	}, auth.NewVerifier(testSigningKey), logger)
}

func (s *RouterSuite) adminToken() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSigningKey))
	s.Require().NoError(err)
	return signed
}

func (s *RouterSuite) TestHealthzIsOpen() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
	require.Equal(s.T(), http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestMetricsIsOpen() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
	require.Equal(s.T(), http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestAdminRoutesRequireToken() {
	eventID := id.NewEventID()

	paths := []string{
		"/events/" + eventID.String() + "/attendees",
		"/events/" + eventID.String() + "/duplicates",
		"/events/" + eventID.String() + "/desk-keys",
		"/events/" + eventID.String() + "/booths/occupancy",
		"/plans",
	}
	for _, path := range paths {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
		s.Equal(http.StatusUnauthorized, rr.Code, "expected 401 for %s", path)
	}
}

func (s *RouterSuite) TestAdminRoundTrip() {
	eventID := id.NewEventID()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/events/"+eventID.String()+"/attendees",
		map[string]any{"name": "Dana Reyes", "email": "dana@example.com"})
	req.Header.Set("Authorization", "Bearer "+s.adminToken())

	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)

	created := testutil.UnmarshalResponse[attendee.Attendee](s.T(), rr)
	s.Equal("Dana Reyes", created.Name)
	s.Equal(eventID, created.EventID)
}

// Scan recording authenticates with a desk key, not an admin token, so the
// route must not sit behind the admin middleware.
func (s *RouterSuite) TestScanRecordingSkipsAdminAuth() {
	eventID := id.NewEventID()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/events/"+eventID.String()+"/checkins",
		map[string]any{
			"attendee_id": id.NewAttendeeID().String(),
			"desk_key_id": id.NewDeskKeyID().String(),
			"desk_key":    "not-a-real-key",
		})

	rr := testutil.DoRequest(s.router, req)
	// Rejected by desk key verification, not by the admin token middleware.
	s.Equal(http.StatusUnauthorized, rr.Code)
	errResp := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("unknown desk key", errResp["error_description"])
}
