package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"ftm/src/config"
	"ftm/src/db"
	"ftm/src/middlewares"
	"ftm/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
}

// stubAuth stands in for the real auth middleware so route-level policy
// can be exercised without a token or a database.
func stubAuth(role types.Role, tier types.SubscriptionTier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("id", uint(1))
		ctx.Set("email", "someone@example.com")
		ctx.Set("uid", "test-uid")
		ctx.Set("role", string(role))
		ctx.Set("tier", string(tier))
	}
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", bookableDateValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestTruckRoutes() {
	s.Run("Should reject truck creation for a non-owner role", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_USER, types.TIER_FREE))
		truckHandlers(apiv1)

		w := postJSON(router, "/api/v1/trucks", types.CreateTruckRequestBody{
			Name:    "Taco Cart",
			Cuisine: "mexican",
		})
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("Should return 400 for a truck with no cuisine", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_TRUCK_OWNER, types.TIER_PRO))
		truckHandlers(apiv1)

		w := postJSON(router, "/api/v1/trucks", map[string]any{
			"name": "Taco Cart",
		})
		assert.Equal(s.T(), 400, w.Code)

		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.NotEmpty(s.T(), errMsg)
	})
}

func (s *TestSuite) TestEventRoutes() {
	s.Run("Should reject event creation for a non-organizer role", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_TRUCK_OWNER, types.TIER_FREE))
		eventHandlers(apiv1)

		w := postJSON(router, "/api/v1/events", types.CreateEventRequestBody{
			Title:    "Summer Fest",
			Location: "Civic Plaza",
			Date:     time.Now().Add(48 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		})
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("Should return 400 for an event dated in the past", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_EVENT_ORGANIZER, types.TIER_FREE))
		eventHandlers(apiv1)

		w := postJSON(router, "/api/v1/events", types.CreateEventRequestBody{
			Title:    "Summer Fest",
			Location: "Civic Plaza",
			Date:     time.Now().Add(-48 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		})
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestBookingRoutes() {
	s.Run("Should reject booking creation for a non-owner role", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_EVENT_ORGANIZER, types.TIER_FREE))
		bookingHandlers(apiv1)

		w := postJSON(router, "/api/v1/bookings", types.CreateBookingRequestBody{
			TruckID: 1,
			EventID: 1,
		})
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("Should return 400 for a booking with no event", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_TRUCK_OWNER, types.TIER_FREE))
		bookingHandlers(apiv1)

		w := postJSON(router, "/api/v1/bookings", map[string]any{
			"truck_id": 1,
		})
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestInviteTierGate() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(types.ROLE_EVENT_ORGANIZER, types.TIER_FREE))
	inviteHandlers(apiv1)

	w := postJSON(router, "/api/v1/invites", types.CreateInviteRequestBody{
		EventID: 1,
		TruckID: 1,
	})
	assert.Equal(s.T(), 403, w.Code)

	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	errMsg := gjson.Get(string(rbytes), "error").String()
	assert.Contains(s.T(), errMsg, "paid plan")
}

func (s *TestSuite) TestSubscriptionCheckout() {
	s.Run("Should refuse checkout for the free tier", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_TRUCK_OWNER, types.TIER_FREE))
		subscriptionHandlers(apiv1)

		w := postJSON(router, "/api/v1/subscription/checkout", types.CheckoutSessionRequestBody{
			Tier: types.TIER_FREE,
		})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should refuse checkout for an unknown tier", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_TRUCK_OWNER, types.TIER_FREE))
		subscriptionHandlers(apiv1)

		w := postJSON(router, "/api/v1/subscription/checkout", map[string]any{
			"tier": "platinum",
		})
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestProfileRoleImmutable() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(types.ROLE_TRUCK_OWNER, types.TIER_FREE))
	profileHandlers(apiv1)

	role := types.ROLE_EVENT_ORGANIZER
	b, _ := json.Marshal(types.UpdateProfileRequestBody{Role: &role})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/v1/profile", strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 403, w.Code)
}

func (s *TestSuite) TestWebhookRejectsGarbage() {
	os.Unsetenv("STRIPE_WEBHOOK_SECRET")

	for _, path := range []string{"/api/v1/webhook/stripe", "/api/v1/subscription/webhook"} {
		router := setupRouter()
		stripeWebhookRoute(router)
		subscriptionWebhookRoute(router)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", path, strings.NewReader("not json"))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code, fmt.Sprintf("expected 400 from %s", path))
	}
}

func (s *TestSuite) TestAuthHeaderMalformed() {
	s.Run("Should return 401 for a bare Bearer header", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(middlewares.AuthMiddleware)
		truckHandlers(apiv1)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/trucks/owned", nil)
		req.Header.Set("Authorization", "Bearer")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("Should return 401 for a Bearer header with an empty token", func() {
		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(middlewares.AuthMiddleware)
		truckHandlers(apiv1)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/trucks/owned", nil)
		req.Header.Set("Authorization", "Bearer ")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestPaymentIntentGuards() {
	s.Run("Should refuse a deposit for a booking that is still pending", func() {
		d, mock := NewMockDB()
		db.NewDB(d)

		mock.ExpectQuery(`SELECT \* FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "truck_id", "event_id", "status", "payment_status"}).
				AddRow(5, 3, 2, "pending", "unpaid"))
		mock.ExpectQuery(`SELECT \* FROM "events"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organizer_id"}).
				AddRow(2, 1))

		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_EVENT_ORGANIZER, types.TIER_BASIC))
		bookingHandlers(apiv1)

		w := postJSON(router, "/api/v1/bookings/5/payment-intent", nil)
		assert.Equal(s.T(), 400, w.Code)

		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Contains(s.T(), errMsg, "accepted booking")
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})

	s.Run("Should refuse a second deposit once the first has settled", func() {
		d, mock := NewMockDB()
		db.NewDB(d)

		mock.ExpectQuery(`SELECT \* FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "truck_id", "event_id", "status", "payment_status"}).
				AddRow(5, 3, 2, "accepted", "paid"))
		mock.ExpectQuery(`SELECT \* FROM "events"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organizer_id"}).
				AddRow(2, 1))

		router := setupRouter()
		apiv1 := apiv1Group(router)
		apiv1.Use(stubAuth(types.ROLE_EVENT_ORGANIZER, types.TIER_BASIC))
		bookingHandlers(apiv1)

		w := postJSON(router, "/api/v1/bookings/5/payment-intent", nil)
		assert.Equal(s.T(), 400, w.Code)

		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Contains(s.T(), errMsg, "already been paid")
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})
}

func (s *TestSuite) TestDuplicateFavorite() {
	d, mock := NewMockDB()
	db.NewDB(d)

	mock.ExpectQuery(`SELECT \* FROM "trucks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}).
			AddRow(9, 2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "favorites"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).
			AddRow(1))

	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(types.ROLE_USER, types.TIER_FREE))
	favoriteHandlers(apiv1)

	w := postJSON(router, "/api/v1/favorites", types.CreateFavoriteRequestBody{
		TruckID: 9,
	})
	assert.Equal(s.T(), 400, w.Code)

	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	errMsg := gjson.Get(string(rbytes), "error").String()
	assert.Contains(s.T(), errMsg, "already in your favorites")
	assert.Nil(s.T(), mock.ExpectationsWereMet())
}

func (s *TestSuite) TestFreeTierActivationIdempotent() {
	d, mock := NewMockDB()
	db.NewDB(d)

	// An already-active free subscription is returned as-is; no write
	// is issued inside the transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tier", "status"}).
			AddRow(1, 1, "free", "active"))
	mock.ExpectCommit()

	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(types.ROLE_TRUCK_OWNER, types.TIER_FREE))
	subscriptionHandlers(apiv1)

	w := postJSON(router, "/api/v1/subscription/free", nil)
	assert.Equal(s.T(), 200, w.Code)

	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "free", gjson.Get(string(rbytes), "data.tier").String())
	assert.Nil(s.T(), mock.ExpectationsWereMet())
}

func (s *TestSuite) TestWebhookMarksDepositPaid() {
	os.Unsetenv("STRIPE_WEBHOOK_SECRET")
	os.Unsetenv("REDIS_HOST")

	d, mock := NewMockDB()
	db.NewDB(d)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "truck_id", "event_id", "status", "payment_status"}).
			AddRow(5, 3, 2, "accepted", "pending"))
	// Only the payment columns may be written; a booking lifecycle
	// update would not match and fails the mock.
	mock.ExpectExec(`UPDATE "bookings" SET "payment_(status|intent_id)"=\$1,"payment_(status|intent_id)"=\$2,"updated_at"=\$3 WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := setupRouter()
	stripeWebhookRoute(router)

	payload := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123","metadata":{"booking_id":"5"}}}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/webhook/stripe", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 204, w.Code)
	assert.Nil(s.T(), mock.ExpectationsWereMet())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
