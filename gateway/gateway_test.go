package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/config"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/metrics"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/repository"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC)

type GatewayTestSuite struct {
	suite.Suite
	handler http.Handler
	token   string
}

func (s *GatewayTestSuite) SetupTest() {
	t := s.T()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5500"}

	db, err := repository.Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	loc, err := cfg.Business.Location()
	require.NoError(t, err)

	logger := zap.NewNop()
	reg := metrics.NewRegistry()
	clock := func() time.Time { return fixedNow }

	authService := service.NewAuthService(service.AuthServiceProperty{
		Logger:          logger,
		AdminRepository: repository.NewAdminRepository(logger, db),
		JWTSecret:       "gateway-secret",
		JWTExpire:       time.Hour,
	})
	require.NoError(t, authService.EnsureDefaultAdmin(t.Context(), "admin", "breadbread"))

	g := NewGateway(GatewayProperty{
		Config:  cfg,
		Logger:  logger,
		Metrics: reg,
		OrderService: service.NewOrderService(service.OrderServiceProperty{
			Logger:          logger,
			OrderRepository: repository.NewOrderRepository(logger, db),
			RevenueLedger:   repository.NewRevenueLedger(logger, db),
			Metrics:         reg,
			Clock:           clock,
			Location:        loc,
		}),
		ContentService: service.NewContentService(service.ContentServiceProperty{
			Logger:            logger,
			ContentRepository: repository.NewContentRepository(logger, db),
		}),
		AuthService: authService,
		Clock:       clock,
	})
	g.SetupRoutes()
	s.handler = g.Handler()

	rec := s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "breadbread"}, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var login service.LoginResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &login))
	s.token = login.Token
}

func (s *GatewayTestSuite) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *GatewayTestSuite) staff(method, path string, body interface{}) *httptest.ResponseRecorder {
	return s.do(method, path, body, s.token)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func janeOrder() map[string]interface{} {
	return map[string]interface{}{
		"customerName":  "Jane",
		"customerPhone": "555-1111",
		"items":         "2x Señorita Bread",
		"total":         15.00,
	}
}

func (s *GatewayTestSuite) placeOrder() float64 {
	rec := s.do(http.MethodPost, "/api/orders", janeOrder(), "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	return decode(s.T(), rec)["orderId"].(float64)
}

func (s *GatewayTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/api/health", nil, "")
	s.Equal(http.StatusOK, rec.Code)

	body := decode(s.T(), rec)
	s.Equal("ok", body["status"])
	s.Equal("2026-03-14T17:00:00Z", body["timestamp"])
	s.Equal(map[string]interface{}{"orders": true, "emailNotifications": false}, body["features"])
	s.NotEmpty(rec.Header().Get(requestIDHeader))
}

func (s *GatewayTestSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/api/nothing-here", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Route not found", decode(s.T(), rec)["error"])
}

func (s *GatewayTestSuite) TestScenarioA() {
	rec := s.do(http.MethodPost, "/api/orders", janeOrder(), "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	body := decode(s.T(), rec)
	s.Equal(true, body["success"])
	s.IsType(float64(0), body["orderId"])

	rec = s.staff(http.MethodGet, "/api/orders/stats", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	stats := decode(s.T(), rec)
	s.Equal(float64(1), stats["pending"])
	s.Equal(float64(1), stats["today_orders"])
	s.Equal(15.0, stats["today_revenue"])
	s.Equal(15.0, stats["total_revenue"])
	s.Equal(0.0, stats["manual_revenue"])
}

func (s *GatewayTestSuite) TestPlaceOrder_MissingFields() {
	order := janeOrder()
	delete(order, "customerPhone")

	rec := s.do(http.MethodPost, "/api/orders", order, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(missingOrderFields, decode(s.T(), rec)["error"])

	order = janeOrder()
	order["total"] = 0
	rec = s.do(http.MethodPost, "/api/orders", order, "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *GatewayTestSuite) TestStaffRoutesRequireToken() {
	for _, path := range []string{"/api/orders", "/api/orders/stats", "/api/orders/1", "/api/auth/verify"} {
		rec := s.do(http.MethodGet, path, nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code, path)
	}

	rec := s.do(http.MethodGet, "/api/orders", nil, "garbage")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.staff(http.MethodGet, "/api/auth/verify", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, decode(s.T(), rec)["valid"])
}

func (s *GatewayTestSuite) TestOrderLifecycle() {
	first := s.placeOrder()
	second := s.placeOrder()

	rec := s.staff(http.MethodGet, "/api/orders?status=all&limit=10", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var orders []map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &orders))
	s.Require().Len(orders, 2)
	s.Equal(second, orders[0]["id"])

	rec = s.staff(http.MethodPut, "/api/orders/"+idPath(first), map[string]string{"status": "bogus"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.staff(http.MethodPut, "/api/orders/"+idPath(first), map[string]string{"status": "confirmed", "notes": "call back"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(s.T(), rec)
	s.Equal("confirmed", updated["status"])
	s.Equal("call back", updated["notes"])

	rec = s.staff(http.MethodPut, "/api/orders/9999", map[string]string{"status": "confirmed"})
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.staff(http.MethodGet, "/api/orders/"+idPath(first)+"/audit", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", rec.Body.String())

	rec = s.staff(http.MethodGet, "/api/orders/"+idPath(first)+"/audit?limit=-1", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.staff(http.MethodDelete, "/api/orders/"+idPath(second), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(true, decode(s.T(), rec)["success"])

	rec = s.staff(http.MethodDelete, "/api/orders/"+idPath(second), nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Order not found", decode(s.T(), rec)["error"])

	rec = s.staff(http.MethodGet, "/api/orders/abc", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *GatewayTestSuite) TestAdjustRevenue_ScenarioB() {
	for _, amount := range []int{5, 10} {
		rec := s.staff(http.MethodPost, "/api/orders/adjust-revenue", map[string]interface{}{"action": "add", "amount": amount})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := s.staff(http.MethodGet, "/api/orders/stats", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(15.0, decode(s.T(), rec)["manual_revenue"])

	rec = s.staff(http.MethodPost, "/api/orders/adjust-revenue", map[string]interface{}{"action": "set"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Amount is required", decode(s.T(), rec)["error"])

	rec = s.staff(http.MethodPost, "/api/orders/adjust-revenue", map[string]interface{}{"action": "reset"})
	s.Require().Equal(http.StatusOK, rec.Code)
	body := decode(s.T(), rec)
	s.Equal(true, body["success"])
	s.Equal(0.0, body["manual_revenue"])
}

func (s *GatewayTestSuite) TestContent() {
	rec := s.staff(http.MethodPost, "/api/content", map[string]string{"key": "hero_title", "value": "Señorita"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/content/hero_title", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Señorita", decode(s.T(), rec)["value"])

	rec = s.staff(http.MethodPost, "/api/content", map[string]string{"key": "manual_revenue", "value": "100"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/content", map[string]string{"key": "hero_title", "value": "x"}, "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.staff(http.MethodPost, "/api/content/batch", map[string]interface{}{"updates": map[string]string{"phone": "555", "hours": "6am"}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(float64(2), decode(s.T(), rec)["updated"])

	rec = s.do(http.MethodGet, "/api/content", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	content := decode(s.T(), rec)["content"].(map[string]interface{})
	s.Len(content, 3)

	rec = s.staff(http.MethodDelete, "/api/content/phone", nil)
	s.Equal(http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/content/phone", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *GatewayTestSuite) TestChangePassword() {
	rec := s.staff(http.MethodPost, "/api/auth/change-password", map[string]string{"currentPassword": "breadbread", "newPassword": "abc"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.staff(http.MethodPost, "/api/auth/change-password", map[string]string{"currentPassword": "breadbread", "newPassword": "conchas"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "conchas"}, "")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *GatewayTestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Equal("http://localhost:5500", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *GatewayTestSuite) TestMetrics() {
	s.placeOrder()

	rec := s.do(http.MethodGet, "/metrics", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.True(strings.Contains(rec.Body.String(), "freshbread_orders_placed_total 1"))
	s.True(strings.Contains(rec.Body.String(), `freshbread_http_requests_total{code="200",method="POST",route="/api/orders"} 1`))
}

func idPath(id float64) string {
	return strconv.FormatFloat(id, 'f', 0, 64)
}

func TestGatewayTestSuite(t *testing.T) {
	suite.Run(t, new(GatewayTestSuite))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "abc", bearerToken("abc"))
	assert.Equal(t, "", bearerToken(""))
}
