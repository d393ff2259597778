package poller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource(t *testing.T) {
	var logins int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "breadbread" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		n := atomic.AddInt32(&logins, 1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "token": "token-" + string(rune('0'+n))})
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		// The first token is treated as expired.
		if r.Header.Get("Authorization") != "Bearer token-2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Token expired"}`))
			return
		}
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id":9,"customer_name":"Jane","total":15,"status":"pending"},{"id":8,"customer_name":"Ana","total":4.5,"status":"confirmed"}]`))
	})
	mux.HandleFunc("/api/orders/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_orders":2,"total_revenue":34.5,"manual_revenue":15,"pending":1,"confirmed":1,"completed":0,"cancelled":0,"today_orders":2,"today_revenue":19.5}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewHTTPSource(server.URL+"/", "admin", "breadbread")

	orders, err := source.ListOrders(t.Context(), 25)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, uint(9), orders[0].ID)
	assert.Equal(t, "15.00", orders[0].Total.StringFixed(2))
	assert.Equal(t, int32(2), atomic.LoadInt32(&logins))

	stats, err := source.GetStats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, "34.50", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, int32(2), atomic.LoadInt32(&logins))
}

func TestHTTPSource_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, "admin", "wrong")
	_, err := source.ListOrders(t.Context(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}
