package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"protrack/service"
	"protrack/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 2024-06-15 12:00 IST
var testNow = time.Date(2024, 6, 15, 6, 30, 0, 0, time.UTC)

var ist = time.FixedZone("IST", 5*3600+1800)

const (
	testUserID uint = 1
	testEmail       = "user@example.com"
)

type testResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []service.BudgetAlert
}

func (r *recordingNotifier) NotifyBudget(_ context.Context, alert service.BudgetAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return nil
}

func setUserMiddleware(userID uint, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", email)
		c.Next()
	}
}

func setupTracker(t *testing.T) (*service.Tracker, *store.MemoryStore, *recordingNotifier) {
	t.Helper()
	s := store.NewMemoryStore()
	n := &recordingNotifier{}
	tr := service.NewTracker(s, service.TrackerOptions{
		Location: ist,
		Notifier: n,
		Now:      func() time.Time { return testNow },
	})
	return tr, s, n
}

func newUserRouter() *gin.Engine {
	router := gin.New()
	router.Use(setUserMiddleware(testUserID, testEmail))
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return doAuthed(router, method, path, body, "")
}

func doAuthed(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
