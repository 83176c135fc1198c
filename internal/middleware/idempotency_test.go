package middleware_test

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func idempotentRouter(t *testing.T, calls *int) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rdb, mock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/leaves", func(c *gin.Context) { c.Set("employee_id", "emp-1") }, middleware.Idempotency(rdb), func(c *gin.Context) {
		var req map[string]any
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		*calls++
		c.JSON(http.StatusCreated, gin.H{"id": "leave-1"})
	})
	return r, mock
}

func fingerprintOf(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

func postWithKey(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
	if key != "" {
		req.Header.Set(middleware.IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	const (
		cacheKey = "idemp:emp-1:/leaves:k1"
		annual   = `{"leave_type":"ANNUAL","start_date":"2025-03-03","end_date":"2025-03-04"}`
		medical  = `{"leave_type":"MEDICAL","start_date":"2025-03-03","end_date":"2025-03-04"}`
	)
	stored := `{"status":201,"body":{"id":"leave-1"},"fingerprint":"` + fingerprintOf(annual) + `"}`

	t.Run("first request runs and is stored", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "1", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(stored), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(cacheKey + ":lock").SetVal(1)

		w := postWithKey(r, "k1", annual)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay returns stored response", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)
		mock.ExpectGet(cacheKey).SetVal(stored)

		w := postWithKey(r, "k1", annual)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":"leave-1"}`, w.Body.String())
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replay"))
		assert.Zero(t, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("same key with a different body is rejected", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)
		mock.ExpectGet(cacheKey).SetVal(stored)

		w := postWithKey(r, "k1", medical)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "IDEMPOTENCY_KEY_REUSED")
		assert.Empty(t, w.Header().Get("Idempotent-Replay"))
		assert.Zero(t, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("handler still reads the body", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)
		mock.ExpectGet("idemp:emp-1:/leaves:k2").RedisNil()
		mock.ExpectSetNX("idemp:emp-1:/leaves:k2:lock", "1", 30*time.Second).SetVal(true)
		mock.ExpectSet("idemp:emp-1:/leaves:k2",
			[]byte(`{"status":201,"body":{"id":"leave-1"},"fingerprint":"`+fingerprintOf(medical)+`"}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel("idemp:emp-1:/leaves:k2:lock").SetVal(1)

		w := postWithKey(r, "k2", medical)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "1", 30*time.Second).SetVal(false)

		w := postWithKey(r, "k1", annual)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Zero(t, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no key passes through", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)

		w := postWithKey(r, "", annual)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
