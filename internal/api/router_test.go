package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/app"
	iauth "github.com/farmtrack/farmtrack/internal/auth"
	testutil "github.com/farmtrack/farmtrack/internal/database/testutil"
	"github.com/farmtrack/farmtrack/internal/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "test",
		AccessTokenTTL: 15 * time.Minute,
	})
	require.NoError(t, err)

	alerts, err := services.NewInventoryAlertService(db, services.InventoryAlertConfig{})
	require.NoError(t, err)

	cfg := &app.Config{}
	cfg.Monitoring.Health.Enabled = true
	cfg.Monitoring.Prometheus.Enabled = true

	router, err := NewRouter(db, jwtSvc, cfg, alerts, nil)
	require.NoError(t, err)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "super-secret-pw",
		"name":     "Router",
		"surname":  "Test",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "super-secret-pw",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data struct {
			Token struct {
				AccessToken string `json:"access_token"`
			} `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token.AccessToken)
	return envelope.Data.Token.AccessToken
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/api/auth/me", "/api/animals", "/api/drugs", "/api/treatments", "/api/notifications"} {
		w = doJSON(t, router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouterAuthFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "flow@farm.example")

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "flow@farm.example")

	// Wrong password is rejected without detail
	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "flow@farm.example",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterInventoryFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "inventory@farm.example")

	// Create a drug that is both low on stock and expiring soon.
	w := doJSON(t, router, http.MethodPost, "/api/drugs", token, gin.H{
		"name":                "Amoxicillin",
		"quantity":            2,
		"minimum_stock_level": 5,
		"expiration_date":     time.Now().AddDate(0, 0, 10).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	// Filter views see it.
	w = doJSON(t, router, http.MethodGet, "/api/drugs/low-stock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Amoxicillin")

	w = doJSON(t, router, http.MethodGet, "/api/drugs/expiring?days=30", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Amoxicillin")

	// An on-demand sweep creates both alerts, once.
	w = doJSON(t, router, http.MethodPost, "/api/notifications/check-drug-notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/notifications/check-drug-notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var inbox struct {
		Data []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	require.Len(t, inbox.Data, 2)

	// Mark one read, then all.
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/notifications/mark-read/%s", inbox.Data[0].ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/notifications/mark-all-read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/notifications/unread", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var unread struct {
		Data []any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unread))
	require.Empty(t, unread.Data)
}

func TestRouterManualCheckIsBestEffort(t *testing.T) {
	router, db := newTestRouter(t)
	token := registerAndLogin(t, router, "besteffort@farm.example")

	w := doJSON(t, router, http.MethodPost, "/api/drugs", token, gin.H{
		"name":                "Ivermectin",
		"quantity":            1,
		"minimum_stock_level": 5,
		"expiration_date":     time.Now().AddDate(0, 0, 5).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Break the notification store so every emission fails.
	require.NoError(t, db.Exec("DROP TABLE notifications").Error)

	w = doJSON(t, router, http.MethodPost, "/api/notifications/check-drug-notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouterHerdFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "herd@farm.example")

	w := doJSON(t, router, http.MethodPost, "/api/animals", token, gin.H{
		"name":          "Bella",
		"species":       "Cow",
		"age_years":     2,
		"age_months":    3,
		"weight":        540,
		"health_status": "Healthy",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/animals/%s/weight", created.Data.ID), token, gin.H{"weight": 550.5})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/treatments", token, gin.H{
		"animal_id": created.Data.ID,
		"type":      "Vaccine",
		"date":      time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/treatments/animal/%s", created.Data.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Vaccine")

	// Missing and foreign resources both read as 404.
	w = doJSON(t, router, http.MethodGet, "/api/animals/does-not-exist", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
