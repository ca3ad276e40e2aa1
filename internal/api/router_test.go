package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/lokokit/locomotion-backend-go/internal/config"
	"github.com/lokokit/locomotion-backend-go/internal/database"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{Port: ":0", JWTSecret: testSecret}
	return SetupRouter(cfg, db)
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "fusion-engine",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestIngestRequiresAuth(t *testing.T) {
	r := newTestRouter(t)
	batch := map[string]interface{}{"movingState": "unknown", "recordingState": "recording"}

	w := postJSON(t, r, "/api/v1/samples", batch, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/api/v1/samples", batch, "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/api/v1/samples", batch, bearerToken(t))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestIngestAndQuerySamples(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t)

	batch := map[string]interface{}{
		"representativeLocation": map[string]interface{}{
			"coordinate":         map[string]float64{"latitude": 10, "longitude": 20},
			"timestamp":          time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
			"horizontalAccuracy": 5,
		},
		"movingState":    "moving",
		"recordingState": "recording",
		"course":         90,
		"speed":          2,
	}

	w := postJSON(t, r, "/api/v1/samples", batch, token)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Data struct {
			ID                     string `json:"id"`
			RepresentativeLocation struct {
				Course *float64 `json:"course"`
				Speed  *float64 `json:"speed"`
			} `json:"representativeLocation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	require.NotNil(t, created.Data.RepresentativeLocation.Course)
	require.Equal(t, 90.0, *created.Data.RepresentativeLocation.Course)
	require.Equal(t, 2.0, *created.Data.RepresentativeLocation.Speed)

	// Queries are open, no token needed
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/samples?movingState=moving", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.EqualValues(t, 1, listed.Data.Total)
}

func TestClassifierAttachIsWriteOnce(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t)

	w := postJSON(t, r, "/api/v1/samples",
		map[string]interface{}{"movingState": "unknown", "recordingState": "recording"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	results := []map[string]interface{}{
		{"activityType": "walking", "score": 0.9},
		{"activityType": "cycling", "score": 0.1},
	}
	path := "/api/v1/samples/" + created.Data.ID + "/classifier-results"

	w = postJSON(t, r, path, results, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, path, results, token)
	require.Equal(t, http.StatusConflict, w.Code)
}
