package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/models"
	"farmq-backend/internal/testutil"
)

func newApp() *fiber.App {
	cfg := testutil.Config()
	regions := catalog.DefaultRegions()

	app := fiber.New(fiber.Config{ErrorHandler: apierror.Handler})
	app.Post("/api/auth/register", auth.RegisterHandler(regions))
	app.Post("/api/auth/login", auth.LoginHandler(cfg))
	protected := app.Group("/api", auth.JWTMiddleware(cfg))
	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/profile", auth.UpdateProfileHandler(regions))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestRegisterLoginMe(t *testing.T) {
	testutil.SetupDB(t)
	app := newApp()

	status, body := do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": " Farmer@Example.com ", "password": "password123", "first_name": "Ana", "region": "Zambezi",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "farmer@example.com", body["email"])

	status, _ = do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "farmer@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "farmer@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "farmer@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = do(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ana", body["first_name"])
	assert.Equal(t, "Zambezi", body["region"])
}

func TestRegisterValidation(t *testing.T) {
	testutil.SetupDB(t)
	app := newApp()

	status, body := do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@b.c", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "at least 8")

	status, body = do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "a@b.c", "password": "password123", "region": "Atlantis",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unknown region: Atlantis", body["error"])
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	testutil.SetupDB(t)
	app := newApp()

	status, body := do(t, app, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])

	status, _ = do(t, app, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	user := models.User{ID: uuid.New(), Email: "ghost@example.com"}
	expired, err := auth.GenerateToken(testutil.Secret, -time.Minute, &user)
	require.NoError(t, err)
	status, _ = do(t, app, http.MethodGet, "/api/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	other, err := auth.GenerateToken("another-secret-another-secret-1234", time.Hour, &user)
	require.NoError(t, err)
	status, _ = do(t, app, http.MethodGet, "/api/auth/me", other, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUpdateProfile(t *testing.T) {
	testutil.SetupDB(t)
	app := newApp()
	user := testutil.CreateUser(t, "p@example.com")
	token, err := auth.GenerateToken(testutil.Secret, time.Hour, &user)
	require.NoError(t, err)

	status, body := do(t, app, http.MethodPut, "/api/auth/profile", token, map[string]string{"farm_name": "Green Acres", "region": "Oshana"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Green Acres", body["farm_name"])
	assert.Equal(t, "Oshana", body["region"])
	assert.Equal(t, "Test", body["first_name"])

	status, _ = do(t, app, http.MethodPut, "/api/auth/profile", token, map[string]string{"region": "Mars"})
	assert.Equal(t, http.StatusBadRequest, status)
}
