// Package testutil wires an in-memory database and auth tokens for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/config"
	"farmq-backend/internal/database"
	"farmq-backend/internal/models"
)

const Secret = "test-secret-test-secret-test-secret!"

// Config returns a config suitable for tests; the model service URL is left
// for the caller to fill in.
func Config() *config.Config {
	return &config.Config{
		DatabaseDSN:         "sqlite::memory:",
		JWTSecret:           Secret,
		JWTTTL:              time.Hour,
		ModelServiceTimeout: 2 * time.Second,
		Environment:         "test",
	}
}

// SetupDB points database.DB at a fresh migrated in-memory SQLite database.
func SetupDB(t *testing.T) {
	t.Helper()
	db, err := database.Open("sqlite::memory:", time.Second)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		database.DB = prev
	})
}

// CreateUser inserts a user with password "password123".
func CreateUser(t *testing.T, email string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{Email: email, PasswordHash: string(hash), FirstName: "Test", Region: "Khomas"}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func CreateField(t *testing.T, userID uuid.UUID, name string, hectares float64) models.Field {
	t.Helper()
	f := models.Field{UserID: userID, Name: name, SizeHectares: hectares, Location: "North"}
	require.NoError(t, database.DB.Create(&f).Error)
	return f
}

func CreateCrop(t *testing.T, userID, fieldID uuid.UUID, name string, cost *float64) models.Crop {
	t.Helper()
	c := models.Crop{UserID: userID, FieldID: fieldID, Name: name, Status: models.CropStatusPlanted, ProductionCost: cost}
	require.NoError(t, database.DB.Create(&c).Error)
	return c
}

func Float(v float64) *float64 { return &v }

// App returns a fiber app with the API error handler and the JWT middleware on /api.
func App(cfg *config.Config) (*fiber.App, fiber.Router) {
	app := fiber.New(fiber.Config{ErrorHandler: apierror.Handler})
	return app, app.Group("/api", auth.JWTMiddleware(cfg))
}

func Token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(Secret, time.Hour, u)
	require.NoError(t, err)
	return tok
}

// Do sends a JSON request and returns the status and raw body.
func Do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
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

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// DecodeJSON unmarshals raw into a value of type T.
func DecodeJSON[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}
