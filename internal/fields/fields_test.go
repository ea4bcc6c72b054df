package fields_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmq-backend/internal/database"
	"farmq-backend/internal/fields"
	"farmq-backend/internal/models"
	"farmq-backend/internal/testutil"
)

func newApp() *fiber.App {
	app, api := testutil.App(testutil.Config())
	api.Post("/fields", fields.CreateFieldHandler())
	api.Get("/fields", fields.ListFieldsHandler())
	api.Get("/fields/:id", fields.GetFieldHandler())
	api.Put("/fields/:id", fields.UpdateFieldHandler())
	api.Delete("/fields/:id", fields.DeleteFieldHandler())
	return app
}

func TestFieldLifecycle(t *testing.T) {
	testutil.SetupDB(t)
	app := newApp()
	user := testutil.CreateUser(t, "f@example.com")
	token := testutil.Token(t, &user)

	status, raw := testutil.Do(t, app, http.MethodPost, "/api/fields", token, map[string]any{
		"name": "River Plot", "size_hectares": 4.5, "location": "Katima Mulilo", "soil_type": "loam",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := testutil.DecodeJSON[fields.FieldResponse](t, raw)
	assert.Equal(t, 4.5, created.SizeHectares)

	status, raw = testutil.Do(t, app, http.MethodPut, "/api/fields/"+created.ID, token, map[string]any{"size_hectares": 5})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, 5.0, testutil.DecodeJSON[fields.FieldResponse](t, raw).SizeHectares)

	status, raw = testutil.Do(t, app, http.MethodGet, "/api/fields", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, testutil.DecodeJSON[[]fields.FieldResponse](t, raw), 1)

	var logs int64
	database.DB.Model(&models.AuditLog{}).Where("entity_type = ?", "field").Count(&logs)
	assert.Equal(t, int64(2), logs)
}

func TestCreateFieldValidation(t *testing.T) {
	testutil.SetupDB(t)
	app := newApp()
	user := testutil.CreateUser(t, "v@example.com")
	token := testutil.Token(t, &user)

	status, _ := testutil.Do(t, app, http.MethodPost, "/api/fields", token, map[string]any{"name": "Zero", "size_hectares": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = testutil.Do(t, app, http.MethodPost, "/api/fields", token, map[string]any{"size_hectares": 2})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = testutil.Do(t, app, http.MethodPost, "/api/fields", "", map[string]any{"name": "x", "size_hectares": 2})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGetFieldIncludesCropsAndIsScoped(t *testing.T) {
	testutil.SetupDB(t)
	app := newApp()
	owner := testutil.CreateUser(t, "o@example.com")
	other := testutil.CreateUser(t, "x@example.com")
	field := testutil.CreateField(t, owner.ID, "Home", 1)
	testutil.CreateCrop(t, owner.ID, field.ID, "Bean", nil)

	status, raw := testutil.Do(t, app, http.MethodGet, "/api/fields/"+field.ID.String(), testutil.Token(t, &owner), nil)
	require.Equal(t, http.StatusOK, status)
	resp := testutil.DecodeJSON[fields.FieldResponse](t, raw)
	require.Len(t, resp.Crops, 1)
	assert.Equal(t, "Bean", resp.Crops[0].Name)

	status, _ = testutil.Do(t, app, http.MethodGet, "/api/fields/"+field.ID.String(), testutil.Token(t, &other), nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = testutil.Do(t, app, http.MethodGet, "/api/fields/not-a-uuid", testutil.Token(t, &owner), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteFieldCascades(t *testing.T) {
	testutil.SetupDB(t)
	app := newApp()
	user := testutil.CreateUser(t, "c@example.com")
	field := testutil.CreateField(t, user.ID, "Doomed", 1)
	crop := testutil.CreateCrop(t, user.ID, field.ID, "Tomato", nil)
	require.NoError(t, database.DB.Create(&models.YieldRecord{
		UserID: user.ID, FieldID: field.ID, CropID: crop.ID, YieldAmount: 10,
	}).Error)

	status, _ := testutil.Do(t, app, http.MethodDelete, "/api/fields/"+field.ID.String(), testutil.Token(t, &user), nil)
	require.Equal(t, http.StatusNoContent, status)

	var n int64
	database.DB.Model(&models.Crop{}).Where("field_id = ?", field.ID).Count(&n)
	assert.Zero(t, n)
	database.DB.Model(&models.YieldRecord{}).Where("field_id = ?", field.ID).Count(&n)
	assert.Zero(t, n)
	database.DB.Model(&models.Field{}).Where("id = ?", field.ID).Count(&n)
	assert.Zero(t, n)
}
