package yields_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmq-backend/internal/audit"
	"farmq-backend/internal/database"
	"farmq-backend/internal/models"
	"farmq-backend/internal/testutil"
	"farmq-backend/internal/yields"
)

func harvest(t *testing.T, c models.Crop, day time.Time, amount float64) models.YieldRecord {
	t.Helper()
	y := models.YieldRecord{UserID: c.UserID, FieldID: c.FieldID, CropID: c.ID, HarvestDate: day, YieldAmount: amount}
	require.NoError(t, database.DB.Create(&y).Error)
	return y
}

func TestListYieldRecordsNewestFirst(t *testing.T) {
	testutil.SetupDB(t)
	app, api := testutil.App(testutil.Config())
	api.Get("/yield-records", yields.ListYieldRecordsHandler())

	user := testutil.CreateUser(t, "a@example.com")
	other := testutil.CreateUser(t, "b@example.com")
	field := testutil.CreateField(t, user.ID, "East", 3)
	crop := testutil.CreateCrop(t, user.ID, field.ID, "Wheat", nil)
	otherField := testutil.CreateField(t, other.ID, "West", 1)
	otherCrop := testutil.CreateCrop(t, other.ID, otherField.ID, "Maize", nil)

	harvest(t, crop, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 100)
	harvest(t, crop, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 250)
	harvest(t, otherCrop, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), 10)

	status, raw := testutil.Do(t, app, http.MethodGet, "/api/yield-records", testutil.Token(t, &user), nil)
	require.Equal(t, http.StatusOK, status)
	list := testutil.DecodeJSON[[]yields.YieldRecordResponse](t, raw)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-04-01", list[0].HarvestDate)
	assert.Equal(t, "East", list[0].FieldName)
	assert.Equal(t, "Wheat", list[0].CropName)
	assert.Equal(t, "kg", list[0].YieldUnit)

	status, raw = testutil.Do(t, app, http.MethodGet, "/api/yield-records?limit=1", testutil.Token(t, &user), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, testutil.DecodeJSON[[]yields.YieldRecordResponse](t, raw), 1)
}

func TestDeleteYieldRecord(t *testing.T) {
	testutil.SetupDB(t)
	app, api := testutil.App(testutil.Config())
	api.Delete("/yield-records/:id", yields.DeleteYieldRecordHandler())

	user := testutil.CreateUser(t, "a@example.com")
	intruder := testutil.CreateUser(t, "b@example.com")
	field := testutil.CreateField(t, user.ID, "East", 3)
	crop := testutil.CreateCrop(t, user.ID, field.ID, "Wheat", nil)
	rec := harvest(t, crop, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 100)

	status, _ := testutil.Do(t, app, http.MethodDelete, "/api/yield-records/"+rec.ID.String(), testutil.Token(t, &intruder), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = testutil.Do(t, app, http.MethodDelete, "/api/yield-records/not-a-uuid", testutil.Token(t, &user), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = testutil.Do(t, app, http.MethodDelete, "/api/yield-records/"+rec.ID.String(), testutil.Token(t, &user), nil)
	require.Equal(t, http.StatusNoContent, status)

	var count int64
	require.NoError(t, database.DB.Model(&models.YieldRecord{}).Count(&count).Error)
	assert.Zero(t, count)

	var logs []models.AuditLog
	require.NoError(t, database.DB.Where("entity_type = ?", audit.EntityYield).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionDelete, logs[0].Action)
	assert.Contains(t, string(logs[0].BeforeData), "Wheat")
}
