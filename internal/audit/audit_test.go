package audit_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmq-backend/internal/audit"
	"farmq-backend/internal/database"
	"farmq-backend/internal/models"
	"farmq-backend/internal/testutil"
)

func seed(t *testing.T, userID uuid.UUID, entity string, at time.Time, desc string) models.AuditLog {
	t.Helper()
	row := models.AuditLog{
		UserID:      userID,
		CreatedAt:   at,
		EntityType:  entity,
		EntityID:    uuid.New(),
		Action:      models.AuditActionCreate,
		Description: desc,
		BeforeData:  []byte("null"),
		AfterData:   []byte(`{"name":"x"}`),
	}
	require.NoError(t, database.DB.Create(&row).Error)
	return row
}

func TestWriteLogSnapshots(t *testing.T) {
	testutil.SetupDB(t)
	user := testutil.CreateUser(t, "a@example.com")
	id := uuid.New()

	require.NoError(t, audit.WriteLog(database.DB, audit.LogOptions{
		UserID:      user.ID,
		EntityType:  audit.EntityCrop,
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: "Crop updated",
		Before:      map[string]string{"status": "planted"},
		After:       map[string]string{"status": "growing"},
	}))

	var row models.AuditLog
	require.NoError(t, database.DB.First(&row, "entity_id = ?", id).Error)
	assert.JSONEq(t, `{"status":"planted"}`, string(row.BeforeData))
	assert.JSONEq(t, `{"status":"growing"}`, string(row.AfterData))

	require.NoError(t, audit.WriteLog(database.DB, audit.LogOptions{
		UserID: user.ID, EntityType: audit.EntityField, EntityID: uuid.New(), Action: models.AuditActionCreate,
	}))
	var created models.AuditLog
	require.NoError(t, database.DB.Where("entity_type = ?", audit.EntityField).First(&created).Error)
	assert.Equal(t, "null", string(created.BeforeData))
}

func TestListAuditLogsScopedAndFiltered(t *testing.T) {
	testutil.SetupDB(t)
	app, api := testutil.App(testutil.Config())
	api.Get("/audit-logs", audit.ListAuditLogsHandler())

	user := testutil.CreateUser(t, "a@example.com")
	other := testutil.CreateUser(t, "b@example.com")
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	seed(t, user.ID, audit.EntityCrop, base, "older crop")
	newest := seed(t, user.ID, audit.EntityCrop, base.Add(time.Hour), "newer crop")
	seed(t, user.ID, audit.EntityField, base.Add(2*time.Hour), "field")
	seed(t, other.ID, audit.EntityCrop, base, "not mine")

	token := testutil.Token(t, &user)
	status, raw := testutil.Do(t, app, http.MethodGet, "/api/audit-logs", token, nil)
	require.Equal(t, http.StatusOK, status)
	all := testutil.DecodeJSON[[]audit.AuditLogResponse](t, raw)
	require.Len(t, all, 3)
	assert.Equal(t, "field", all[0].Description)

	status, raw = testutil.Do(t, app, http.MethodGet, "/api/audit-logs?entity_type=crop&limit=1", token, nil)
	require.Equal(t, http.StatusOK, status)
	crops := testutil.DecodeJSON[[]audit.AuditLogResponse](t, raw)
	require.Len(t, crops, 1)
	assert.Equal(t, newest.ID.String(), crops[0].ID)
	assert.JSONEq(t, `{"name":"x"}`, string(crops[0].After))

	status, raw = testutil.Do(t, app, http.MethodGet, "/api/audit-logs?entity_id="+newest.EntityID.String(), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, testutil.DecodeJSON[[]audit.AuditLogResponse](t, raw), 1)

	status, _ = testutil.Do(t, app, http.MethodGet, "/api/audit-logs?entity_id=nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
