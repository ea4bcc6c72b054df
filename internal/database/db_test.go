package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmq-backend/internal/database"
	"farmq-backend/internal/models"
)

func TestOpenSQLiteEnforcesForeignKeys(t *testing.T) {
	db, err := database.Open("sqlite::memory:", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, database.Migrate(db))

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	orphan := models.Crop{UserID: uuid.New(), FieldID: uuid.New(), Name: "Maize", Status: models.CropStatusPlanted}
	assert.Error(t, db.Create(&orphan).Error)
}

func TestPingWithoutDatabase(t *testing.T) {
	prev := database.DB
	database.DB = nil
	t.Cleanup(func() { database.DB = prev })

	assert.Error(t, database.Ping(context.Background()))
}
