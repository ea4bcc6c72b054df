package audit

import (
	"encoding/json"
	"strconv"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/database"
	"farmq-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultListLimit = 100

type AuditLogResponse struct {
	ID          string             `json:"id"`
	CreatedAt   string             `json:"created_at"`
	EntityType  string             `json:"entity_type"`
	EntityID    string             `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	Before      json.RawMessage    `json:"before_data"`
	After       json.RawMessage    `json:"after_data"`
}

// GET /api/audit-logs?entity_type=crop&entity_id=...&limit=50
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.AuditLog{}).Scopes(database.UserScope(userID))

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			eid, err := uuid.Parse(entityIDStr)
			if err != nil {
				return apierror.BadRequest("Invalid entity_id")
			}
			dbq = dbq.Where("entity_id = ?", eid)
		}

		limit := defaultListLimit
		if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 500 {
			limit = l
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			return apierror.Internal("Failed to list audit logs").WithDetails("Database error: " + err.Error())
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID.String(),
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				EntityType:  l.EntityType,
				EntityID:    l.EntityID.String(),
				Action:      l.Action,
				Description: l.Description,
				Before:      json.RawMessage(l.BeforeData),
				After:       json.RawMessage(l.AfterData),
			})
		}

		return c.JSON(resp)
	}
}
