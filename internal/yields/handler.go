package yields

import (
	"errors"
	"strconv"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/audit"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/database"
	"farmq-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type YieldRecordResponse struct {
	ID          string  `json:"id"`
	FieldID     string  `json:"field_id"`
	FieldName   string  `json:"field_name"`
	CropID      string  `json:"crop_id"`
	CropName    string  `json:"crop_name"`
	HarvestDate string  `json:"harvest_date"`
	YieldAmount float64 `json:"yield_amount"`
	YieldUnit   string  `json:"yield_unit"`
}

func toResponse(y *models.YieldRecord) YieldRecordResponse {
	resp := YieldRecordResponse{
		ID:          y.ID.String(),
		FieldID:     y.FieldID.String(),
		FieldName:   "Unknown",
		CropID:      y.CropID.String(),
		CropName:    "Unknown",
		HarvestDate: y.HarvestDate.Format(models.DateLayout),
		YieldAmount: y.YieldAmount,
		YieldUnit:   y.YieldUnit,
	}
	if y.Field != nil {
		resp.FieldName = y.Field.Name
	}
	if y.Crop != nil {
		resp.CropName = y.Crop.Name
	}
	return resp
}

// LoadForUser returns the user's harvests newest first with field and crop joined.
// limit <= 0 means no limit.
func LoadForUser(db *gorm.DB, userID uuid.UUID, limit int) ([]models.YieldRecord, error) {
	q := db.Scopes(database.UserScope(userID)).
		Preload("Field").
		Preload("Crop").
		Order("harvest_date DESC").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var records []models.YieldRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GET /api/yield-records?limit=20
func ListYieldRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		limit, _ := strconv.Atoi(c.Query("limit"))
		records, err := LoadForUser(database.DB, userID, limit)
		if err != nil {
			return apierror.Internal("Failed to list yield records").WithDetails("Database error: " + err.Error())
		}

		resp := make([]YieldRecordResponse, 0, len(records))
		for i := range records {
			resp = append(resp, toResponse(&records[i]))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/yield-records/:id
func DeleteYieldRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apierror.BadRequest("Invalid yield record id")
		}

		var record models.YieldRecord
		err = database.DB.Scopes(database.UserScope(userID)).Preload("Crop").First(&record, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Yield record not found")
		}
		if err != nil {
			return apierror.Internal("Failed to load yield record").WithDetails("Database error: " + err.Error())
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.YieldRecord{}, "id = ?", record.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityYield,
				EntityID:    record.ID,
				Action:      models.AuditActionDelete,
				Description: "Yield record deleted",
				Before:      toResponse(&record),
			})
		})
		if err != nil {
			return apierror.Internal("Failed to delete yield record").WithDetails("Database error: " + err.Error())
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
