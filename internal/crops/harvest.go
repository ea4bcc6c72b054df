package crops

import (
	"fmt"
	"strings"
	"time"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/audit"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/database"
	"farmq-backend/internal/logger"
	"farmq-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HarvestRequest struct {
	HarvestDate string  `json:"harvest_date"`
	YieldAmount float64 `json:"yield_amount"`
	YieldUnit   string  `json:"yield_unit"`
}

type HarvestResponse struct {
	YieldRecordID string       `json:"yield_record_id"`
	HarvestDate   string       `json:"harvest_date"`
	YieldAmount   float64      `json:"yield_amount"`
	YieldUnit     string       `json:"yield_unit"`
	Crop          CropResponse `json:"crop"`
}

// POST /api/crops/:id/harvest
// Records a yield and marks the crop harvested in one transaction.
func HarvestCropHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body HarvestRequest
		if err := c.BodyParser(&body); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		if body.YieldAmount <= 0 {
			return apierror.BadRequest("yield_amount must be greater than 0")
		}
		unit := strings.TrimSpace(body.YieldUnit)
		if unit == "" {
			unit = models.DefaultYieldUnit
		}
		if !models.ValidYieldUnit(unit) {
			return apierror.BadRequest("Invalid yield_unit: " + unit)
		}

		harvestDate := time.Now().UTC().Truncate(24 * time.Hour)
		if body.HarvestDate != "" {
			harvestDate, err = models.ParseDate(body.HarvestDate)
			if err != nil {
				return apierror.BadRequest("Invalid harvest_date").WithDetails(err.Error())
			}
		}

		crop, err := FindOwned(database.DB, userID, id)
		if err != nil {
			return err
		}
		before := ToCropResponse(crop)

		record := models.YieldRecord{
			UserID:      userID,
			FieldID:     crop.FieldID,
			CropID:      crop.ID,
			HarvestDate: harvestDate,
			YieldAmount: body.YieldAmount,
			YieldUnit:   unit,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Crop{}).
				Where("id = ? AND user_id = ?", crop.ID, userID).
				Update("status", models.CropStatusHarvested).Error; err != nil {
				return err
			}
			crop.Status = models.CropStatusHarvested

			if err := audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityYield,
				EntityID:    record.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Harvested %.2f %s of %s", record.YieldAmount, record.YieldUnit, crop.Name),
				After:       record,
			}); err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityCrop,
				EntityID:    crop.ID,
				Action:      models.AuditActionUpdate,
				Description: "Crop harvested: " + crop.Name,
				Before:      before,
				After:       ToCropResponse(crop),
			})
		})
		if err != nil {
			return apierror.Internal("Failed to record harvest").WithDetails("Database error: " + err.Error())
		}

		logger.FromCtx(c).WithField("crop_id", crop.ID.String()).
			WithField("yield_record_id", record.ID.String()).
			Info("harvest recorded")

		return c.Status(fiber.StatusCreated).JSON(HarvestResponse{
			YieldRecordID: record.ID.String(),
			HarvestDate:   record.HarvestDate.Format(models.DateLayout),
			YieldAmount:   record.YieldAmount,
			YieldUnit:     record.YieldUnit,
			Crop:          ToCropResponse(crop),
		})
	}
}
