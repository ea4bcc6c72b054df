package crops

import (
	"errors"
	"strings"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/audit"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/database"
	"farmq-backend/internal/fields"
	"farmq-backend/internal/logger"
	"farmq-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateCropRequest struct {
	FieldID             string   `json:"field_id"`
	Name                string   `json:"name"`
	Variety             *string  `json:"variety"`
	Status              string   `json:"status"`
	PlantingDate        string   `json:"planting_date"`
	ExpectedHarvestDate string   `json:"expected_harvest_date"`
	ProductionCost      *float64 `json:"production_cost"`
}

type UpdateCropRequest struct {
	Name                *string  `json:"name"`
	Variety             *string  `json:"variety"`
	Status              *string  `json:"status"`
	PlantingDate        *string  `json:"planting_date"`
	ExpectedHarvestDate *string  `json:"expected_harvest_date"`
	ProductionCost      *float64 `json:"production_cost"`
}

type CropResponse struct {
	ID                  string            `json:"id"`
	FieldID             string            `json:"field_id"`
	FieldName           string            `json:"field_name,omitempty"`
	Name                string            `json:"name"`
	Variety             *string           `json:"variety"`
	Status              models.CropStatus `json:"status"`
	PlantingDate        *string           `json:"planting_date"`
	ExpectedHarvestDate *string           `json:"expected_harvest_date"`
	ProductionCost      *float64          `json:"production_cost"`
	CreatedAt           string            `json:"created_at"`
}

func ToCropResponse(cr *models.Crop) CropResponse {
	resp := CropResponse{
		ID:                  cr.ID.String(),
		FieldID:             cr.FieldID.String(),
		Name:                cr.Name,
		Variety:             cr.Variety,
		Status:              cr.Status,
		PlantingDate:        models.FormatDate(cr.PlantingDate),
		ExpectedHarvestDate: models.FormatDate(cr.ExpectedHarvestDate),
		ProductionCost:      cr.ProductionCost,
		CreatedAt:           cr.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if cr.Field != nil {
		resp.FieldName = cr.Field.Name
	}
	return resp
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apierror.BadRequest("Invalid crop id")
	}
	return id, nil
}

// FindOwned loads a crop belonging to userID, 404 otherwise.
func FindOwned(db *gorm.DB, userID, cropID uuid.UUID) (*models.Crop, error) {
	var crop models.Crop
	err := db.Scopes(database.UserScope(userID)).Preload("Field").First(&crop, "id = ?", cropID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("Crop not found")
	}
	if err != nil {
		return nil, apierror.Internal("Failed to load crop").WithDetails("Database error: " + err.Error())
	}
	return &crop, nil
}

// POST /api/crops
func CreateCropHandler(enc *catalog.CropEncoding, growth catalog.GrowthDays) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateCropRequest
		if err := c.BodyParser(&body); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.FieldID == "" {
			return apierror.BadRequest("name and field_id are required")
		}
		if !enc.Known(body.Name) {
			return apierror.BadRequest("Invalid crop type: " + body.Name)
		}
		fieldID, err := uuid.Parse(body.FieldID)
		if err != nil {
			return apierror.BadRequest("Invalid field_id")
		}
		if body.ProductionCost != nil && *body.ProductionCost < 0 {
			return apierror.BadRequest("production_cost must not be negative")
		}

		status := models.CropStatusPlanted
		if body.Status != "" {
			status = models.CropStatus(body.Status)
			if !status.Valid() {
				return apierror.BadRequest("Invalid status: " + body.Status)
			}
		}

		field, err := fields.FindOwned(database.DB, userID, fieldID)
		if err != nil {
			return err
		}

		crop := models.Crop{
			UserID:         userID,
			FieldID:        field.ID,
			Name:           body.Name,
			Variety:        body.Variety,
			Status:         status,
			ProductionCost: body.ProductionCost,
		}

		if body.PlantingDate != "" {
			d, err := models.ParseDate(body.PlantingDate)
			if err != nil {
				return apierror.BadRequest("Invalid planting_date").WithDetails(err.Error())
			}
			crop.PlantingDate = &d
		}
		if body.ExpectedHarvestDate != "" {
			d, err := models.ParseDate(body.ExpectedHarvestDate)
			if err != nil {
				return apierror.BadRequest("Invalid expected_harvest_date").WithDetails(err.Error())
			}
			crop.ExpectedHarvestDate = &d
		} else if crop.PlantingDate != nil {
			d := growth.ExpectedHarvest(crop.Name, *crop.PlantingDate)
			crop.ExpectedHarvestDate = &d
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&crop).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityCrop,
				EntityID:    crop.ID,
				Action:      models.AuditActionCreate,
				Description: "Crop planted: " + crop.Name + " in " + field.Name,
				After:       ToCropResponse(&crop),
			})
		})
		if err != nil {
			return apierror.Internal("Failed to create crop").WithDetails("Database error: " + err.Error())
		}

		crop.Field = field
		return c.Status(fiber.StatusCreated).JSON(ToCropResponse(&crop))
	}
}

// GET /api/crops?status=planted,growing&field_id=...
func ListCropsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Scopes(database.UserScope(userID)).Preload("Field")

		if statusStr := c.Query("status"); statusStr != "" {
			var statuses []models.CropStatus
			for _, s := range strings.Split(statusStr, ",") {
				st := models.CropStatus(strings.TrimSpace(s))
				if !st.Valid() {
					return apierror.BadRequest("Invalid status: " + string(st))
				}
				statuses = append(statuses, st)
			}
			dbq = dbq.Where("status IN ?", statuses)
		}
		if fieldIDStr := c.Query("field_id"); fieldIDStr != "" {
			fid, err := uuid.Parse(fieldIDStr)
			if err != nil {
				return apierror.BadRequest("Invalid field_id")
			}
			dbq = dbq.Where("field_id = ?", fid)
		}

		var list []models.Crop
		if err := dbq.Order("created_at DESC").Find(&list).Error; err != nil {
			return apierror.Internal("Failed to list crops").WithDetails("Database error: " + err.Error())
		}

		resp := make([]CropResponse, 0, len(list))
		for i := range list {
			resp = append(resp, ToCropResponse(&list[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/crops/:id
func GetCropHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		crop, err := FindOwned(database.DB, userID, id)
		if err != nil {
			return err
		}
		return c.JSON(ToCropResponse(crop))
	}
}

// PUT /api/crops/:id
func UpdateCropHandler(enc *catalog.CropEncoding) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body UpdateCropRequest
		if err := c.BodyParser(&body); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		crop, err := FindOwned(database.DB, userID, id)
		if err != nil {
			return err
		}
		before := ToCropResponse(crop)

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if !enc.Known(name) {
				return apierror.BadRequest("Invalid crop type: " + name)
			}
			crop.Name = name
		}
		if body.Variety != nil {
			crop.Variety = body.Variety
		}
		if body.Status != nil {
			st := models.CropStatus(*body.Status)
			if !st.Valid() {
				return apierror.BadRequest("Invalid status: " + *body.Status)
			}
			crop.Status = st
		}
		if body.PlantingDate != nil {
			d, err := models.ParseDate(*body.PlantingDate)
			if err != nil {
				return apierror.BadRequest("Invalid planting_date").WithDetails(err.Error())
			}
			crop.PlantingDate = &d
		}
		if body.ExpectedHarvestDate != nil {
			d, err := models.ParseDate(*body.ExpectedHarvestDate)
			if err != nil {
				return apierror.BadRequest("Invalid expected_harvest_date").WithDetails(err.Error())
			}
			crop.ExpectedHarvestDate = &d
		}
		if body.ProductionCost != nil {
			if *body.ProductionCost < 0 {
				return apierror.BadRequest("production_cost must not be negative")
			}
			crop.ProductionCost = body.ProductionCost
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Field").Save(crop).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityCrop,
				EntityID:    crop.ID,
				Action:      models.AuditActionUpdate,
				Description: "Crop updated: " + crop.Name,
				Before:      before,
				After:       ToCropResponse(crop),
			})
		})
		if err != nil {
			return apierror.Internal("Failed to update crop").WithDetails("Database error: " + err.Error())
		}

		return c.JSON(ToCropResponse(crop))
	}
}

// DELETE /api/crops/:id
// Harvest records and predictions of the crop go with it.
func DeleteCropHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		crop, err := FindOwned(database.DB, userID, id)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Scopes(database.UserScope(userID)).Where("crop_id = ?", id).Delete(&models.Prediction{}).Error; err != nil {
				return err
			}
			if err := tx.Scopes(database.UserScope(userID)).Where("crop_id = ?", id).Delete(&models.YieldRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Crop{}, "id = ?", crop.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityCrop,
				EntityID:    crop.ID,
				Action:      models.AuditActionDelete,
				Description: "Crop deleted: " + crop.Name,
				Before:      ToCropResponse(crop),
			})
		})
		if err != nil {
			return apierror.Internal("Failed to delete crop").WithDetails("Database error: " + err.Error())
		}

		logger.FromCtx(c).WithField("crop_id", id.String()).Info("crop deleted")
		return c.SendStatus(fiber.StatusNoContent)
	}
}
