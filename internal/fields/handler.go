package fields

import (
	"errors"
	"strings"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/audit"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/database"
	"farmq-backend/internal/logger"
	"farmq-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateFieldRequest struct {
	Name         string  `json:"name"`
	SizeHectares float64 `json:"size_hectares"`
	Location     string  `json:"location"`
	SoilType     *string `json:"soil_type"`
}

type UpdateFieldRequest struct {
	Name         *string  `json:"name"`
	SizeHectares *float64 `json:"size_hectares"`
	Location     *string  `json:"location"`
	SoilType     *string  `json:"soil_type"`
}

type CropSummary struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Variety             *string           `json:"variety"`
	Status              models.CropStatus `json:"status"`
	PlantingDate        *string           `json:"planting_date"`
	ExpectedHarvestDate *string           `json:"expected_harvest_date"`
}

type FieldResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	SizeHectares float64       `json:"size_hectares"`
	Location     string        `json:"location"`
	SoilType     *string       `json:"soil_type"`
	CreatedAt    string        `json:"created_at"`
	Crops        []CropSummary `json:"crops,omitempty"`
}

func toFieldResponse(f *models.Field) FieldResponse {
	resp := FieldResponse{
		ID:           f.ID.String(),
		Name:         f.Name,
		SizeHectares: f.SizeHectares,
		Location:     f.Location,
		SoilType:     f.SoilType,
		CreatedAt:    f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, cr := range f.Crops {
		resp.Crops = append(resp.Crops, CropSummary{
			ID:                  cr.ID.String(),
			Name:                cr.Name,
			Variety:             cr.Variety,
			Status:              cr.Status,
			PlantingDate:        models.FormatDate(cr.PlantingDate),
			ExpectedHarvestDate: models.FormatDate(cr.ExpectedHarvestDate),
		})
	}
	return resp
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apierror.BadRequest("Invalid field id")
	}
	return id, nil
}

// FindOwned loads a field belonging to userID, 404 otherwise.
func FindOwned(db *gorm.DB, userID, fieldID uuid.UUID) (*models.Field, error) {
	var field models.Field
	err := db.Scopes(database.UserScope(userID)).First(&field, "id = ?", fieldID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("Field not found")
	}
	if err != nil {
		return nil, apierror.Internal("Failed to load field").WithDetails("Database error: " + err.Error())
	}
	return &field, nil
}

// POST /api/fields
func CreateFieldHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateFieldRequest
		if err := c.BodyParser(&body); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return apierror.BadRequest("Field name is required")
		}
		if body.SizeHectares <= 0 {
			return apierror.BadRequest("size_hectares must be greater than 0")
		}

		field := models.Field{
			UserID:       userID,
			Name:         body.Name,
			SizeHectares: body.SizeHectares,
			Location:     strings.TrimSpace(body.Location),
			SoilType:     body.SoilType,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&field).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityField,
				EntityID:    field.ID,
				Action:      models.AuditActionCreate,
				Description: "Field created: " + field.Name,
				After:       toFieldResponse(&field),
			})
		})
		if err != nil {
			return apierror.Internal("Failed to create field").WithDetails("Database error: " + err.Error())
		}

		return c.Status(fiber.StatusCreated).JSON(toFieldResponse(&field))
	}
}

// GET /api/fields
func ListFieldsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var list []models.Field
		if err := database.DB.Scopes(database.UserScope(userID)).
			Order("created_at DESC").
			Find(&list).Error; err != nil {
			return apierror.Internal("Failed to list fields").WithDetails("Database error: " + err.Error())
		}

		resp := make([]FieldResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toFieldResponse(&list[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/fields/:id
func GetFieldHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var field models.Field
		err = database.DB.Scopes(database.UserScope(userID)).
			Preload("Crops", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
			First(&field, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Field not found")
		}
		if err != nil {
			return apierror.Internal("Failed to load field").WithDetails("Database error: " + err.Error())
		}

		return c.JSON(toFieldResponse(&field))
	}
}

// PUT /api/fields/:id
func UpdateFieldHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body UpdateFieldRequest
		if err := c.BodyParser(&body); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		field, err := FindOwned(database.DB, userID, id)
		if err != nil {
			return err
		}
		before := toFieldResponse(field)

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return apierror.BadRequest("Field name is required")
			}
			field.Name = name
		}
		if body.SizeHectares != nil {
			if *body.SizeHectares <= 0 {
				return apierror.BadRequest("size_hectares must be greater than 0")
			}
			field.SizeHectares = *body.SizeHectares
		}
		if body.Location != nil {
			field.Location = strings.TrimSpace(*body.Location)
		}
		if body.SoilType != nil {
			field.SoilType = body.SoilType
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(field).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityField,
				EntityID:    field.ID,
				Action:      models.AuditActionUpdate,
				Description: "Field updated: " + field.Name,
				Before:      before,
				After:       toFieldResponse(field),
			})
		})
		if err != nil {
			return apierror.Internal("Failed to update field").WithDetails("Database error: " + err.Error())
		}

		return c.JSON(toFieldResponse(field))
	}
}

// DELETE /api/fields/:id
// Removes the field together with its crops, harvests and predictions.
func DeleteFieldHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		field, err := FindOwned(database.DB, userID, id)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Scopes(database.UserScope(userID)).Where("field_id = ?", id).Delete(&models.Prediction{}).Error; err != nil {
				return err
			}
			if err := tx.Scopes(database.UserScope(userID)).Where("field_id = ?", id).Delete(&models.YieldRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Scopes(database.UserScope(userID)).Where("field_id = ?", id).Delete(&models.Crop{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(field).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityField,
				EntityID:    field.ID,
				Action:      models.AuditActionDelete,
				Description: "Field deleted: " + field.Name,
				Before:      toFieldResponse(field),
			})
		})
		if err != nil {
			return apierror.Internal("Failed to delete field").WithDetails("Database error: " + err.Error())
		}

		logger.FromCtx(c).WithField("field_id", id.String()).Info("field deleted")
		return c.SendStatus(fiber.StatusNoContent)
	}
}
