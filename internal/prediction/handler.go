package prediction

import (
	"errors"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/audit"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/database"
	"farmq-backend/internal/logger"
	"farmq-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PredictResponse struct {
	PredictedYield float64           `json:"predicted_yield"`
	YieldUnit      string            `json:"yield_unit"`
	OutcomeQuality float64           `json:"outcome_quality"`
	Timestamp      string            `json:"timestamp"`
	ID             *string           `json:"id,omitempty"`
	Factors        datatypes.JSONMap `json:"factors"`
	IsFallback     bool              `json:"is_fallback,omitempty"`
	Message        string            `json:"message,omitempty"`
}

type PredictionResponse struct {
	ID              string            `json:"id"`
	FieldID         string            `json:"field_id"`
	FieldName       string            `json:"field_name"`
	FieldSize       float64           `json:"field_size_hectares"`
	CropID          string            `json:"crop_id"`
	CropName        string            `json:"crop_name"`
	CropVariety     *string           `json:"crop_variety"`
	PredictedYield  float64           `json:"predicted_yield"`
	YieldUnit       string            `json:"yield_unit"`
	ConfidenceScore float64           `json:"confidence_score"`
	OutcomeLabel    OutcomeLabel      `json:"outcome_label"`
	PredictionDate  string            `json:"prediction_date"`
	Factors         datatypes.JSONMap `json:"factors"`
	Advice          Advice            `json:"advice"`
}

// POST /api/predict-yield
func PredictYieldHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		raw := map[string]any{}
		if err := c.BodyParser(&raw); err != nil {
			return apierror.BadRequest("Invalid request body")
		}

		res, err := svc.Predict(c.UserContext(), database.DB, logger.FromCtx(c), userID, raw)
		if err != nil {
			return predictError(err, raw)
		}

		resp := PredictResponse{
			PredictedYield: res.Prediction.PredictedYield,
			YieldUnit:      res.Prediction.YieldUnit,
			OutcomeQuality: res.OutcomeQuality,
			Timestamp:      res.Timestamp,
			Factors:        res.Prediction.Factors,
			IsFallback:     res.IsFallback,
		}
		if res.Persisted {
			id := res.Prediction.ID.String()
			resp.ID = &id
		}
		if res.IsFallback {
			resp.Message = "Prediction generated using fallback method (model service unavailable)"
		}
		return c.JSON(resp)
	}
}

func predictError(err error, raw map[string]any) error {
	var apiErr *apierror.Error
	var missing *MissingInputsError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, ErrMissingIdentifiers):
		return apierror.BadRequest(err.Error())
	case errors.As(err, &missing):
		return apierror.BadRequest(missing.Error())
	case errors.Is(err, catalog.ErrInvalidCropType):
		return apierror.BadRequest("Invalid crop type: " + identifier(raw["crop_type"]))
	default:
		return apierror.Internal("Failed to generate prediction").WithDetails(err.Error())
	}
}

// GET /api/predict-yield
func MethodNotAllowedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return apierror.MethodNotAllowed("Method not allowed")
	}
}

// GET /api/predictions
func ListPredictionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var list []models.Prediction
		if err := database.DB.Scopes(database.UserScope(userID)).
			Preload("Field").
			Preload("Crop").
			Order("prediction_date DESC").
			Find(&list).Error; err != nil {
			return apierror.Internal("Failed to list predictions").WithDetails("Database error: " + err.Error())
		}

		resp := make([]PredictionResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toPredictionResponse(&list[i]))
		}
		return c.JSON(resp)
	}
}

func toPredictionResponse(p *models.Prediction) PredictionResponse {
	label := LabelFor(p.ConfidenceScore)
	resp := PredictionResponse{
		ID:              p.ID.String(),
		FieldID:         p.FieldID.String(),
		FieldName:       "Unknown",
		CropID:          p.CropID.String(),
		CropName:        "Unknown",
		PredictedYield:  p.PredictedYield,
		YieldUnit:       p.YieldUnit,
		ConfidenceScore: p.ConfidenceScore,
		OutcomeLabel:    label,
		PredictionDate:  p.PredictionDate.Format("2006-01-02 15:04:05"),
		Factors:         p.Factors,
		Advice:          AdviceFor(label, p.Factors),
	}
	if p.Field != nil {
		resp.FieldName = p.Field.Name
		resp.FieldSize = p.Field.SizeHectares
	}
	if p.Crop != nil {
		resp.CropName = p.Crop.Name
		resp.CropVariety = p.Crop.Variety
	}
	return resp
}

// DELETE /api/predictions/:id
func DeletePredictionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apierror.BadRequest("Invalid prediction id")
		}

		var p models.Prediction
		err = database.DB.Scopes(database.UserScope(userID)).First(&p, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Prediction not found")
		}
		if err != nil {
			return apierror.Internal("Failed to load prediction").WithDetails("Database error: " + err.Error())
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.Prediction{}, "id = ?", p.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      userID,
				EntityType:  audit.EntityPrediction,
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: "Prediction deleted",
				Before:      p,
			})
		})
		if err != nil {
			return apierror.Internal("Failed to delete prediction").WithDetails("Database error: " + err.Error())
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
