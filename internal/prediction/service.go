package prediction

import (
	"context"
	"time"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/crops"
	"farmq-backend/internal/fields"
	"farmq-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PersistError is a failed write of a prediction row.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "Database error: " + e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

type Service struct {
	client     ModelClient
	enc        *catalog.CropEncoding
	baseYields catalog.BaseYields
	normalizer *Normalizer
	fallback   bool
	now        func() time.Time
}

func NewService(client ModelClient, enc *catalog.CropEncoding, baseYields catalog.BaseYields, fallbackEnabled bool) *Service {
	return &Service{
		client:     client,
		enc:        enc,
		baseYields: baseYields,
		normalizer: NewNormalizer(DefaultInputRules()),
		fallback:   fallbackEnabled,
		now:        time.Now,
	}
}

type Result struct {
	Prediction     models.Prediction
	Persisted      bool
	OutcomeQuality float64
	Timestamp      string
	IsFallback     bool
}

// Predict validates the payload, calls the model once and stores exactly one
// prediction on success. Nothing is written when any step fails, except that
// a fallback estimate is returned unsaved if its own write fails.
func (s *Service) Predict(ctx context.Context, db *gorm.DB, log logrus.FieldLogger, userID uuid.UUID, raw map[string]any) (*Result, error) {
	log.WithField("payload", raw).Debug("prediction payload received")

	ids, err := ExtractIdentifiers(raw)
	if err != nil {
		return nil, err
	}

	inputs, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}
	log.WithField("inputs", inputs).Debug("normalized model inputs")

	encoded, err := s.enc.Encode(ids.CropType)
	if err != nil {
		return nil, err
	}

	if err := checkOwnership(db, userID, ids); err != nil {
		return nil, err
	}
	fieldID, _ := uuid.Parse(ids.FieldID)
	cropID, _ := uuid.Parse(ids.CropID)

	modelReq := ModelRequest{
		CropEncoded: encoded,
		NDVI:        inputs.NDVI,
		Rainfall:    inputs.Rainfall,
		SoilPH:      inputs.SoilPH,
		Temperature: inputs.Temperature,
	}
	log.WithField("model_request", modelReq).Info("calling model service")

	modelResp, err := s.client.Predict(ctx, modelReq)
	if err != nil {
		if !s.fallback && !allowFallback(raw) {
			return nil, err
		}
		log.WithError(err).Warn("model service failed, using heuristic fallback")
		return s.fallbackPrediction(db, log, userID, fieldID, cropID, ids, inputs, raw), nil
	}

	yield := RescaleModelYield(modelResp.PredictedYield)
	log.WithFields(logrus.Fields{"raw": modelResp.PredictedYield, "rescaled": yield}).Info("model output rescaled")

	p := models.Prediction{
		UserID:          userID,
		FieldID:         fieldID,
		CropID:          cropID,
		PredictedYield:  yield,
		YieldUnit:       models.PredictionYieldUnit,
		ConfidenceScore: modelResp.OutcomeQuality,
		PredictionDate:  s.now().UTC(),
		Factors:         datatypes.JSONMap(Snapshot(raw)),
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, &PersistError{Err: err}
	}
	log.WithField("prediction_id", p.ID.String()).Info("prediction saved")

	return &Result{
		Prediction:     p,
		Persisted:      true,
		OutcomeQuality: modelResp.OutcomeQuality,
		Timestamp:      modelResp.Timestamp,
	}, nil
}

func (s *Service) fallbackPrediction(db *gorm.DB, log logrus.FieldLogger, userID, fieldID, cropID uuid.UUID, ids Identifiers, inputs Inputs, raw map[string]any) *Result {
	factors := Snapshot(raw)
	factors["field_id"] = ids.FieldID
	factors["crop_id"] = ids.CropID
	factors["is_fallback_prediction"] = true
	factors["fallback_reason"] = FallbackReason

	now := s.now().UTC()
	p := models.Prediction{
		UserID:          userID,
		FieldID:         fieldID,
		CropID:          cropID,
		PredictedYield:  HeuristicYield(s.baseYields, ids.CropType, inputs),
		YieldUnit:       models.PredictionYieldUnit,
		ConfidenceScore: FallbackConfidence,
		PredictionDate:  now,
		Factors:         datatypes.JSONMap(factors),
	}

	res := &Result{
		OutcomeQuality: FallbackConfidence,
		Timestamp:      now.Format(time.RFC3339),
		IsFallback:     true,
	}
	if err := db.Create(&p).Error; err != nil {
		log.WithError(err).Error("fallback prediction not saved")
		p.ID = uuid.Nil
		res.Prediction = p
		return res
	}
	log.WithField("prediction_id", p.ID.String()).Info("fallback prediction saved")
	res.Prediction = p
	res.Persisted = true
	return res
}

func allowFallback(raw map[string]any) bool {
	v, _ := raw["allow_fallback"].(bool)
	return v
}

// checkOwnership requires both ids to be the user's and the crop to grow on the field.
func checkOwnership(db *gorm.DB, userID uuid.UUID, ids Identifiers) error {
	fieldID, err := uuid.Parse(ids.FieldID)
	if err != nil {
		return apierror.BadRequest("Invalid field_id")
	}
	cropID, err := uuid.Parse(ids.CropID)
	if err != nil {
		return apierror.BadRequest("Invalid crop_id")
	}

	if _, err := fields.FindOwned(db, userID, fieldID); err != nil {
		return err
	}
	crop, err := crops.FindOwned(db, userID, cropID)
	if err != nil {
		return err
	}
	if crop.FieldID != fieldID {
		return apierror.BadRequest("Crop does not belong to field")
	}
	return nil
}
