package analytics

import (
	"time"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/database"
	"farmq-backend/internal/logger"
	"farmq-backend/internal/yields"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoadRecords reads the user's full harvest history newest first.
func LoadRecords(db *gorm.DB, userID uuid.UUID) ([]Record, error) {
	rs, err := yields.LoadForUser(db, userID, 0)
	if err != nil {
		return nil, err
	}
	return FromModels(rs), nil
}

// GET /api/analytics
func AnalyticsHandler(prices catalog.PriceTable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		records, err := LoadRecords(database.DB, userID)
		if err != nil {
			return apierror.Internal("Failed to load analytics").WithDetails("Database error: " + err.Error())
		}

		report := Aggregate(records, prices, time.Now())
		return c.JSON(Present(report))
	}
}

// GET /api/analytics/export
func ExportHandler(prices catalog.PriceTable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		records, err := LoadRecords(database.DB, userID)
		if err != nil {
			return apierror.Internal("Failed to export analytics").WithDetails("Database error: " + err.Error())
		}

		now := time.Now()
		report := Aggregate(records, prices, now)
		wb, err := Workbook(records, report)
		if err != nil {
			return apierror.Internal("Failed to export analytics").WithDetails(err.Error())
		}
		defer wb.Close()

		buf, err := wb.WriteToBuffer()
		if err != nil {
			return apierror.Internal("Failed to export analytics").WithDetails(err.Error())
		}

		logger.FromCtx(c).WithField("records", len(records)).Info("analytics exported")
		c.Attachment(ExportFileName(now.Format(exportFileNameStamp)))
		c.Set(fiber.HeaderContentType, ExportContentType)
		return c.Send(buf.Bytes())
	}
}
