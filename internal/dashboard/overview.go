package dashboard

import (
	"farmq-backend/internal/analytics"
	"farmq-backend/internal/apierror"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/crops"
	"farmq-backend/internal/database"
	"farmq-backend/internal/models"
	"farmq-backend/internal/yields"

	"github.com/gofiber/fiber/v2"
)

const (
	recentCropLimit    = 5
	recentHarvestLimit = 3
	defaultRegion      = "Khomas"
)

type HarvestItem struct {
	CropName    string  `json:"crop_name"`
	FieldName   string  `json:"field_name"`
	YieldAmount float64 `json:"yield_amount"`
	YieldUnit   string  `json:"yield_unit"`
	HarvestDate string  `json:"harvest_date"`
}

type RegionHealth struct {
	Region string             `json:"region"`
	NDVI   float64            `json:"ndvi"`
	Status catalog.NDVIStatus `json:"status"`
}

type OverviewResponse struct {
	RecentCrops     []crops.CropResponse  `json:"recent_crops"`
	RecentHarvests  []HarvestItem         `json:"recent_harvests"`
	ProductionMix   analytics.MixResponse `json:"production_mix"`
	Region          RegionHealth          `json:"region"`
	ActiveCropCount int64                 `json:"active_crop_count"`
	FieldCount      int64                 `json:"field_count"`
}

// GET /api/dashboard
func OverviewHandler(regions *catalog.Regions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			return apierror.Unauthorized("Unauthorized").WithDetails("user no longer exists")
		}

		var recent []models.Crop
		if err := database.DB.Scopes(database.UserScope(userID)).
			Preload("Field").
			Order("created_at DESC").
			Limit(recentCropLimit).
			Find(&recent).Error; err != nil {
			return apierror.Internal("Failed to load dashboard").WithDetails("Database error: " + err.Error())
		}

		records, err := yields.LoadForUser(database.DB, userID, 0)
		if err != nil {
			return apierror.Internal("Failed to load dashboard").WithDetails("Database error: " + err.Error())
		}

		var activeCrops, fieldCount int64
		if err := database.DB.Model(&models.Crop{}).Scopes(database.UserScope(userID)).
			Where("status <> ?", models.CropStatusHarvested).
			Count(&activeCrops).Error; err != nil {
			return apierror.Internal("Failed to load dashboard").WithDetails("Database error: " + err.Error())
		}
		if err := database.DB.Model(&models.Field{}).Scopes(database.UserScope(userID)).
			Count(&fieldCount).Error; err != nil {
			return apierror.Internal("Failed to load dashboard").WithDetails("Database error: " + err.Error())
		}

		resp := OverviewResponse{
			RecentCrops:     make([]crops.CropResponse, 0, len(recent)),
			RecentHarvests:  make([]HarvestItem, 0, recentHarvestLimit),
			ActiveCropCount: activeCrops,
			FieldCount:      fieldCount,
		}
		for i := range recent {
			resp.RecentCrops = append(resp.RecentCrops, crops.ToCropResponse(&recent[i]))
		}

		flat := analytics.FromModels(records)
		for i, r := range flat {
			if i == recentHarvestLimit {
				break
			}
			resp.RecentHarvests = append(resp.RecentHarvests, HarvestItem{
				CropName:    nonEmpty(r.CropName),
				FieldName:   nonEmpty(r.FieldName),
				YieldAmount: r.YieldAmount,
				YieldUnit:   r.YieldUnit,
				HarvestDate: r.HarvestDate.Format(models.DateLayout),
			})
		}

		resp.ProductionMix = analytics.PresentMix(analytics.Mix(flat))

		region := user.Region
		if region == "" {
			region = defaultRegion
		}
		ndvi := regions.NDVI(region)
		resp.Region = RegionHealth{Region: region, NDVI: ndvi, Status: catalog.StatusForNDVI(ndvi)}

		return c.JSON(resp)
	}
}

func nonEmpty(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
