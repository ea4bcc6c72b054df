package catalog

import "github.com/gofiber/fiber/v2"

type CropResponse struct {
	Name       string  `json:"name"`
	Encoding   int     `json:"encoding"`
	PricePerKg float64 `json:"price_per_kg"`
	GrowthDays int     `json:"growth_days"`
}

type RegionResponse struct {
	Region string     `json:"region"`
	NDVI   float64    `json:"ndvi"`
	Status NDVIStatus `json:"status"`
}

// GET /api/catalog/crops
func ListCropsHandler(enc *CropEncoding, prices PriceTable, growth GrowthDays) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names := enc.Names()
		resp := make([]CropResponse, 0, len(names))
		for code, name := range names {
			resp = append(resp, CropResponse{
				Name:       name,
				Encoding:   code,
				PricePerKg: prices.Price(name),
				GrowthDays: growth.For(name),
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/catalog/regions
func ListRegionsHandler(regions *Regions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names := regions.Names()
		resp := make([]RegionResponse, 0, len(names))
		for _, name := range names {
			ndvi := regions.NDVI(name)
			resp = append(resp, RegionResponse{Region: name, NDVI: ndvi, Status: StatusForNDVI(ndvi)})
		}
		return c.JSON(resp)
	}
}
