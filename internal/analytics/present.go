package analytics

import "github.com/shopspring/decimal"

type MonthlyRow struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Cost    int64  `json:"cost"`
	Profit  int64  `json:"profit"`
}

type CropRow struct {
	Crop               string  `json:"crop"`
	Count              int     `json:"count"`
	TotalYield         float64 `json:"total_yield"`
	TotalHectares      float64 `json:"total_hectares"`
	AvgYield           float64 `json:"avg_yield"`
	AvgYieldPerHectare float64 `json:"avg_yield_per_hectare"`
	Revenue            int64   `json:"revenue"`
	Cost               int64   `json:"cost"`
	Profit             int64   `json:"profit"`
	ProfitMargin       float64 `json:"profit_margin"`
	RevenuePerHectare  float64 `json:"revenue_per_hectare"`
	CostPerHectare     float64 `json:"cost_per_hectare"`
	ProfitPerHectare   float64 `json:"profit_per_hectare"`
}

type RecentRow struct {
	Crop        string  `json:"crop"`
	YieldAmount float64 `json:"yield_amount"`
	Date        string  `json:"formatted_date"`
}

type MixRow struct {
	Crop       string  `json:"crop"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

type MixResponse struct {
	Items           []MixRow `json:"items"`
	TotalProduction float64  `json:"total_production"`
	CropTypes       int      `json:"crop_types"`
}

type ReportResponse struct {
	TotalYield             float64 `json:"total_yield"`
	TotalHectares          float64 `json:"total_hectares"`
	AverageYieldPerHectare float64 `json:"average_yield_per_hectare"`
	CurrentYear            int     `json:"current_year"`
	ThisYearYield          float64 `json:"this_year_yield"`
	LastYearYield          float64 `json:"last_year_yield"`
	YoYChange              float64 `json:"yoy_change"`

	TotalRevenue float64 `json:"total_revenue"`
	TotalCost    float64 `json:"total_cost"`
	TotalProfit  float64 `json:"total_profit"`
	ProfitMargin float64 `json:"profit_margin"`

	RevenueByMonth  []MonthlyRow `json:"revenue_by_month"`
	CropPerformance []CropRow    `json:"crop_performance"`
	TopCrops        []CropRow    `json:"top_crops"`
	RecentHarvests  []RecentRow  `json:"recent_harvests"`
	ProductionMix   MixResponse  `json:"production_mix"`
}

// whole rounds half up (toward +inf) to an integer, so -0.5 becomes 0.
func whole(v float64) int64 {
	return decimal.NewFromFloat(v).Add(decimal.NewFromFloat(0.5)).Floor().IntPart()
}

func cents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Present rounds a report for display: per-month and per-crop money to whole
// units, everything else to two decimals. Derived crop ratios use the
// unrounded sums.
func Present(r Report) ReportResponse {
	resp := ReportResponse{
		TotalYield:             cents(r.TotalYield),
		TotalHectares:          cents(r.TotalHectares),
		AverageYieldPerHectare: cents(r.AverageYieldPerHectare),
		CurrentYear:            r.CurrentYear,
		ThisYearYield:          cents(r.ThisYearYield),
		LastYearYield:          cents(r.LastYearYield),
		YoYChange:              cents(r.YoYChange),
		TotalRevenue:           cents(r.TotalRevenue),
		TotalCost:              cents(r.TotalCost),
		TotalProfit:            cents(r.TotalProfit),
		ProfitMargin:           cents(r.ProfitMargin),
		RevenueByMonth:         make([]MonthlyRow, 0, len(r.Monthly)),
		CropPerformance:        cropRows(r.Crops),
		TopCrops:               cropRows(r.TopCrops),
		RecentHarvests:         make([]RecentRow, 0, len(r.RecentHarvests)),
		ProductionMix:          PresentMix(r.Mix),
	}

	for _, m := range r.Monthly {
		resp.RevenueByMonth = append(resp.RevenueByMonth, MonthlyRow{
			Month:   m.Label(),
			Revenue: whole(m.Revenue),
			Cost:    whole(m.Cost),
			Profit:  whole(m.Profit),
		})
	}
	for _, h := range r.RecentHarvests {
		resp.RecentHarvests = append(resp.RecentHarvests, RecentRow{Crop: h.Crop, YieldAmount: h.YieldAmount, Date: h.FormattedDate()})
	}
	return resp
}

func PresentMix(m ProductionMix) MixResponse {
	out := MixResponse{
		Items:           make([]MixRow, 0, len(m.Items)),
		TotalProduction: cents(m.TotalProduction),
		CropTypes:       m.CropTypes,
	}
	for _, it := range m.Items {
		out.Items = append(out.Items, MixRow{Crop: it.Crop, Total: cents(it.Total), Percentage: it.Percentage})
	}
	return out
}

func cropRows(crops []CropPerformance) []CropRow {
	out := make([]CropRow, 0, len(crops))
	for _, c := range crops {
		out = append(out, CropRow{
			Crop:               c.Crop,
			Count:              c.Count,
			TotalYield:         cents(c.TotalYield),
			TotalHectares:      cents(c.TotalHectares),
			AvgYield:           cents(c.AvgYield()),
			AvgYieldPerHectare: cents(c.AvgYieldPerHectare()),
			Revenue:            whole(c.Revenue),
			Cost:               whole(c.Cost),
			Profit:             whole(c.Profit),
			ProfitMargin:       cents(c.ProfitMargin()),
			RevenuePerHectare:  cents(c.RevenuePerHectare()),
			CostPerHectare:     cents(c.CostPerHectare()),
			ProfitPerHectare:   cents(c.ProfitPerHectare()),
		})
	}
	return out
}
