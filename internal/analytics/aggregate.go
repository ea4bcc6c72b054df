// Package analytics turns a user's harvest history into revenue, cost and
// profit summaries. Aggregate is pure; rounding happens only in Present.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"farmq-backend/internal/catalog"
	"farmq-backend/internal/models"
)

const (
	unknownCrop        = "Unknown"
	monthsShown        = 6
	recentHarvestLimit = 10
	topCropLimit       = 5
	recentDateLayout   = "Jan 2, 2006"
)

// Record is one harvest with the joined field and crop values the
// aggregator needs. Missing joins leave the zero values.
type Record struct {
	ID             string
	HarvestDate    time.Time
	YieldAmount    float64
	YieldUnit      string
	CropName       string
	ProductionCost float64
	FieldName      string
	FieldSize      float64
}

// FromModels flattens preloaded yield records.
func FromModels(rs []models.YieldRecord) []Record {
	out := make([]Record, 0, len(rs))
	for _, r := range rs {
		rec := Record{
			ID:          r.ID.String(),
			HarvestDate: r.HarvestDate,
			YieldAmount: r.YieldAmount,
			YieldUnit:   r.YieldUnit,
		}
		if r.Crop != nil {
			rec.CropName = r.Crop.Name
			if r.Crop.ProductionCost != nil {
				rec.ProductionCost = *r.Crop.ProductionCost
			}
		}
		if r.Field != nil {
			rec.FieldName = r.Field.Name
			rec.FieldSize = r.Field.SizeHectares
		}
		out = append(out, rec)
	}
	return out
}

func (r Record) crop() string {
	if r.CropName == "" {
		return unknownCrop
	}
	return r.CropName
}

type MonthlyFinancials struct {
	Year    int
	Month   time.Month
	Revenue float64
	Cost    float64
	Profit  float64
}

func (m MonthlyFinancials) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
}

type CropPerformance struct {
	Crop          string
	Count         int
	TotalYield    float64
	TotalHectares float64
	Revenue       float64
	Cost          float64
	Profit        float64
}

func (c CropPerformance) AvgYield() float64 {
	if c.Count == 0 {
		return 0
	}
	return c.TotalYield / float64(c.Count)
}

// AvgYieldPerHectare is 0 when no area is known.
func (c CropPerformance) AvgYieldPerHectare() float64 {
	if c.TotalHectares == 0 {
		return 0
	}
	return c.TotalYield / c.TotalHectares
}

func (c CropPerformance) ProfitMargin() float64 {
	if c.Revenue == 0 {
		return 0
	}
	return c.Profit / c.Revenue * 100
}

// perHectareDivisor treats a zero area as one hectare, so the money-per-hectare
// figures fall back to the crop totals while AvgYieldPerHectare falls back to 0.
func (c CropPerformance) perHectareDivisor() float64 {
	if c.TotalHectares == 0 {
		return 1
	}
	return c.TotalHectares
}

func (c CropPerformance) RevenuePerHectare() float64 { return c.Revenue / c.perHectareDivisor() }
func (c CropPerformance) CostPerHectare() float64    { return c.Cost / c.perHectareDivisor() }
func (c CropPerformance) ProfitPerHectare() float64  { return c.Profit / c.perHectareDivisor() }

type RecentHarvest struct {
	Crop        string
	YieldAmount float64
	HarvestDate time.Time
}

func (h RecentHarvest) FormattedDate() string { return h.HarvestDate.Format(recentDateLayout) }

type MixItem struct {
	Crop       string
	Total      float64
	Percentage float64
}

type ProductionMix struct {
	Items           []MixItem
	TotalProduction float64
	CropTypes       int
}

type Report struct {
	TotalYield             float64
	TotalHectares          float64
	AverageYieldPerHectare float64

	CurrentYear   int
	ThisYearYield float64
	LastYearYield float64
	YoYChange     float64

	TotalRevenue float64
	TotalCost    float64
	TotalProfit  float64
	ProfitMargin float64

	Monthly        []MonthlyFinancials
	Crops          []CropPerformance
	TopCrops       []CropPerformance
	RecentHarvests []RecentHarvest
	Mix            ProductionMix
}

type monthKey struct {
	year  int
	month time.Month
}

// Aggregate computes every rollup in one pass over records. Production cost
// is the crop's total and is counted once per harvest record.
func Aggregate(records []Record, prices catalog.PriceTable, now time.Time) Report {
	rep := Report{CurrentYear: now.Year()}

	months := map[monthKey]*MonthlyFinancials{}
	crops := map[string]*CropPerformance{}
	var cropOrder []string

	for _, r := range records {
		crop := r.crop()
		revenue := prices.Price(r.CropName) * r.YieldAmount
		profit := revenue - r.ProductionCost

		rep.TotalYield += r.YieldAmount
		rep.TotalHectares += r.FieldSize
		switch r.HarvestDate.Year() {
		case rep.CurrentYear:
			rep.ThisYearYield += r.YieldAmount
		case rep.CurrentYear - 1:
			rep.LastYearYield += r.YieldAmount
		}

		rep.TotalRevenue += revenue
		rep.TotalCost += r.ProductionCost

		key := monthKey{year: r.HarvestDate.Year(), month: r.HarvestDate.Month()}
		m, ok := months[key]
		if !ok {
			m = &MonthlyFinancials{Year: key.year, Month: key.month}
			months[key] = m
		}
		m.Revenue += revenue
		m.Cost += r.ProductionCost
		m.Profit += profit

		cp, ok := crops[crop]
		if !ok {
			cp = &CropPerformance{Crop: crop}
			crops[crop] = cp
			cropOrder = append(cropOrder, crop)
		}
		cp.Count++
		cp.TotalYield += r.YieldAmount
		cp.TotalHectares += r.FieldSize
		cp.Revenue += revenue
		cp.Cost += r.ProductionCost
		cp.Profit += profit
	}

	if rep.TotalHectares > 0 {
		rep.AverageYieldPerHectare = rep.TotalYield / rep.TotalHectares
	}
	if rep.LastYearYield != 0 {
		rep.YoYChange = (rep.ThisYearYield - rep.LastYearYield) / rep.LastYearYield * 100
	}
	rep.TotalProfit = rep.TotalRevenue - rep.TotalCost
	if rep.TotalRevenue != 0 {
		rep.ProfitMargin = rep.TotalProfit / rep.TotalRevenue * 100
	}

	rep.Monthly = lastMonths(months, monthsShown)

	rep.Crops = make([]CropPerformance, 0, len(cropOrder))
	for _, name := range cropOrder {
		rep.Crops = append(rep.Crops, *crops[name])
	}
	rep.TopCrops = topByProfit(rep.Crops, topCropLimit)
	rep.RecentHarvests = recentHarvests(records, recentHarvestLimit)
	rep.Mix = Mix(records)

	return rep
}

// lastMonths returns the newest n months in chronological order.
func lastMonths(months map[monthKey]*MonthlyFinancials, n int) []MonthlyFinancials {
	out := make([]MonthlyFinancials, 0, len(months))
	for _, m := range months {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

func topByProfit(crops []CropPerformance, n int) []CropPerformance {
	out := make([]CropPerformance, len(crops))
	copy(out, crops)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Profit > out[j].Profit })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func recentHarvests(records []Record, n int) []RecentHarvest {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].HarvestDate.After(sorted[j].HarvestDate) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]RecentHarvest, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, RecentHarvest{Crop: r.crop(), YieldAmount: r.YieldAmount, HarvestDate: r.HarvestDate})
	}
	return out
}

// Mix is the share of total production per crop, percentages to one decimal.
func Mix(records []Record) ProductionMix {
	totals := map[string]float64{}
	var order []string
	var mix ProductionMix
	for _, r := range records {
		crop := r.crop()
		if _, ok := totals[crop]; !ok {
			order = append(order, crop)
		}
		totals[crop] += r.YieldAmount
		mix.TotalProduction += r.YieldAmount
	}

	mix.Items = make([]MixItem, 0, len(order))
	for _, crop := range order {
		item := MixItem{Crop: crop, Total: totals[crop]}
		if mix.TotalProduction > 0 {
			item.Percentage = math.Floor(totals[crop]/mix.TotalProduction*100*10+0.5) / 10
		}
		mix.Items = append(mix.Items, item)
	}
	mix.CropTypes = len(order)
	return mix
}
