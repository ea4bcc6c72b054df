package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmq-backend/internal/catalog"
)

var now = time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestAggregateMaizeScenario(t *testing.T) {
	records := []Record{
		{CropName: "Maize", YieldAmount: 100, ProductionCost: 500, FieldSize: 2, HarvestDate: day(2025, time.June, 1)},
		{CropName: "Maize", YieldAmount: 200, ProductionCost: 500, FieldSize: 2, HarvestDate: day(2025, time.July, 1)},
	}

	rep := Aggregate(records, catalog.DefaultPriceTable(), now)
	assert.InDelta(t, 2340, rep.TotalRevenue, 1e-9)
	assert.InDelta(t, 1000, rep.TotalCost, 1e-9)
	assert.InDelta(t, 1340, rep.TotalProfit, 1e-9)

	require.Len(t, rep.Crops, 1)
	maize := rep.Crops[0]
	assert.Equal(t, 2, maize.Count)
	assert.InDelta(t, 150, maize.AvgYield(), 1e-9)
	assert.InDelta(t, 75, maize.AvgYieldPerHectare(), 1e-9)
	assert.InDelta(t, 1340.0/2340.0*100, maize.ProfitMargin(), 1e-9)
	assert.InDelta(t, 585, maize.RevenuePerHectare(), 1e-9)

	out := Present(rep)
	assert.Equal(t, 2340.0, out.TotalRevenue)
	assert.Equal(t, int64(1340), out.CropPerformance[0].Profit)
	assert.Equal(t, 57.26, out.CropPerformance[0].ProfitMargin)
}

func TestYoYChangeWithoutLastYearIsZero(t *testing.T) {
	rep := Aggregate([]Record{{CropName: "Wheat", YieldAmount: 80, HarvestDate: day(2025, time.March, 3)}}, catalog.DefaultPriceTable(), now)
	assert.Equal(t, 80.0, rep.ThisYearYield)
	assert.Zero(t, rep.LastYearYield)
	assert.Zero(t, rep.YoYChange)

	rep = Aggregate([]Record{
		{CropName: "Wheat", YieldAmount: 150, HarvestDate: day(2025, time.March, 3)},
		{CropName: "Wheat", YieldAmount: 100, HarvestDate: day(2024, time.March, 3)},
		{CropName: "Wheat", YieldAmount: 999, HarvestDate: day(2023, time.March, 3)},
	}, catalog.DefaultPriceTable(), now)
	assert.InDelta(t, 50, rep.YoYChange, 1e-9)
}

func TestZeroRevenueMarginAndZeroAreaGuards(t *testing.T) {
	records := []Record{
		// no price listed for the crop and no field joined
		{CropName: "", YieldAmount: 40, ProductionCost: 120, HarvestDate: day(2025, time.May, 1)},
	}
	rep := Aggregate(records, catalog.DefaultPriceTable(), now)

	require.Len(t, rep.Crops, 1)
	c := rep.Crops[0]
	assert.Equal(t, "Unknown", c.Crop)
	assert.Zero(t, c.Revenue)
	assert.Zero(t, c.ProfitMargin())
	assert.Zero(t, rep.ProfitMargin)

	// zero area: yield per hectare is 0, money per hectare divides by 1
	assert.Zero(t, c.AvgYieldPerHectare())
	assert.Equal(t, 120.0, c.CostPerHectare())
	assert.Equal(t, -120.0, c.ProfitPerHectare())
	assert.Zero(t, rep.AverageYieldPerHectare)
}

func TestMonthlyKeepsMostRecentSixInOrder(t *testing.T) {
	var records []Record
	for m := 1; m <= 8; m++ {
		records = append(records, Record{CropName: "Rice", YieldAmount: float64(m), HarvestDate: day(2024, time.Month(m+4), 10)})
	}
	// Jan 2025 sorts after Dec 2024 even though the label sorts earlier
	records = append(records, Record{CropName: "Rice", YieldAmount: 1, HarvestDate: day(2025, time.January, 5)})

	rep := Aggregate(records, catalog.DefaultPriceTable(), now)
	require.Len(t, rep.Monthly, 6)
	var labels []string
	for _, m := range rep.Monthly {
		labels = append(labels, m.Label())
	}
	assert.Equal(t, []string{"Aug 2024", "Sep 2024", "Oct 2024", "Nov 2024", "Dec 2024", "Jan 2025"}, labels)

	out := Present(rep)
	// Aug 2024 is month index 4: yield 4 * 14.5
	assert.Equal(t, int64(58), out.RevenueByMonth[0].Revenue)
}

func TestRecentHarvestsAndTopCrops(t *testing.T) {
	var records []Record
	crops := []string{"Maize", "Wheat", "Rice", "Potato", "Tomato", "Onion", "Garlic"}
	for i, name := range crops {
		records = append(records, Record{CropName: name, YieldAmount: 100, HarvestDate: day(2025, time.January, i+1)})
	}
	for i := 0; i < 6; i++ {
		records = append(records, Record{CropName: "Maize", YieldAmount: 1, HarvestDate: day(2024, time.January, i+1)})
	}

	rep := Aggregate(records, catalog.DefaultPriceTable(), now)
	require.Len(t, rep.RecentHarvests, 10)
	assert.Equal(t, "Garlic", rep.RecentHarvests[0].Crop)
	assert.Equal(t, "Jan 7, 2025", rep.RecentHarvests[0].FormattedDate())

	require.Len(t, rep.TopCrops, 5)
	// profit is price * 100 for each 2025 harvest; the six small maize harvests only add 46.8
	var top []string
	for _, c := range rep.TopCrops {
		top = append(top, c.Crop)
	}
	assert.Equal(t, []string{"Garlic", "Rice", "Tomato", "Onion", "Potato"}, top)
}

func TestProductionMix(t *testing.T) {
	mix := Mix([]Record{
		{CropName: "Maize", YieldAmount: 1},
		{CropName: "Wheat", YieldAmount: 2},
		{CropName: "Maize", YieldAmount: 0},
	})
	assert.Equal(t, 3.0, mix.TotalProduction)
	assert.Equal(t, 2, mix.CropTypes)
	assert.Equal(t, []MixItem{{Crop: "Maize", Total: 1, Percentage: 33.3}, {Crop: "Wheat", Total: 2, Percentage: 66.7}}, mix.Items)

	empty := Mix([]Record{{CropName: "Bean", YieldAmount: 0}})
	assert.Zero(t, empty.Items[0].Percentage)
}

func TestEmptyHistory(t *testing.T) {
	rep := Aggregate(nil, catalog.DefaultPriceTable(), now)
	out := Present(rep)
	assert.Zero(t, out.TotalYield)
	assert.Empty(t, out.RevenueByMonth)
	assert.Empty(t, out.CropPerformance)
	assert.Equal(t, 2025, out.CurrentYear)
}
