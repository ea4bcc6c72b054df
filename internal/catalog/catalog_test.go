package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCropEncodingRoundTrip(t *testing.T) {
	enc := DefaultCropEncoding()
	require.Equal(t, 46, enc.Len())

	for _, name := range enc.Names() {
		code, err := enc.Encode(name)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, code, 0)
		assert.LessOrEqual(t, code, 45)

		back, err := enc.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, name, back)
	}
}

func TestCropEncodingKnownCodes(t *testing.T) {
	enc := DefaultCropEncoding()
	cases := map[string]int{
		"Pearl Millet":          0,
		"Maize":                 24,
		"Peas & beans (Pulses)": 30,
		"Rice":                  34,
		"Black Gram":            44,
		"Wheat":                 45,
	}
	for name, want := range cases {
		got, err := enc.Encode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestCropEncodingUnknown(t *testing.T) {
	enc := DefaultCropEncoding()

	_, err := enc.Encode("Quinoa")
	assert.ErrorIs(t, err, ErrInvalidCropType)

	_, err = enc.Encode("maize")
	assert.ErrorIs(t, err, ErrInvalidCropType, "lookup is case sensitive")

	_, err = enc.Decode(46)
	assert.ErrorIs(t, err, ErrUnknownEncoding)
	_, err = enc.Decode(-1)
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestNewCropEncodingRejectsDuplicates(t *testing.T) {
	_, err := NewCropEncoding([]string{"Maize", "Wheat", "Maize"})
	assert.Error(t, err)
}

func TestCustomEncodingIsIndependent(t *testing.T) {
	enc, err := NewCropEncoding([]string{"Teff", "Maize"})
	require.NoError(t, err)

	code, err := enc.Encode("Maize")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	names := enc.Names()
	names[0] = "changed"
	name, _ := enc.Decode(0)
	assert.Equal(t, "Teff", name)
}

func TestPriceTableCoversEveryCrop(t *testing.T) {
	prices := DefaultPriceTable()
	for _, name := range DefaultCropEncoding().Names() {
		assert.Greater(t, prices.Price(name), 0.0, name)
	}
	assert.Equal(t, 7.8, prices.Price("Maize"))
	assert.Equal(t, 0.0, prices.Price("Unknown"))
}

func TestBaseYieldsDefault(t *testing.T) {
	b := DefaultBaseYields()
	assert.Equal(t, 30.0, b.For("Wheat"))
	assert.Equal(t, 400.0, b.For("Tomato"))
	assert.Equal(t, 30.0, b.For("Garlic"))
}

func TestGrowthDaysExpectedHarvest(t *testing.T) {
	g := DefaultGrowthDays()
	planted := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), g.ExpectedHarvest("Maize", planted))
	assert.Equal(t, 100, g.For("Something else"))
}

func TestRegionsNDVIAndStatus(t *testing.T) {
	r := DefaultRegions()
	assert.Len(t, r.Names(), 14)
	assert.True(t, r.Known("Zambezi"))
	assert.Equal(t, 0.8261, r.NDVI("Zambezi"))
	assert.Equal(t, 0.5, r.NDVI("Atlantis"))

	assert.Equal(t, "Healthy", StatusForNDVI(0.6).Status)
	assert.Equal(t, "Moderate Stress", StatusForNDVI(0.4).Status)
	assert.Equal(t, "Poor", StatusForNDVI(0.1991).Status)
}
