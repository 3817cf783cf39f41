package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarlab/citelens/internal/model"
)

func TestByYear(t *testing.T) {
	t.Parallel()

	records := []model.CitationRecord{
		{Year: 2021},
		{Year: 2019},
		{Year: 2021},
		{Date: "2019-05-02"},
		{Date: "not a date"},
		{},
	}

	assert.Equal(t, []model.YearCount{
		{Year: 2019, Count: 2},
		{Year: 2021, Count: 2},
	}, ByYear(records))
}

func TestByYear_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ByYear(nil))
}

func TestByYear_YearFieldWinsOverDate(t *testing.T) {
	t.Parallel()

	got := ByYear([]model.CitationRecord{{Year: 2020, Date: "2019-12-31"}})
	assert.Equal(t, []model.YearCount{{Year: 2020, Count: 1}}, got)
}

func TestByMonth(t *testing.T) {
	t.Parallel()

	records := []model.CitationRecord{
		{Date: "2021-03-15"},
		{Date: "2021-03-01"},
		{Date: "2021/04/02"},
		{Year: 2020},               // year only lands in January
		{Date: "2020-13-01"},       // out-of-range month falls back to January
		{Year: 2022, Date: "2022"}, // no month separator
	}

	assert.Equal(t, []model.MonthCount{
		{Month: "2020-01", Count: 2},
		{Month: "2021-03", Count: 2},
		{Month: "2021-04", Count: 1},
		{Month: "2022-01", Count: 1},
	}, ByMonth(records))
}

func TestYoY(t *testing.T) {
	t.Parallel()

	yearly := []model.YearCount{
		{Year: 2018, Count: 10},
		{Year: 2019, Count: 15},
		{Year: 2020, Count: 12},
	}

	got := YoY(yearly)
	assert.Len(t, got, 2)
	assert.Equal(t, 2019, got[0].Year)
	assert.InDelta(t, 50.0, got[0].GrowthPercent, 1e-9)
	assert.Equal(t, 2020, got[1].Year)
	assert.InDelta(t, -20.0, got[1].GrowthPercent, 1e-9)
}

func TestYoY_SkipsZeroBase(t *testing.T) {
	t.Parallel()

	yearly := []model.YearCount{
		{Year: 2018, Count: 0},
		{Year: 2019, Count: 5},
		{Year: 2020, Count: 10},
	}

	got := YoY(yearly)
	assert.Len(t, got, 1)
	assert.Equal(t, 2020, got[0].Year)
	assert.InDelta(t, 100.0, got[0].GrowthPercent, 1e-9)
}

func TestYoY_SingleYear(t *testing.T) {
	t.Parallel()

	assert.Empty(t, YoY([]model.YearCount{{Year: 2020, Count: 3}}))
}
