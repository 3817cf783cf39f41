// Package timeseries aggregates citation records into yearly and monthly
// counts and derives year-over-year growth.
package timeseries

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/scholarlab/citelens/internal/model"
)

// recordYear derives a record's year from its year field, falling back to
// the leading four characters of its date. Zero means no year is derivable.
func recordYear(rec model.CitationRecord) int {
	if rec.Year != 0 {
		return rec.Year
	}
	if len(rec.Date) >= 4 {
		if y, err := strconv.Atoi(rec.Date[:4]); err == nil {
			return y
		}
	}
	return 0
}

// recordMonth derives a record's month from date positions 5-6 when the
// date is at least YYYY-MM with a -/ separator. A record known only by
// year lands in January.
func recordMonth(rec model.CitationRecord) int {
	d := rec.Date
	if len(d) >= 7 && (d[4] == '-' || d[4] == '/') {
		if m, err := strconv.Atoi(d[5:7]); err == nil && m >= 1 && m <= 12 {
			return m
		}
	}
	return 1
}

// ByYear groups records into yearly counts, ascending by year. Records with
// no derivable year are dropped.
func ByYear(records []model.CitationRecord) []model.YearCount {
	counts := make(map[int]int)
	for _, rec := range records {
		y := recordYear(rec)
		if y == 0 {
			continue
		}
		counts[y]++
	}
	out := make([]model.YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, model.YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// ByMonth groups records into monthly counts keyed "YYYY-MM", ascending.
// Lexicographic order on zero-padded keys is chronological order.
func ByMonth(records []model.CitationRecord) []model.MonthCount {
	counts := make(map[string]int)
	for _, rec := range records {
		y := recordYear(rec)
		if y == 0 {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", y, recordMonth(rec))
		counts[key]++
	}
	out := make([]model.MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, model.MonthCount{Month: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// YoY derives year-over-year growth percentages from an ascending yearly
// series. Pairs whose prior year counted zero are omitted rather than
// emitted as infinities.
func YoY(yearly []model.YearCount) []model.YoYGrowth {
	var out []model.YoYGrowth
	for i := 1; i < len(yearly); i++ {
		prev := yearly[i-1].Count
		if prev == 0 {
			continue
		}
		cur := yearly[i].Count
		out = append(out, model.YoYGrowth{
			Year:          yearly[i].Year,
			GrowthPercent: float64(cur-prev) / float64(prev) * 100,
		})
	}
	return out
}
