// Package sector classifies citing works into coarse institutional sectors
// from the free-text institution-type vocabularies the providers expose.
package sector

import "strings"

// Sector is the coarse affiliation classification of a work.
type Sector string

const (
	Academia   Sector = "academia"
	Industry   Sector = "industry"
	Government Sector = "government"
	Mixed      Sector = "mixed"
	Unknown    Sector = "unknown"
)

// Vocabulary maps a provider's raw institution-type strings onto the three
// sector flags. Raw vocabularies differ between providers and between call
// sites, so the mapping is data, not code: callers pick the table that
// matches their source and bucket set.
type Vocabulary struct {
	Industry   []string
	Academia   []string
	Government []string
}

// TwoFlag is the industry/academia-only vocabulary. Works affiliated with
// government institutions fall through to unknown.
var TwoFlag = Vocabulary{
	Industry: []string{"company", "forprofit", "business"},
	Academia: []string{"education", "university", "college"},
}

// Full is the three-flag vocabulary with the broader academia bucket.
var Full = Vocabulary{
	Industry:   []string{"company", "forprofit", "business"},
	Academia:   []string{"education", "university", "college", "facility", "archive"},
	Government: []string{"government"},
}

// Classify maps a work's distinct institution-type strings to one sector:
// no recognized flag is unknown, more than one is mixed, exactly one is
// that sector.
func (v Vocabulary) Classify(types []string) Sector {
	var hasIndustry, hasAcademia, hasGovernment bool
	for _, raw := range types {
		t := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case contains(v.Industry, t):
			hasIndustry = true
		case contains(v.Academia, t):
			hasAcademia = true
		case contains(v.Government, t):
			hasGovernment = true
		}
	}

	flags := 0
	for _, set := range []bool{hasIndustry, hasAcademia, hasGovernment} {
		if set {
			flags++
		}
	}
	switch {
	case flags == 0:
		return Unknown
	case flags > 1:
		return Mixed
	case hasGovernment:
		return Government
	case hasIndustry:
		return Industry
	default:
		return Academia
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Counts accumulates per-sector totals. It is a value type: Add returns
// the updated accumulator so pagination walks can fold counts without
// shared mutable state. Government is omitted from JSON when zero, so
// two-flag classifications serialize without a bucket they can never fill.
type Counts struct {
	Academia   int `json:"academia"`
	Industry   int `json:"industry"`
	Government int `json:"government,omitempty"`
	Mixed      int `json:"mixed"`
	Unknown    int `json:"unknown"`
}

// Add returns c with the given sector counted once.
func (c Counts) Add(s Sector) Counts {
	switch s {
	case Academia:
		c.Academia++
	case Industry:
		c.Industry++
	case Government:
		c.Government++
	case Mixed:
		c.Mixed++
	default:
		c.Unknown++
	}
	return c
}

// Total returns the number of works counted.
func (c Counts) Total() int {
	return c.Academia + c.Industry + c.Government + c.Mixed + c.Unknown
}
