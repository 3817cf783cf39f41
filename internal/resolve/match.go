package resolve

import (
	"strconv"
	"strings"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/internal/provider"
)

const minPrefixLen = 8

// TitlePrefix returns the normalized-title prefix used for the fuzzy
// substring check: the majority of the query title, but never fewer than
// minPrefixLen characters. Tolerates truncation and subtitle differences
// between providers.
func TitlePrefix(normTitle string) string {
	n := len(normTitle)
	l := 6 * n / 10
	if l < minPrefixLen {
		l = minPrefixLen
	}
	if l > n {
		l = n
	}
	return normTitle[:l]
}

// BestMatch picks the search candidate that is the same work as the query.
//
// Tier A accepts a candidate whose normalized title equals the query's,
// regardless of year or authors. Tier B accepts the first candidate, in
// provider order, whose normalized title contains the majority-length query
// prefix, whose publication year equals the query year when one was
// supplied, and whose authors overlap the query authors. No further
// ranking is applied between Tier B candidates.
func BestMatch(q model.PaperQuery, candidates []provider.Work) *provider.Work {
	normQ := NormalizeTitle(q.Title)
	if normQ == "" {
		return nil
	}

	for i := range candidates {
		if NormalizeTitle(candidates[i].Title) == normQ {
			return &candidates[i]
		}
	}

	prefix := TitlePrefix(normQ)
	for i := range candidates {
		c := &candidates[i]
		if c.Title == "" {
			continue
		}
		if !strings.Contains(NormalizeTitle(c.Title), prefix) {
			continue
		}
		if q.Year != "" && strconv.Itoa(c.Year) != q.Year {
			continue
		}
		if !AuthorsOverlap(q.Authors, strings.Join(c.Authors, ", ")) {
			continue
		}
		return c
	}
	return nil
}
