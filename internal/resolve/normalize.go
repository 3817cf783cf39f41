// Package resolve turns a loosely-specified paper query into the canonical
// record held by a bibliographic provider.
package resolve

import (
	"regexp"
	"strings"
)

var (
	doiURLRe    = regexp.MustCompile(`(?i)doi\.org/(.+)$`)
	arxivURLRe  = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/([0-9]{4}\.[0-9]{5})(?:v\d+)?`)
	arxivBareRe = regexp.MustCompile(`(?i)^(?:arxiv:)?([0-9]{4}\.[0-9]{5})$`)

	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	authorSplitRe = regexp.MustCompile(`(?i)[,;]|\band\b`)

	doiPrefixRe = regexp.MustCompile(`(?i)^https?://doi\.org/`)
)

// ParseIdentifier extracts persistent identifiers from a free-form string:
// a DOI URL, a bare DOI, an arXiv URL, or a bare arXiv id. It never fails;
// a string carrying no recognizable identifier yields an empty result.
func ParseIdentifier(raw string) (doi, arxiv string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ""
	}

	if strings.HasPrefix(strings.ToLower(s), "http") {
		if m := doiURLRe.FindStringSubmatch(s); m != nil {
			doi = strings.TrimSpace(m[1])
		}
		if m := arxivURLRe.FindStringSubmatch(s); m != nil {
			arxiv = m[1]
		}
		return doi, arxiv
	}

	if m := arxivBareRe.FindStringSubmatch(s); m != nil {
		return "", m[1]
	}

	// DOIs always contain a registrant/suffix separator.
	if strings.Contains(s, "/") {
		return s, ""
	}

	return "", ""
}

// StripDOIURL reduces a DOI given in URL form (https://doi.org/10.x/...) to
// the bare DOI. Bare DOIs pass through unchanged.
func StripDOIURL(doi string) string {
	return doiPrefixRe.ReplaceAllString(doi, "")
}

// NormalizeTitle canonicalizes a title for comparison: lowercase, every
// character outside [a-z0-9\s] becomes a space, whitespace runs collapse to
// one space. All title equality and substring checks in the system go
// through this form.
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = nonAlnumRe.ReplaceAllString(t, " ")
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// AuthorSet splits an author string on commas, semicolons, and the word
// "and" into a set of lowercased names.
func AuthorSet(authors string) map[string]struct{} {
	s := strings.ToLower(authors)
	if strings.TrimSpace(s) == "" {
		return map[string]struct{}{}
	}
	set := make(map[string]struct{})
	for _, part := range authorSplitRe.Split(s, -1) {
		name := strings.TrimSpace(part)
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// AuthorsOverlap reports whether two author strings share at least one name.
// An empty set on either side means "unknown" and never blocks a match.
func AuthorsOverlap(a, b string) bool {
	as := AuthorSet(a)
	bs := AuthorSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return true
	}
	for name := range as {
		if _, ok := bs[name]; ok {
			return true
		}
	}
	return false
}
