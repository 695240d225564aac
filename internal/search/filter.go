package search

import (
	"strconv"
	"strings"
	"unicode"

	"TalentScope-backend/internal/utilities"
)

// Special flag values accepted in FilterSpec.Special.
const (
	// SpecialOutsourcing keeps only candidates flagged as outsourcing hires
	SpecialOutsourcing = "outsourcing"
	// SpecialNoPhone is the data-quality flag. It keeps candidates whose
	// phone field is present, matching the shipped behavior of the source
	// system even though the label suggests the opposite.
	SpecialNoPhone = "noPhone"
)

// FilterSpec is one immutable filter configuration. Facets combine with
// AND; values inside a facet combine with OR. Empty facets are skipped.
type FilterSpec struct {
	Search       string   `json:"search"`
	Degrees      []string `json:"degrees"`
	SchoolTags   []string `json:"schoolTags"`
	MinYears     string   `json:"minYears"`
	CompanyTypes []string `json:"companyTypes"`
	Tags         []string `json:"tags"`
	Special      []string `json:"special"`
}

// IsZero reports whether no facet of the spec is active.
func (s *FilterSpec) IsZero() bool {
	return strings.TrimSpace(s.Search) == "" &&
		len(s.Degrees) == 0 &&
		len(s.SchoolTags) == 0 &&
		s.MinYears == "" &&
		len(s.CompanyTypes) == 0 &&
		len(s.Tags) == 0 &&
		len(s.Special) == 0
}

// Filter returns the subset of all that satisfies spec, preserving the
// input order. It is pure and never re-sorts: the caller owns the base
// ordering (typically server-side recency).
func Filter(all []CandidateView, spec FilterSpec) []CandidateView {
	tokens := splitTokens(spec.Search)
	minYears, minYearsOK := parseMinYears(spec.MinYears)

	result := make([]CandidateView, 0, len(all))
	for i := range all {
		c := &all[i]
		if !c.valid() {
			continue
		}
		if len(tokens) > 0 && !matchesAllTokens(c, tokens) {
			continue
		}
		if len(spec.Degrees) > 0 && !utilities.Contains(spec.Degrees, c.Degree) {
			continue
		}
		if len(spec.SchoolTags) > 0 && !intersects(c.SchoolTags, spec.SchoolTags) {
			continue
		}
		if minYearsOK && c.WorkYears < float64(minYears) {
			continue
		}
		if len(spec.CompanyTypes) > 0 && !intersects(c.CompanyTags, spec.CompanyTypes) {
			continue
		}
		if len(spec.Tags) > 0 && !intersects(c.Skills, spec.Tags) {
			continue
		}
		if utilities.Contains(spec.Special, SpecialOutsourcing) && !c.IsOutsourcing {
			continue
		}
		if utilities.Contains(spec.Special, SpecialNoPhone) && c.Phone == nil {
			continue
		}
		result = append(result, *c)
	}
	return result
}

func splitTokens(searchText string) []string {
	return strings.Fields(strings.TrimSpace(searchText))
}

// parseMinYears returns the threshold and whether the facet is active.
// Blank or non-numeric input deactivates the facet entirely.
func parseMinYears(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// matchesAllTokens is conjunctive: every token must appear somewhere in
// the candidate's corpus. Tokens containing CJK characters are matched by
// exact substring; everything else matches case-insensitively.
func matchesAllTokens(c *CandidateView, tokens []string) bool {
	corpus := c.Corpus()
	corpusLower := strings.ToLower(corpus)

	for _, token := range tokens {
		if containsHan(token) {
			if !strings.Contains(corpus, token) {
				return false
			}
			continue
		}
		if !strings.Contains(corpusLower, strings.ToLower(token)) {
			return false
		}
	}
	return true
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func intersects(values, selected []string) bool {
	for _, v := range values {
		if utilities.Contains(selected, v) {
			return true
		}
	}
	return false
}
