// Package config provides the configuration structures persisted in the
// main store: ranking rules, faceted attributes, stop words and the rest
// of the per-index settings the schema and indexer consult while applying
// an update.
package config

import (
	"fmt"
	"strings"
)

// RankingRule names a field and a direction the (external) ranker should
// use it in. The order rules appear in IndexSettings.RankingRules is
// significant: it is the order the ranker applies them in.
type RankingRule struct {
	Field string `json:"field"`
	Order string `json:"order"` // "asc" or "desc"
}

// IndexSettings holds everything the main store persists under the
// "ranking-rules", "attributes-for-faceting", "distinct-attribute",
// "stop-words" and related keys (spec.md §4.2).
type IndexSettings struct {
	Name string `json:"name"`

	// SearchableFields lists fields fed to the RawIndexer, in priority
	// order.
	SearchableFields []string `json:"searchable_fields"`
	// FilterableFields lists fields callers filter on. Only ValidateFieldNames
	// reads it; the facets store indexes AttributesForFaceting, not this list.
	FilterableFields []string `json:"filterable_fields"`
	// AttributesForFaceting, when non-empty, enables the facet fan-out
	// step of the addition/deletion pipelines (spec.md §4.4 step 7,
	// §4.5 step 3).
	AttributesForFaceting []string `json:"attributes_for_faceting"`

	RankingRules  []RankingRule `json:"ranking_rules"`
	DistinctField string        `json:"distinct_field"`

	// FieldsWithoutPrefixSearch names fields to exclude from prefix search.
	// Only ValidateFieldNames reads it; the RawIndexer records prefix n-grams
	// for every indexed field, these included.
	FieldsWithoutPrefixSearch []string `json:"fields_without_prefix_search"`

	// StopWords feeds the RawIndexer's stop_words FST (spec.md §4.4 step 8).
	StopWords []string `json:"stop_words"`
	// Synonyms maps a word to its alternatives, consulted by the (external)
	// query engine; the indexing core only persists it.
	Synonyms map[string][]string `json:"synonyms"`
}

// knownFilterOperators lists filter-expression operators a field name must
// not collide with, so the (external) query engine's filter parser is
// never ambiguous about where a field name ends and an operator begins.
var knownFilterOperators = []string{
	"_contains_any_of",
	"_ncontains",
	"_contains",
	"_exact",
	"_gte",
	"_lte",
	"_gt",
	"_lt",
	"_ne",
	"_op",
}

// ApplyDefaults fills in zero-valued slices/maps so downstream code never
// has to nil-check them.
func (s *IndexSettings) ApplyDefaults() {
	if s.SearchableFields == nil {
		s.SearchableFields = []string{}
	}
	if s.FilterableFields == nil {
		s.FilterableFields = []string{}
	}
	if s.AttributesForFaceting == nil {
		s.AttributesForFaceting = []string{}
	}
	if s.RankingRules == nil {
		s.RankingRules = []RankingRule{}
	}
	if s.FieldsWithoutPrefixSearch == nil {
		s.FieldsWithoutPrefixSearch = []string{}
	}
	if s.StopWords == nil {
		s.StopWords = []string{}
	}
	if s.Synonyms == nil {
		s.Synonyms = map[string][]string{}
	}
}

// ValidateFieldNames reports field names that could collide with a filter
// operator suffix and confuse the (external) filter parser.
func (s *IndexSettings) ValidateFieldNames() []string {
	var conflicts []string

	allFields := make([]string, 0)
	allFields = append(allFields, s.SearchableFields...)
	allFields = append(allFields, s.FilterableFields...)
	allFields = append(allFields, s.FieldsWithoutPrefixSearch...)
	if s.DistinctField != "" {
		allFields = append(allFields, s.DistinctField)
	}
	for _, rule := range s.RankingRules {
		allFields = append(allFields, rule.Field)
	}

	for _, field := range allFields {
		for _, op := range knownFilterOperators {
			if strings.HasSuffix(field, op) && field != op {
				conflicts = append(conflicts, fmt.Sprintf("field %q ends with operator %q which may cause parsing conflicts", field, op))
			}
		}
	}

	return conflicts
}

// IsFaceted reports whether faceting is configured at all, gating the
// facet fan-out step of the addition/deletion pipelines.
func (s *IndexSettings) IsFaceted() bool {
	return len(s.AttributesForFaceting) > 0
}

// RankingRuleFieldNames returns the field names referenced by RankingRules,
// in order, for Schema.ApplyRankingRules.
func (s *IndexSettings) RankingRuleFieldNames() []string {
	names := make([]string, len(s.RankingRules))
	for i, r := range s.RankingRules {
		names[i] = r.Field
	}
	return names
}
