package config

import "testing"

func TestValidateFieldNames(t *testing.T) {
	tests := []struct {
		name           string
		settings       IndexSettings
		expectedErrors int
	}{
		{
			name: "ranking rules can reference any field",
			settings: IndexSettings{
				Name:             "test_index",
				SearchableFields: []string{"title", "content"},
				FilterableFields: []string{"category", "year"},
				RankingRules: []RankingRule{
					{Field: "popularity", Order: "desc"},
					{Field: "rating", Order: "asc"},
				},
			},
			expectedErrors: 0,
		},
		{
			name: "distinct field can be any field",
			settings: IndexSettings{
				Name:             "test_index",
				SearchableFields: []string{"title", "content"},
				FilterableFields: []string{"category", "year"},
				DistinctField:    "uuid",
			},
			expectedErrors: 0,
		},
		{
			name: "field name colliding with filter operator suffix fails",
			settings: IndexSettings{
				Name:             "test_index",
				SearchableFields: []string{"title", "content"},
				FilterableFields: []string{"category_gte"},
			},
			expectedErrors: 1,
		},
		{
			name: "field name equal to an operator is allowed",
			settings: IndexSettings{
				Name:             "test_index",
				FilterableFields: []string{"_gte"},
			},
			expectedErrors: 0,
		},
		{
			name: "comprehensive valid configuration",
			settings: IndexSettings{
				Name:             "test_index",
				SearchableFields: []string{"title", "content", "description"},
				FilterableFields: []string{"category", "year", "status"},
				RankingRules: []RankingRule{
					{Field: "popularity", Order: "desc"},
					{Field: "created_at", Order: "asc"},
				},
				DistinctField:             "uuid",
				FieldsWithoutPrefixSearch: []string{"title"},
			},
			expectedErrors: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.settings.ApplyDefaults()

			errs := tt.settings.ValidateFieldNames()
			if len(errs) != tt.expectedErrors {
				t.Errorf("expected %d errors, got %d: %v", tt.expectedErrors, len(errs), errs)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var s IndexSettings
	s.ApplyDefaults()

	if s.SearchableFields == nil || s.FilterableFields == nil || s.AttributesForFaceting == nil ||
		s.RankingRules == nil || s.FieldsWithoutPrefixSearch == nil || s.StopWords == nil || s.Synonyms == nil {
		t.Fatal("ApplyDefaults left a nil slice/map")
	}
}

func TestIsFaceted(t *testing.T) {
	var s IndexSettings
	s.ApplyDefaults()
	if s.IsFaceted() {
		t.Fatal("expected IsFaceted to be false with no attributes configured")
	}
	s.AttributesForFaceting = []string{"genre"}
	if !s.IsFaceted() {
		t.Fatal("expected IsFaceted to be true once attributes are configured")
	}
}
