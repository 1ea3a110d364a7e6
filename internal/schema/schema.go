// Package schema orchestrates schema lifecycle operations the pipelines
// need on top of the bare model.Schema type: creating a schema when none is
// stored yet, inferring its primary key from the first document, and applying
// configuration-driven ranking rules (spec.md §3's "Schema created when
// the first document is added" lifecycle rule).
package schema

import (
	"github.com/gcbaptista/searchcore/config"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/model"
)

// LoadOrCreate returns the persisted schema, or a fresh empty one if none
// is stored yet. Unlike the main store's GetSchema, it never returns
// ErrSchemaMissing. The settings pipeline loads through it, so a settings
// update creates the schema; the addition and deletion pipelines require
// one to already exist.
func LoadOrCreate(existing *model.Schema, err error) (*model.Schema, error) {
	if err == nil {
		return existing, nil
	}
	if err == internalerrors.ErrSchemaMissing {
		return model.NewSchema(), nil
	}
	return nil, err
}

// InferPrimaryKey sets the schema's primary key from the first field name
// encountered in doc, preferring an exact match on conventional primary
// key field names (spec.md §3: "primary key inferred if not preset").
func InferPrimaryKey(s *model.Schema, fieldNames []string) {
	if s.HasPrimaryKey {
		return
	}
	for _, candidate := range conventionalPrimaryKeyNames {
		for _, name := range fieldNames {
			if name == candidate {
				s.SetPrimaryKey(name)
				return
			}
		}
	}
	if len(fieldNames) > 0 {
		s.SetPrimaryKey(fieldNames[0])
	}
}

var conventionalPrimaryKeyNames = []string{
	model.PrimaryKeyField,
	"id",
	"ID",
	"Id",
}

// ApplyRankingRules interns every ranking-rule field name into the schema
// and marks it ranked, from the caller's IndexSettings.
func ApplyRankingRules(s *model.Schema, settings *config.IndexSettings) error {
	if settings == nil || len(settings.RankingRules) == 0 {
		return nil
	}
	return s.ApplyRankingRules(settings.RankingRuleFieldNames())
}

// ApplyAttributesForFaceting interns every faceted field name into the
// schema so it has a stable FieldId, returning their ids. Faceting only
// needs the raw field value, not a tokenized posting list, so this does
// not mark the field indexed.
func ApplyAttributesForFaceting(s *model.Schema, settings *config.IndexSettings) ([]model.FieldId, error) {
	if settings == nil || len(settings.AttributesForFaceting) == 0 {
		return nil, nil
	}
	ids := make([]model.FieldId, 0, len(settings.AttributesForFaceting))
	for _, name := range settings.AttributesForFaceting {
		id, err := s.Intern(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ApplySearchableFields interns every searchable field name into the
// schema, in priority order, and marks it indexed. Field order here
// becomes the IndexedPosition order packed into posting records.
func ApplySearchableFields(s *model.Schema, settings *config.IndexSettings) error {
	if settings == nil {
		return nil
	}
	for _, name := range settings.SearchableFields {
		if _, err := s.InsertAndIndex(name); err != nil {
			return err
		}
	}
	return nil
}
