package pipeline

import (
	"time"

	"github.com/gcbaptista/searchcore/config"
	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/internal/mainstore"
	internalschema "github.com/gcbaptista/searchcore/internal/schema"
)

// ApplySettings persists settings and folds its searchable/ranked/faceted
// field declarations into the schema, per spec.md §4.6. It never touches
// already-indexed documents: a newly declared searchable or faceted field
// only takes effect for documents added or re-added afterward.
func ApplySettings(tx *kv.Tx, settings *config.IndexSettings) error {
	settings.ApplyDefaults()

	main := mainstore.New(tx)
	sch, err := internalschema.LoadOrCreate(main.GetSchema())
	if err != nil {
		return err
	}

	if err := internalschema.ApplySearchableFields(sch, settings); err != nil {
		return err
	}
	if err := internalschema.ApplyRankingRules(sch, settings); err != nil {
		return err
	}
	attributeIDs, err := internalschema.ApplyAttributesForFaceting(sch, settings)
	if err != nil {
		return err
	}

	if err := main.PutSchema(sch); err != nil {
		return err
	}
	if err := main.PutName(settings.Name); err != nil {
		return err
	}
	if err := main.PutRankingRules(settings.RankingRules); err != nil {
		return err
	}
	if err := main.PutAttributesForFaceting(attributeIDs); err != nil {
		return err
	}
	if err := main.PutDistinctAttribute(settings.DistinctField); err != nil {
		return err
	}
	if err := main.PutSynonyms(settings.Synonyms); err != nil {
		return err
	}

	stopWordsFST, err := buildStopWordsFST(settings.StopWords)
	if err != nil {
		return err
	}
	if err := main.PutStopWordsFST(stopWordsFST); err != nil {
		return err
	}

	return main.TouchUpdatedAt(time.Now())
}

// buildStopWordsFST builds the FST backing the RawIndexer's stop-word
// lookup from a plain word list (spec.md §4.4 step 8). Values are unused;
// only membership matters.
func buildStopWordsFST(words []string) ([]byte, error) {
	entries := make([]fstutil.Entry, 0, len(words))
	for _, w := range words {
		entries = append(entries, fstutil.Entry{Term: []byte(w), Value: 0})
	}
	return fstutil.Build(entries)
}
