package db

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kyager/retailfact/internal/model"
)

// factSource implements pgx.CopyFromSource over a slice of enriched records,
// tagging each COPY row with the run that produced it.
type factSource struct {
	runID   uuid.UUID
	records []model.EnrichedRecord
	pos     int
}

func newFactSource(runID uuid.UUID, records []model.EnrichedRecord) *factSource {
	return &factSource{runID: runID, records: records, pos: -1}
}

// Next advances to the next record.
func (s *factSource) Next() bool {
	s.pos++
	return s.pos < len(s.records)
}

// Values returns the current record's values in FactColumns order.
func (s *factSource) Values() ([]any, error) {
	return s.records[s.pos].CopyValues(s.runID), nil
}

// Err returns any error encountered during iteration.
func (s *factSource) Err() error { return nil }

var _ pgx.CopyFromSource = (*factSource)(nil)
