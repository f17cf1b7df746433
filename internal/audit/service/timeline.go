package service

import (
	"context"
	"fmt"

	"hospital-records/internal/audit/domain"
)

// PatientTimeline gathers every audit entry related to the patient (direct
// Patient entries plus any entry whose captured snapshot embeds the patient),
// sorts the unified set newest first, and partitions it by the entry's own
// entity type. Entries of other entity types are excluded from all buckets.
func (s *QueryService) PatientTimeline(ctx context.Context, patientID string) (*PatientTimeline, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, patientID)
	}

	entries, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	enriched, err := s.enrich(ctx, entries)
	if err != nil {
		return nil, err
	}

	tl := &PatientTimeline{Patient: p}
	for _, e := range enriched {
		switch e.EntityType {
		case domain.EntityPatient:
			tl.PatientLogs = append(tl.PatientLogs, e)
		case domain.EntityRequest:
			tl.RequestLogs = append(tl.RequestLogs, e)
		case domain.EntityReport:
			tl.ReportLogs = append(tl.ReportLogs, e)
		}
	}
	s.metrics.ObserveTimeline()
	return tl, nil
}
