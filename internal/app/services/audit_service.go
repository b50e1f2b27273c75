package services

import (
	"context"

	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/app/repositories"
)

// AuditService serves the admin-facing views over the verification
// trail and the dashboard counters.
type AuditService struct {
	events   *repositories.VerificationEventRepository
	diplomas *repositories.DiplomaRepository
	students *repositories.StudentRepository
}

// NewAuditService creates an audit service.
func NewAuditService(
	events *repositories.VerificationEventRepository,
	diplomas *repositories.DiplomaRepository,
	students *repositories.StudentRepository,
) *AuditService {
	return &AuditService{events: events, diplomas: diplomas, students: students}
}

// ListEvents returns verification events, newest first, with the
// resolved diploma and holder attached where available.
func (s *AuditService) ListEvents(ctx context.Context, diplomaID *int64, page, pageSize int) ([]*dto.VerificationEventSummary, int64, error) {
	events, total, err := s.events.List(ctx, diplomaID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]*dto.VerificationEventSummary, 0, len(events))
	for _, ev := range events {
		summary := &dto.VerificationEventSummary{
			ID:         ev.ID,
			OccurredAt: ev.OccurredAt,
			SourceIP:   ev.SourceIP,
			Outcome:    ev.Outcome,
		}

		if ev.DiplomaID != nil {
			if diploma, err := s.diplomas.GetByID(ctx, *ev.DiplomaID); err == nil {
				summary.Diploma = &dto.EventDiploma{
					ID:        diploma.ID,
					AwardYear: diploma.AwardYear,
				}
				if diploma.Student != nil {
					summary.Student = &dto.EventStudent{
						Name:      diploma.Student.NameFR,
						Matricule: diploma.Student.Matricule,
					}
					if diploma.Program != nil {
						summary.Student.Program = diploma.Program.NameFR
					}
				}
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

// DashboardStats aggregates the registry counters.
func (s *AuditService) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	students, err := s.students.Count(ctx)
	if err != nil {
		return nil, err
	}

	_, active, cancelled, err := s.diplomas.CountByState(ctx)
	if err != nil {
		return nil, err
	}

	_, succeeded, failed, err := s.events.Counts(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		Students:              students,
		Diplomas:              active + cancelled,
		CancelledDiplomas:     cancelled,
		VerificationSuccesses: succeeded,
		VerificationFailures:  failed,
	}, nil
}
