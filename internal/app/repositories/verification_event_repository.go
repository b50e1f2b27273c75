package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isms-esp/diploma-registry/internal/app/models"
)

// VerificationEventRepository handles the verification audit trail
type VerificationEventRepository struct {
	db *pgxpool.Pool
}

// NewVerificationEventRepository creates a new verification event repository
func NewVerificationEventRepository(db *pgxpool.Pool) *VerificationEventRepository {
	return &VerificationEventRepository{db: db}
}

// Append records a verification attempt. diplomaID is nil when the
// attempt did not resolve to a diploma.
func (r *VerificationEventRepository) Append(ctx context.Context, diplomaID *int64, sourceIP, outcome string) error {
	query := `
		INSERT INTO verification_events (diploma_id, source_ip, outcome)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, diplomaID, sourceIP, outcome); err != nil {
		return fmt.Errorf("error appending verification event: %w", err)
	}
	return nil
}

// List retrieves events most recent first, optionally for one diploma,
// paginated.
func (r *VerificationEventRepository) List(ctx context.Context, diplomaID *int64, page, pageSize int) ([]*models.VerificationEvent, int64, error) {
	query := squirrel.Select(
		"id", "diploma_id", "occurred_at", "source_ip", "outcome", "COUNT(*) OVER()").
		From("verification_events").
		OrderBy("occurred_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if diplomaID != nil {
		query = query.Where("diploma_id = ?", *diplomaID)
	}
	if page > 0 && pageSize > 0 {
		query = query.Limit(uint64(pageSize)).Offset(uint64((page - 1) * pageSize))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing verification events: %w", err)
	}
	defer rows.Close()

	var events []*models.VerificationEvent
	var total int64
	for rows.Next() {
		var ev models.VerificationEvent
		if err := rows.Scan(&ev.ID, &ev.DiplomaID, &ev.OccurredAt, &ev.SourceIP, &ev.Outcome, &total); err != nil {
			return nil, 0, fmt.Errorf("error scanning verification event: %w", err)
		}
		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// Counts returns totals for the dashboard split by outcome.
func (r *VerificationEventRepository) Counts(ctx context.Context) (total, succeeded, failed int64, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE outcome = $1),
		       COUNT(*) FILTER (WHERE outcome = $2)
		FROM verification_events`,
		models.VerificationSuccess, models.VerificationFailed,
	).Scan(&total, &succeeded, &failed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("error counting verification events: %w", err)
	}
	return total, succeeded, failed, nil
}
