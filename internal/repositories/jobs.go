package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// JobRepository expires job postings.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// ExpireDue marks active jobs whose expiry is at or before now as expired.
func (r *JobRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE jobs
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND expires_at <= $1
	`
	res, err := r.db.ExecContext(ctx, query, now)
	var rows int64
	if res != nil {
		rows, _ = res.RowsAffected()
	}
	logQuery(query, []any{now}, rows, err)
	return rows, err
}
