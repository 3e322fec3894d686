package repository

import (
	"context"
	"time"

	"smart-parking/internal/infra"
	"smart-parking/internal/infra/db"
	"smart-parking/internal/usecase/shared"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const (
	jobStatusQueued = "queued"
	jobStatusSent   = "sent"
	jobStatusFailed = "failed"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(db db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	query, args, err := psql.Insert("notification_jobs").
		Columns("kind", "topic", "payload", "run_at", "status").
		Values(kind, topic, payload, runAt, jobStatusQueued).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build insert notification job query", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

// ClaimDue locks due queued jobs; concurrent relays skip each other's rows.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit uint64) ([]shared.NotificationJob, error) {
	query, args, err := psql.Select("id", "kind", "topic", "payload", "run_at", "attempts").
		From("notification_jobs").
		Where(squirrel.Eq{"status": jobStatusQueued}).
		Where(squirrel.LtOrEq{"run_at": now}).
		OrderBy("run_at").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build claim jobs query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var (
			j        shared.NotificationJob
			attempts int32
		)
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.RunAt, &attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		j.Attempts = int(attempts)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, psql.Update("notification_jobs").
		Set("status", jobStatusSent).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", nil))
}

// MarkFailed records the error and either reschedules the job or gives up on it.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time, giveUp bool) error {
	status := jobStatusQueued
	if giveUp {
		status = jobStatusFailed
	}
	return r.update(ctx, id, psql.Update("notification_jobs").
		Set("status", status).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", lastError).
		Set("run_at", retryAt))
}

func (r *NotificationRepository) update(ctx context.Context, id uuid.UUID, q squirrel.UpdateBuilder) error {
	query, args, err := q.
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build update notification job query", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("notification job not found")
	}
	return nil
}
