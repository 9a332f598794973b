package workoutlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Postgres unique_violation; raised by the (user_id, log_date) unique index.
const pgUniqueViolationCode = "23505"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Insert stores a new log record. The unique index on (user_id, log_date)
// is the last line of defense against double logging; a violation comes
// back as ErrAlreadyLoggedToday.
func (r *Repo) Insert(ctx context.Context, record LogRecord) (_ *LogRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", record.UserID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_logs
				(user_id, workout_id, log_date, logged_at)
				VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		record.UserID, record.WorkoutID, record.LogDate, record.LoggedAt,
	).Scan(&record.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return nil, ErrAlreadyLoggedToday
		}
		return nil, fmt.Errorf("insert workout log: %w", err)
	}

	return &record, nil
}

// LatestLogDate returns the most recent log date for the user, or nil when
// nothing has been logged yet.
func (r *Repo) LatestLogDate(ctx context.Context, userID int) (_ *time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.latestlogdate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var logDate time.Time
	err = r.db.QueryRow(
		ctx,
		`SELECT log_date FROM workout_logs WHERE user_id = $1 ORDER BY log_date DESC LIMIT 1;`,
		userID,
	).Scan(&logDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	logDate = logDate.UTC()
	return &logDate, nil
}

// ListLogDates returns all log dates for the user, newest first.
func (r *Repo) ListLogDates(ctx context.Context, userID int) (_ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.listlogdates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT log_date FROM workout_logs WHERE user_id = $1 ORDER BY log_date DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	logDates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		logDates = append(logDates, d.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logDates, nil
}
