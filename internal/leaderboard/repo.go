package leaderboard

import (
	"context"
	"fmt"

	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Top returns the users with the most logged workouts, up to the public
// leaderboard limit.
func (r *Repo) Top(ctx context.Context) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.leaderboard.top")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT u.username, COUNT(*) AS c
			FROM workout_logs wl
			JOIN users u ON u.id = wl.user_id
			GROUP BY u.username
			ORDER BY c DESC, u.username ASC
			LIMIT $1;`,
		topLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Username, &e.Logs); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
