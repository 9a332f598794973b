package profiles

import (
	"context"

	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo is a read-only view over the profiles table; the profile update
// path lives outside this service.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	p := Profile{UserID: userID}
	err = r.db.QueryRow(
		ctx,
		`SELECT gender, age, weight, height FROM profiles WHERE user_id = $1;`,
		userID,
	).Scan(&p.Gender, &p.Age, &p.Weight, &p.Height)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}
