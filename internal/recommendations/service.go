package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spartacus-fitness/backend/internal/dates"
	"github.com/spartacus-fitness/backend/internal/profiles"
	"github.com/spartacus-fitness/backend/internal/telemetry/metrics"
	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	cacheExpireSeconds = 5 * 60
	cacheSizeBytes     = 10 * 1024 * 1024
)

type profileGetter interface {
	Get(ctx context.Context, userID int) (*profiles.Profile, error)
}

type cohortRepo interface {
	FindCohortMembers(ctx context.Context, callerID int, gender string, minAge, maxAge int) ([]int, error)
	ListCohortWorkouts(ctx context.Context, memberIDs []int) ([]CohortWorkout, error)
}

type Service struct {
	repo           cohortRepo
	profilesRepo   profileGetter
	cache          *freecache.Cache
	dateProvider   *dates.Provider
	metricsManager *metrics.Manager
}

func NewService(
	repo cohortRepo,
	profilesRepo profileGetter,
	dateProvider *dates.Provider,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		profilesRepo:   profilesRepo,
		cache:          freecache.NewCache(cacheSizeBytes),
		dateProvider:   dateProvider,
		metricsManager: metricsManager,
	}
}

// GetRecommendations builds the recommendation payload for the user from
// the workouts of their cohort. Responses are cached for a few minutes;
// recommendations do not need to be second-fresh and the aggregation is
// the most expensive read path in the service.
func (s *Service) GetRecommendations(ctx context.Context, userID int) (_ *Response, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recommendations.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	cacheKey := []byte(fmt.Sprintf("recs:%d", userID))
	if cached, err := s.cache.Get(cacheKey); err == nil {
		var resp Response
		if err := json.Unmarshal(cached, &resp); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			s.metricsManager.CounterRecommendations.Inc()
			return &resp, nil
		}
		log.Warnf("unmarshal cached recommendations for user %d failed, rebuilding", userID)
	}

	profile, err := s.profilesRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return nil, IncompleteProfileError{Missing: []string{"gender", "age"}}
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var missing []string
	if profile.Gender == nil || *profile.Gender == "" {
		missing = append(missing, "gender")
	}
	if profile.Age == nil {
		missing = append(missing, "age")
	}
	if len(missing) > 0 {
		return nil, IncompleteProfileError{Missing: missing}
	}

	minAge := *profile.Age - cohortAgeWindow
	if minAge < 0 {
		minAge = 0
	}
	maxAge := *profile.Age + cohortAgeWindow

	resp := &Response{
		UserProfile: UserProfileSummary{
			Gender:   *profile.Gender,
			Age:      *profile.Age,
			AgeRange: fmt.Sprintf("%d-%d", minAge, maxAge),
		},
		PopularExercises:    []PopularExercise{},
		PopularMuscleGroups: []MusclePattern{},
		RecentWorkouts:      []RecentWorkout{},
	}

	members, err := s.repo.FindCohortMembers(ctx, userID, *profile.Gender, minAge, maxAge)
	if err != nil {
		return nil, fmt.Errorf("find cohort members: %w", err)
	}
	resp.SimilarUsersCount = len(members)

	if len(members) > 0 {
		// one fetch, three concurrent projections over the same snapshot
		cohortWorkouts, err := s.repo.ListCohortWorkouts(ctx, members)
		if err != nil {
			return nil, fmt.Errorf("list cohort workouts: %w", err)
		}
		resp.PopularExercises, resp.PopularMuscleGroups, resp.RecentWorkouts =
			aggregate(cohortWorkouts, s.dateProvider.Now())
	}

	if respJson, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(cacheKey, respJson, cacheExpireSeconds); err != nil {
			log.Warnf("cache recommendations for user %d: %s", userID, err)
		}
	}

	s.metricsManager.CounterRecommendations.Inc()

	return resp, nil
}

// InvalidateCache drops the cached payload for the user, e.g. after they
// save a new workout.
func (s *Service) InvalidateCache(userID int) {
	s.cache.Del([]byte(fmt.Sprintf("recs:%d", userID)))
}
