package recommendations

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// aggregate builds the three projections over the cohort's workouts. The
// projections are independent of each other, so they run concurrently over
// the same snapshot of the input. The input slice is never mutated.
func aggregate(cohortWorkouts []CohortWorkout, now time.Time) (
	popularExercises []PopularExercise,
	musclePatterns []MusclePattern,
	recentWorkouts []RecentWorkout,
) {
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		popularExercises = projectPopularExercises(cohortWorkouts)
	}()
	go func() {
		defer wg.Done()
		musclePatterns = projectMusclePatterns(cohortWorkouts)
	}()
	go func() {
		defer wg.Done()
		recentWorkouts = projectRecentWorkouts(cohortWorkouts, now)
	}()

	wg.Wait()
	return popularExercises, musclePatterns, recentWorkouts
}

type exerciseAccumulator struct {
	exercise PopularExercise
	ageSum   int
}

// projectPopularExercises counts how often each distinct exercise shows up
// across the cohort's workouts. Two snapshots are the same exercise only
// when the whole snapshot matches, instructions included; an edited
// instruction text is a different exercise.
func projectPopularExercises(cohortWorkouts []CohortWorkout) []PopularExercise {
	accumulators := make(map[string]*exerciseAccumulator)
	for _, w := range cohortWorkouts {
		for _, ex := range w.Exercises {
			key := strings.Join([]string{
				ex.Name, ex.Muscle, ex.Difficulty,
				ex.EquipmentType, ex.EquipmentSubtype, ex.Instructions,
			}, "|")
			acc, ok := accumulators[key]
			if !ok {
				acc = &exerciseAccumulator{
					exercise: PopularExercise{
						Name:          ex.Name,
						Muscle:        ex.Muscle,
						Difficulty:    ex.Difficulty,
						EquipmentType: ex.EquipmentType,
					},
				}
				accumulators[key] = acc
			}
			acc.exercise.UsageCount++
			acc.ageSum += w.OwnerAge
		}
	}

	popular := make([]PopularExercise, 0, len(accumulators))
	for _, acc := range accumulators {
		acc.exercise.AvgUserAge = roundToOneDecimal(float64(acc.ageSum) / float64(acc.exercise.UsageCount))
		popular = append(popular, acc.exercise)
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].UsageCount != popular[j].UsageCount {
			return popular[i].UsageCount > popular[j].UsageCount
		}
		return popular[i].Name < popular[j].Name
	})

	if len(popular) > popularExercisesCap {
		popular = popular[:popularExercisesCap]
	}
	return popular
}

type patternAccumulator struct {
	count  int
	ageSum int
}

// projectMusclePatterns groups workouts by their set of worked body parts.
// The set is normalized (deduplicated, sorted) so that "chest, triceps" and
// "triceps, chest" land in the same bucket.
func projectMusclePatterns(cohortWorkouts []CohortWorkout) []MusclePattern {
	accumulators := make(map[string]*patternAccumulator)
	for _, w := range cohortWorkouts {
		key := normalizePattern(w.BodyPartsWorked)
		if key == "" {
			continue
		}
		acc, ok := accumulators[key]
		if !ok {
			acc = &patternAccumulator{}
			accumulators[key] = acc
		}
		acc.count++
		acc.ageSum += w.OwnerAge
	}

	patterns := make([]MusclePattern, 0, len(accumulators))
	for key, acc := range accumulators {
		if acc.count < musclePatternMinWorkouts {
			continue
		}
		patterns = append(patterns, MusclePattern{
			MuscleGroups: key,
			PatternCount: acc.count,
			AvgUserAge:   roundToOneDecimal(float64(acc.ageSum) / float64(acc.count)),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].PatternCount != patterns[j].PatternCount {
			return patterns[i].PatternCount > patterns[j].PatternCount
		}
		return patterns[i].MuscleGroups < patterns[j].MuscleGroups
	})

	if len(patterns) > musclePatternsCap {
		patterns = patterns[:musclePatternsCap]
	}
	return patterns
}

// projectRecentWorkouts keeps workouts created in the lookback window,
// newest first. NamePopularity counts the other cohort workouts sharing
// the same name, so a lone workout scores zero.
func projectRecentWorkouts(cohortWorkouts []CohortWorkout, now time.Time) []RecentWorkout {
	nameCounts := make(map[string]int)
	for _, w := range cohortWorkouts {
		nameCounts[w.Name]++
	}

	cutoff := now.Add(-recentWorkoutsLookback)
	recent := make([]RecentWorkout, 0)
	for _, w := range cohortWorkouts {
		if w.CreatedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, RecentWorkout{
			Name:            w.Name,
			CreatedBy:       w.OwnerUsername,
			UserAge:         w.OwnerAge,
			CreatedAt:       w.CreatedAt,
			NamePopularity:  nameCounts[w.Name] - 1,
			BodyPartsWorked: w.BodyPartsWorked,
			WorkoutData:     w.Exercises,
		})
	}

	sort.Slice(recent, func(i, j int) bool {
		if !recent[i].CreatedAt.Equal(recent[j].CreatedAt) {
			return recent[i].CreatedAt.After(recent[j].CreatedAt)
		}
		return recent[i].NamePopularity > recent[j].NamePopularity
	})

	if len(recent) > recentWorkoutsCap {
		recent = recent[:recentWorkoutsCap]
	}
	return recent
}

func normalizePattern(bodyParts []string) string {
	if len(bodyParts) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(bodyParts))
	parts := make([]string, 0, len(bodyParts))
	for _, p := range bodyParts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		parts = append(parts, p)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
