package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
)

// DataGenerator builds realistic score rows from a fixed seed.
type DataGenerator struct {
	faker *gofakeit.Faker
}

// NewDataGenerator creates a generator. The same seed yields the same data.
func NewDataGenerator(seed uint64) *DataGenerator {
	return &DataGenerator{faker: gofakeit.New(seed)}
}

// ShooterName returns a random full name.
func (g *DataGenerator) ShooterName() string {
	return g.faker.FirstName() + " " + g.faker.LastName()
}

// Club returns a random club name.
func (g *DataGenerator) Club() string {
	return g.faker.City() + " Rifle Club"
}

// Score returns a valid stored score for shooter in the given match.
func (g *DataGenerator) Score(batchID, event, match, class, shooter, club, status string) *scoredb.Score {
	var series [scoredomain.SeriesCount]float64
	var total float64
	for i := range series {
		series[i] = float64(g.faker.IntRange(900, 1090)) / 10
		total += series[i]
	}
	return &scoredb.Score{
		ID:               uuid.New(),
		BatchID:          batchID,
		EventName:        event,
		MatchNumber:      match,
		ShooterName:      shooter,
		Club:             club,
		CompetitionClass: class,
		Veteran:          g.faker.Bool(),
		Series1:          series[0],
		Series2:          series[1],
		Series3:          series[2],
		Series4:          series[3],
		Series5:          series[4],
		Series6:          series[5],
		Total:            total,
		XCount:           g.faker.IntRange(0, 30),
		Status:           status,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
}

// Match returns n scores for one match with distinct shooters.
func (g *DataGenerator) Match(batchID, event, match, class, status string, n int) []*scoredb.Score {
	scores := make([]*scoredb.Score, n)
	for i := range scores {
		scores[i] = g.Score(batchID, event, match, class, fmt.Sprintf("%s %d", g.ShooterName(), i), g.Club(), status)
	}
	return scores
}
