package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{0, BandFoundational},
		{3.9, BandFoundational},
		{4.0, BandIntermediate},
		{6.9, BandIntermediate},
		{7.0, BandAdvanced},
		{10, BandAdvanced},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.score), "score %v", tt.score)
	}
}

func TestGenerateRecommendations_BandBoundaries(t *testing.T) {
	recs := GenerateRecommendations(DreamScores{
		Demand:    4.0,
		Revenue:   7.0,
		Engine:    3.9,
		Admin:     6.9,
		Marketing: 10,
	})

	assert.Len(t, recs, len(AllPillars))
	assert.Equal(t, RecommendationTable[PillarDemand][BandIntermediate], recs[PillarDemand])
	assert.Equal(t, RecommendationTable[PillarRevenue][BandAdvanced], recs[PillarRevenue])
	assert.Equal(t, RecommendationTable[PillarEngine][BandFoundational], recs[PillarEngine])
	assert.Equal(t, RecommendationTable[PillarAdmin][BandIntermediate], recs[PillarAdmin])
	assert.Equal(t, RecommendationTable[PillarMarketing][BandAdvanced], recs[PillarMarketing])
}

func TestGenerateRecommendations_ReturnsCopies(t *testing.T) {
	recs := GenerateRecommendations(DreamScores{})
	original := RecommendationTable[PillarDemand][BandFoundational][0]

	recs[PillarDemand][0] = "changed"
	assert.Equal(t, original, RecommendationTable[PillarDemand][BandFoundational][0])
}

func TestRecommendationTable_Complete(t *testing.T) {
	for _, p := range AllPillars {
		for _, b := range []Band{BandFoundational, BandIntermediate, BandAdvanced} {
			assert.NotEmpty(t, RecommendationTable[p][b], "%s/%s", p, b)
		}
	}
}
