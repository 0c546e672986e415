package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mangashelf/internal/library"
)

func rated(v int) *int { return &v }

func TestNormalizeGenre(t *testing.T) {
	tests := map[string]string{
		"action":        "Action",
		"ACTION":        "Action",
		"Action":        "Action",
		"  sci-FI ":     "Sci-fi",
		"slice of life": "Slice of life",
		"":              "",
		"   ":           "",
		"école":         "École",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeGenre(in), "input %q", in)
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		name  string
		entry library.Entry
		want  int
	}{
		{name: "completed rated 8", entry: library.Entry{Rating: rated(8), Status: library.StatusCompleted}, want: 67},
		{name: "reading rated 10", entry: library.Entry{Rating: rated(10), Status: library.StatusReading}, want: 105},
		{name: "plan to read rated 3", entry: library.Entry{Rating: rated(3), Status: library.StatusPlanToRead}, want: 9},
		{name: "unrated reading", entry: library.Entry{Status: library.StatusReading}, want: 5},
		{name: "unrated unknown status", entry: library.Entry{}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Weight(tt.entry))
		})
	}
}

func TestScoreGenres_SingleEntry(t *testing.T) {
	ranking := ScoreGenres([]library.Entry{
		{Genres: []string{"Action"}, Rating: rated(8), Status: library.StatusCompleted},
	})

	assert.Equal(t, []GenreScore{{Genre: "Action", Weight: 67}}, ranking)
	assert.Equal(t, "Action", SelectTarget("", ranking, "Adventure"))
}

func TestScoreGenres_MergesCase(t *testing.T) {
	ranking := ScoreGenres([]library.Entry{
		{Genres: []string{"action"}, Rating: rated(2), Status: library.StatusPlanToRead},
		{Genres: []string{"ACTION", "Comedy"}, Rating: rated(3), Status: library.StatusPlanToRead},
		{Genres: []string{"Action"}, Rating: rated(1), Status: library.StatusPlanToRead},
	})

	assert.Equal(t, []GenreScore{
		{Genre: "Action", Weight: 4 + 9 + 1},
		{Genre: "Comedy", Weight: 9},
	}, ranking)
	for _, gs := range ranking {
		assert.Equal(t, NormalizeGenre(gs.Genre), gs.Genre)
	}
}

func TestScoreGenres_RepeatedTagAddsEachTime(t *testing.T) {
	ranking := ScoreGenres([]library.Entry{
		{Genres: []string{"Action", "ACTION"}, Rating: rated(8), Status: library.StatusCompleted},
		{Genres: []string{"Drama", "drama", "DRAMA"}, Rating: rated(5), Status: library.StatusReading},
	})

	assert.Equal(t, []GenreScore{{Genre: "Action", Weight: 134}, {Genre: "Drama", Weight: 90}}, ranking)
}

func TestNormalizeGenre_InvalidUTF8IsSkipped(t *testing.T) {
	assert.Equal(t, "", NormalizeGenre("\xffaction"))
	assert.Equal(t, "", NormalizeGenre("act\xc3ion"))
	assert.Equal(t, "Émotion", NormalizeGenre("ÉMOTION"))

	ranking := ScoreGenres([]library.Entry{
		{Genres: []string{"\xffhorror", "Horror"}, Rating: rated(3), Status: library.StatusPlanToRead},
	})
	assert.Equal(t, []GenreScore{{Genre: "Horror", Weight: 9}}, ranking)
}

func TestScoreGenres_TiesKeepFirstSeen(t *testing.T) {
	ranking := ScoreGenres([]library.Entry{
		{Genres: []string{"Romance"}, Rating: rated(4), Status: library.StatusPlanToRead},
		{Genres: []string{"Horror"}, Rating: rated(4), Status: library.StatusPlanToRead},
		{Genres: []string{"Sports"}, Rating: rated(9), Status: library.StatusPlanToRead},
	})

	assert.Equal(t, []string{"Sports", "Romance", "Horror"}, genresOf(ranking))
}

func TestScoreGenres_SkipsEntriesWithoutGenres(t *testing.T) {
	ranking := ScoreGenres([]library.Entry{
		{Rating: rated(10), Status: library.StatusReading},
		{Genres: []string{"", "  "}, Rating: rated(10), Status: library.StatusReading},
	})

	assert.Empty(t, ranking)
}

func TestScoreGenres_DoesNotMutateInput(t *testing.T) {
	entries := []library.Entry{{Genres: []string{"action"}, Rating: rated(1)}}
	ScoreGenres(entries)
	assert.Equal(t, []string{"action"}, entries[0].Genres)
}

func TestSelectTarget(t *testing.T) {
	ranking := []GenreScore{{Genre: "Horror", Weight: 50}, {Genre: "Comedy", Weight: 10}}

	assert.Equal(t, "Romance", SelectTarget("romance", ranking, "Adventure"))
	assert.Equal(t, "Slice of life", SelectTarget(" SLICE OF LIFE ", ranking, "Adventure"))
	assert.Equal(t, "Horror", SelectTarget("", ranking, "Adventure"))
	assert.Equal(t, "Horror", SelectTarget("   ", ranking, "Adventure"))
	assert.Equal(t, "Adventure", SelectTarget("", nil, "Adventure"))
}

func genresOf(r []GenreScore) []string {
	out := make([]string, 0, len(r))
	for _, gs := range r {
		out = append(out, gs.Genre)
	}
	return out
}
