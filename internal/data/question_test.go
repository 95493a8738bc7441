package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yola1107/quizpoker/internal/model"
)

func newTestRepo(t *testing.T) *QuestionRepo {
	t.Helper()
	d, cleanup, err := NewData(filepath.Join(t.TempDir(), "questions.db"))
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return NewQuestionRepo(d)
}

func sample() *model.Question {
	return &model.Question{
		Author:     "alice",
		Language:   model.LangEnglish,
		Difficulty: model.DifficultyMedium,
		Category:   model.CatGeography,
		Question:   "How high is Mount Everest in metres?",
		Answer:     8848,
		AnswerUnit: "m",
		Hints:      []string{"taller than K2", "first climbed in 1953"},
	}
}

func TestNewDataRequiresPath(t *testing.T) {
	_, _, err := NewData("  ")
	assert.Error(t, err)
}

func TestQuestionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sample())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotZero(t, created.CreatedAt)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Question, got.Question)
	assert.Equal(t, created.Answer, got.Answer)
	assert.Equal(t, created.Hints, got.Hints)

	got.Answer = 8849
	got.Hints = append(got.Hints, "remeasured in 2020")
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(8849), again.Answer)
	assert.Len(t, again.Hints, 3)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrQuestionNotFound)
	assert.ErrorIs(t, repo.Update(ctx, got), ErrQuestionNotFound)
}

func TestQueryRandomFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []*model.Question{
		sample(),
		{Language: model.LangGerman, Difficulty: model.DifficultyEasy, Category: model.CatHistory,
			Question: "Wie viele Bundesländer hat Deutschland?", Answer: 16},
		{Language: model.LangEnglish, Difficulty: model.DifficultyHard, Category: model.CatHistory,
			Question: "In what year did the Western Roman Empire fall?", Answer: 476},
	}
	for _, q := range seed {
		_, err := repo.Create(ctx, q)
		require.NoError(t, err)
	}

	all, err := repo.QueryRandom(ctx, &model.QuestionQuery{Amount: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3, "empty filters match everything")

	english, err := repo.QueryRandom(ctx, &model.QuestionQuery{
		Amount:    10,
		Languages: []model.Language{model.LangEnglish},
	})
	require.NoError(t, err)
	assert.Len(t, english, 2)

	hardHistory, err := repo.QueryRandom(ctx, &model.QuestionQuery{
		Amount:       10,
		Categories:   []model.Category{model.CatHistory},
		Difficulties: []model.Difficulty{model.DifficultyHard},
	})
	require.NoError(t, err)
	require.Len(t, hardHistory, 1)
	assert.Equal(t, float64(476), hardHistory[0].Answer)

	one, err := repo.QueryRandom(ctx, &model.QuestionQuery{Amount: 1})
	require.NoError(t, err)
	assert.Len(t, one, 1, "the amount caps the draw")

	none, err := repo.QueryRandom(ctx, &model.QuestionQuery{
		Amount:     10,
		Categories: []model.Category{model.CatMythology},
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := sample()
	older.CreatedAt = 1000
	newer := sample()
	newer.CreatedAt = 2000
	newer.Question = "newer"

	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Question)
}
