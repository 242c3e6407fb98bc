package data

import (
	"math"
	"testing"

	"github.com/mchmarny/escape/pkg/escape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveScore_NilDB(t *testing.T) {
	assert.ErrorIs(t, SaveScore(nil, escape.Iterate(0, 0)), errDBNotInitialized)

	_, err := GetScore(nil, 0, 0)
	assert.ErrorIs(t, err, errDBNotInitialized)

	_, err = ListScores(nil, 1)
	assert.ErrorIs(t, err, errDBNotInitialized)

	_, err = GetStats(nil)
	assert.ErrorIs(t, err, errDBNotInitialized)

	_, err = DeleteScores(nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
}

func TestSaveScore_NonFinite(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, SaveScore(db, escape.Iterate(math.NaN(), 0)))
	assert.Error(t, SaveScore(db, escape.Iterate(0, math.Inf(1))))
}

func TestSaveAndGetScore(t *testing.T) {
	db := setupTestDB(t)

	r := escape.Iterate(0.5, 0.5)
	require.NoError(t, SaveScore(db, r))

	s, err := GetScore(db, 0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, r, s.Result)
	assert.Equal(t, int64(1), s.Hits)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, s.CreatedAt, s.UpdatedAt)
}

func TestSaveScore_CountsHits(t *testing.T) {
	db := setupTestDB(t)

	r := escape.Iterate(1, 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, SaveScore(db, r))
	}

	s, err := GetScore(db, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Hits)
	assert.Equal(t, 3, s.Iterations)
	assert.True(t, s.Escaped)
	assert.False(t, s.UpdatedAt.Before(s.CreatedAt))
}

func TestGetScore_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetScore(db, 9, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListScores(t *testing.T) {
	db := setupTestDB(t)

	points := [][2]float64{{0, 0}, {1, 1}, {0.5, 0.5}, {3, 3}}
	for _, p := range points {
		require.NoError(t, SaveScore(db, escape.Iterate(p[0], p[1])))
	}

	list, err := ListScores(db, 0)
	require.NoError(t, err)
	assert.Len(t, list, len(points))

	// newest first
	assert.Equal(t, 3.0, list[0].X)
	assert.Equal(t, 0.0, list[len(list)-1].X)

	list, err = ListScores(db, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListScores_Empty(t *testing.T) {
	db := setupTestDB(t)

	list, err := ListScores(db, 10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)

	s, err := GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, s)

	require.NoError(t, SaveScore(db, escape.Iterate(0, 0)))
	require.NoError(t, SaveScore(db, escape.Iterate(0, 0)))
	require.NoError(t, SaveScore(db, escape.Iterate(3, 3)))
	require.NoError(t, SaveScore(db, escape.Iterate(1, 1)))

	s, err = GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Points)
	assert.Equal(t, int64(2), s.Escaped)
	assert.Equal(t, int64(1), s.Bounded)
	assert.Equal(t, int64(4), s.Hits)
}

func TestDeleteScores(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveScore(db, escape.Iterate(0, 0)))
	require.NoError(t, SaveScore(db, escape.Iterate(1, 1)))

	n, err := DeleteScores(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := ListScores(db, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
