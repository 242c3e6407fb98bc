package data

import (
	"database/sql"
	"math"
	"time"

	"github.com/mchmarny/escape/pkg/escape"
	"github.com/pkg/errors"
)

const (
	ScoreListLimitDefault = 100

	upsertScore = `INSERT INTO score (x, y, score, iterations, escaped, hits, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(x, y) DO UPDATE SET
			score = excluded.score,
			iterations = excluded.iterations,
			escaped = excluded.escaped,
			hits = hits + 1,
			updated_at = excluded.updated_at
	`

	selectScore = `SELECT x, y, score, iterations, escaped, hits, created_at, updated_at
		FROM score WHERE x = ? AND y = ?
	`

	selectScores = `SELECT x, y, score, iterations, escaped, hits, created_at, updated_at
		FROM score ORDER BY updated_at DESC, rowid DESC LIMIT ?
	`

	selectStats = `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN escaped = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN escaped = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(hits), 0)
		FROM score
	`

	deleteScores = `DELETE FROM score`
)

// Score is a persisted escape result.
type Score struct {
	escape.Result `yaml:",inline"`
	Hits          int64     `json:"hits" yaml:"hits"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// Stats summarizes stored scores.
type Stats struct {
	Points  int64 `json:"points" yaml:"points"`
	Escaped int64 `json:"escaped" yaml:"escaped"`
	Bounded int64 `json:"bounded" yaml:"bounded"`
	Hits    int64 `json:"hits" yaml:"hits"`
}

// SaveScore stores the result, counting repeated saves of the same point.
func SaveScore(db *sql.DB, r escape.Result) error {
	if db == nil {
		return errDBNotInitialized
	}

	if !isFinite(r.X) || !isFinite(r.Y) {
		return errors.Errorf("point must be finite to be saved, got: (%v, %v)", r.X, r.Y)
	}

	stmt, err := db.Prepare(upsertScore)
	if err != nil {
		return errors.Wrap(err, "failed to prepare score upsert statement")
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixNano()
	if _, err = stmt.Exec(r.X, r.Y, r.Score, r.Iterations, r.Escaped, now, now); err != nil {
		return errors.Wrapf(err, "failed to save score for (%v, %v)", r.X, r.Y)
	}

	return nil
}

// GetScore returns the stored score for a point or ErrNotFound.
func GetScore(db *sql.DB, x, y float64) (*Score, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(selectScore)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare score select statement")
	}
	defer stmt.Close()

	s, err := scanScore(stmt.QueryRow(x, y))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to scan score")
	}
	return s, nil
}

// ListScores returns most recently updated scores first.
func ListScores(db *sql.DB, limit int) ([]*Score, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	if limit <= 0 {
		limit = ScoreListLimitDefault
	}

	stmt, err := db.Prepare(selectScores)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare score list statement")
	}
	defer stmt.Close()

	rows, err := stmt.Query(limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute score list statement")
	}
	defer rows.Close()

	list := make([]*Score, 0)
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan score row")
		}
		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate score rows")
	}

	return list, nil
}

// GetStats returns counts over all stored scores.
func GetStats(db *sql.DB) (*Stats, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	var s Stats
	if err := db.QueryRow(selectStats).Scan(&s.Points, &s.Escaped, &s.Bounded, &s.Hits); err != nil {
		return nil, errors.Wrap(err, "failed to query score stats")
	}
	return &s, nil
}

// DeleteScores removes all stored scores and returns how many were deleted.
func DeleteScores(db *sql.DB) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	res, err := db.Exec(deleteScores)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete scores")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get deleted row count")
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScore(row scanner) (*Score, error) {
	var s Score
	var created, updated int64
	if err := row.Scan(&s.X, &s.Y, &s.Score, &s.Iterations, &s.Escaped, &s.Hits, &created, &updated); err != nil {
		return nil, err
	}
	s.CreatedAt = time.Unix(0, created).UTC()
	s.UpdatedAt = time.Unix(0, updated).UTC()
	return &s, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
