// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tomtom215/cinerules/internal/config"
	"github.com/tomtom215/cinerules/internal/logging"
	"github.com/tomtom215/cinerules/internal/metrics"
	"github.com/tomtom215/cinerules/internal/recommend"
)

// ETLStats counts the rows that survive each ingestion step.
type ETLStats struct {
	RatingRows    int64 `json:"rating_rows"`
	ValidRatings  int64 `json:"valid_ratings"`
	MovieRows     int64 `json:"movie_rows"`
	ValidMovies   int64 `json:"valid_movies"`
	JoinedRows    int64 `json:"joined_rows"`
	LikedRows     int64 `json:"liked_rows"`
	Users         int64 `json:"users"`
	DistinctTitle int64 `json:"distinct_titles"`
}

// UserLikes is one user's liked titles in title order.
type UserLikes struct {
	UserID int64
	Titles []string
}

// RatingsSource builds liked-movie transactions from the ratings and movie
// metadata CSV files. It implements recommend.TransactionSource.
type RatingsSource struct {
	db  *DB
	cfg config.DataConfig
}

// NewRatingsSource creates a source reading the files named in cfg.
func NewRatingsSource(db *DB, cfg config.DataConfig) *RatingsSource {
	return &RatingsSource{db: db, cfg: cfg}
}

// etlQuery returns the CTE chain shared by the load and stats queries.
//
// Each file is truncated to RowLimit rows before ids are coerced, rows with
// a non numeric movie id are dropped, ratings join movies on the movie id and
// only ratings strictly above LikeThreshold are kept.
func (s *RatingsSource) etlQuery() string {
	limit := ""
	if s.cfg.RowLimit > 0 {
		limit = "LIMIT " + strconv.Itoa(s.cfg.RowLimit)
	}

	return fmt.Sprintf(`
		WITH ratings_raw AS (
			SELECT * FROM read_csv(%s, header = true, all_varchar = true)
			%s
		),
		movies_raw AS (
			SELECT * FROM read_csv(%s, header = true, all_varchar = true)
			%s
		),
		ratings AS (
			SELECT
				TRY_CAST("userId" AS BIGINT) AS user_id,
				TRY_CAST("movieId" AS DOUBLE) AS movie_id,
				TRY_CAST("rating" AS DOUBLE) AS rating
			FROM ratings_raw
			WHERE TRY_CAST("movieId" AS DOUBLE) IS NOT NULL
		),
		movies AS (
			SELECT
				TRY_CAST("id" AS DOUBLE) AS movie_id,
				"title" AS title
			FROM movies_raw
			WHERE TRY_CAST("id" AS DOUBLE) IS NOT NULL
		),
		joined AS (
			SELECT r.user_id, r.rating, m.title
			FROM ratings r
			JOIN movies m ON r.movie_id = m.movie_id
		),
		liked AS (
			SELECT user_id, title
			FROM joined
			WHERE rating > %s
			  AND user_id IS NOT NULL
			  AND title IS NOT NULL
			  AND trim(title) <> ''
		)`,
		quoteLiteral(s.cfg.RatingsPath), limit,
		quoteLiteral(s.cfg.MoviesPath), limit,
		strconv.FormatFloat(s.cfg.LikeThreshold, 'g', -1, 64),
	)
}

// checkFiles reports a missing input with its config key.
func (s *RatingsSource) checkFiles() error {
	for _, f := range []struct{ key, path string }{
		{"data.ratings_path", s.cfg.RatingsPath},
		{"data.movies_path", s.cfg.MoviesPath},
	} {
		if _, err := os.Stat(f.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%s: file %q does not exist", f.key, f.path)
			}
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return nil
}

// LikedMovies returns every user with at least one liked title, ordered by
// user id. Duplicate titles per user are collapsed.
func (s *RatingsSource) LikedMovies(ctx context.Context) ([]UserLikes, error) {
	if err := s.checkFiles(); err != nil {
		return nil, err
	}

	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	query := s.etlQuery() + `
		SELECT DISTINCT user_id, title
		FROM liked
		ORDER BY user_id, title`

	start := time.Now()
	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		metrics.RecordDBQuery("SELECT", "liked", time.Since(start), err)
		return nil, fmt.Errorf("query liked movies: %w", err)
	}
	defer closeWithLog(rows, nil, "liked movies rows")

	users, err := collectLikes(rows)
	metrics.RecordDBQuery("SELECT", "liked", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// likeRows is the part of *sql.Rows collectLikes reads.
type likeRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// collectLikes groups (user_id, title) rows ordered by user into UserLikes.
func collectLikes(rows likeRows) ([]UserLikes, error) {
	var users []UserLikes
	for rows.Next() {
		var (
			userID int64
			title  string
		)
		if err := rows.Scan(&userID, &title); err != nil {
			return nil, fmt.Errorf("scan liked movie: %w", err)
		}
		if n := len(users); n == 0 || users[n-1].UserID != userID {
			users = append(users, UserLikes{UserID: userID})
		}
		last := &users[len(users)-1]
		last.Titles = append(last.Titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked movies: %w", err)
	}
	return users, nil
}

// Stats counts the rows kept at every ingestion step.
func (s *RatingsSource) Stats(ctx context.Context) (*ETLStats, error) {
	if err := s.checkFiles(); err != nil {
		return nil, err
	}

	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	query := s.etlQuery() + `
		SELECT
			(SELECT count(*) FROM ratings_raw),
			(SELECT count(*) FROM ratings),
			(SELECT count(*) FROM movies_raw),
			(SELECT count(*) FROM movies),
			(SELECT count(*) FROM joined),
			(SELECT count(*) FROM liked),
			(SELECT count(DISTINCT user_id) FROM liked),
			(SELECT count(DISTINCT title) FROM liked)`

	start := time.Now()
	var st ETLStats
	err := s.db.conn.QueryRowContext(ctx, query).Scan(
		&st.RatingRows, &st.ValidRatings,
		&st.MovieRows, &st.ValidMovies,
		&st.JoinedRows, &st.LikedRows,
		&st.Users, &st.DistinctTitle,
	)
	metrics.RecordDBQuery("SELECT", "etl_stats", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query etl stats: %w", err)
	}
	return &st, nil
}

// LoadTransactions turns every user's liked titles into one transaction.
// The transaction ID is the user id.
func (s *RatingsSource) LoadTransactions(ctx context.Context) (*recommend.TransactionStore, error) {
	logger := logging.Ctx(ctx)

	if stats, err := s.Stats(ctx); err != nil {
		logger.Warn().Err(err).Msg("ETL statistics unavailable")
	} else {
		logger.Info().
			Int64("rating_rows", stats.RatingRows).
			Int64("valid_ratings", stats.ValidRatings).
			Int64("movie_rows", stats.MovieRows).
			Int64("valid_movies", stats.ValidMovies).
			Int64("joined_rows", stats.JoinedRows).
			Int64("liked_rows", stats.LikedRows).
			Int64("users", stats.Users).
			Int64("distinct_titles", stats.DistinctTitle).
			Msg("ratings ingested")
	}

	users, err := s.LikedMovies(ctx)
	if err != nil {
		return nil, err
	}

	txs := make([]recommend.Transaction, len(users))
	for i, u := range users {
		items := make([]recommend.Item, len(u.Titles))
		for j, title := range u.Titles {
			items[j] = recommend.Item(title)
		}
		txs[i] = recommend.NewTransaction(strconv.FormatInt(u.UserID, 10), items...)
	}
	return recommend.NewTransactionStore(txs), nil
}
