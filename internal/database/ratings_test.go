// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package database

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/cinerules/internal/config"
	"github.com/tomtom215/cinerules/internal/recommend"
)

const ratingsCSV = `userId,movieId,rating,timestamp
1,10,4.0,1260759144
1,20,5.0,1260759179
1,30,2.0,1260759182
2,10,4.5,1260759185
2,20,3.5,1260759205
2,abc,5.0,1260759151
3,20,4.0,1260759139
3,99,5.0,1260759187
4,10,3.0,1260759148
`

const moviesCSV = `id,title,release_date
10,Toy Story,1995-10-30
20,"Heat, The",1995-12-15
30,Jumanji,1995-12-15
1997-08-20,Broken Row,1997-08-20
`

func testDataConfig(t *testing.T) config.DataConfig {
	t.Helper()
	dir := t.TempDir()
	return config.DataConfig{
		RatingsPath:   writeFile(t, dir, "ratings_small.csv", ratingsCSV),
		MoviesPath:    writeFile(t, dir, "movies_metadata.csv", moviesCSV),
		LikeThreshold: 3,
	}
}

func TestRatingsSource_LikedMovies(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name   string
		mutate func(*config.DataConfig)
		want   []UserLikes
	}{
		{
			name:   "defaults",
			mutate: func(*config.DataConfig) {},
			want: []UserLikes{
				{UserID: 1, Titles: []string{"Heat, The", "Toy Story"}},
				{UserID: 2, Titles: []string{"Heat, The", "Toy Story"}},
				{UserID: 3, Titles: []string{"Heat, The"}},
			},
		},
		{
			name:   "row limit applies per file",
			mutate: func(c *config.DataConfig) { c.RowLimit = 3 },
			want: []UserLikes{
				{UserID: 1, Titles: []string{"Heat, The", "Toy Story"}},
			},
		},
		{
			name:   "threshold is strict",
			mutate: func(c *config.DataConfig) { c.LikeThreshold = 4 },
			want: []UserLikes{
				{UserID: 1, Titles: []string{"Heat, The"}},
				{UserID: 2, Titles: []string{"Toy Story"}},
			},
		},
		{
			name:   "nothing liked",
			mutate: func(c *config.DataConfig) { c.LikeThreshold = 5 },
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testDataConfig(t)
			tt.mutate(&cfg)

			got, err := NewRatingsSource(db, cfg).LikedMovies(context.Background())
			if err != nil {
				t.Fatalf("LikedMovies() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LikedMovies() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRatingsSource_Stats(t *testing.T) {
	db := setupTestDB(t)

	got, err := NewRatingsSource(db, testDataConfig(t)).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	want := ETLStats{
		RatingRows:    9,
		ValidRatings:  8,
		MovieRows:     4,
		ValidMovies:   3,
		JoinedRows:    7,
		LikedRows:     5,
		Users:         3,
		DistinctTitle: 2,
	}
	if *got != want {
		t.Errorf("Stats() = %+v, want %+v", *got, want)
	}
}

func TestRatingsSource_LoadTransactions(t *testing.T) {
	db := setupTestDB(t)

	store, err := NewRatingsSource(db, testDataConfig(t)).LoadTransactions(context.Background())
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}

	if store.Len() != 3 {
		t.Fatalf("store.Len() = %d, want 3", store.Len())
	}
	first := store.At(0)
	if first.ID != "1" {
		t.Errorf("first transaction ID = %q, want lowest user id 1", first.ID)
	}
	if !first.Items.Equal(recommend.ItemsetOf("Toy Story", "Heat, The")) {
		t.Errorf("first transaction items = %s", first.Items)
	}
	if got := store.DistinctItems().Len(); got != 2 {
		t.Errorf("distinct items = %d, want 2", got)
	}
}

func TestRatingsSource_MissingFile(t *testing.T) {
	db := setupTestDB(t)

	cfg := testDataConfig(t)
	cfg.MoviesPath = cfg.MoviesPath + ".missing"

	_, err := NewRatingsSource(db, cfg).LoadTransactions(context.Background())
	if err == nil {
		t.Fatal("LoadTransactions() error = nil, want missing file error")
	}
	if !strings.Contains(err.Error(), "data.movies_path") {
		t.Errorf("error %q does not name the config key", err)
	}
}

func TestRatingsSource_MinesEndToEnd(t *testing.T) {
	db := setupTestDB(t)

	var src recommend.TransactionSource = NewRatingsSource(db, testDataConfig(t))
	store, err := src.LoadTransactions(context.Background())
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}

	// Heat is liked by all three users, Toy Story by two of them.
	var heat, toy int
	for _, tx := range store.Transactions() {
		if tx.Items.Contains("Heat, The") {
			heat++
		}
		if tx.Items.Contains("Toy Story") {
			toy++
		}
	}
	if heat != 3 || toy != 2 {
		t.Errorf("Heat in %d transactions, Toy Story in %d; want 3 and 2", heat, toy)
	}
}

// fakeLikeRows yields (user, title) pairs and fails Scan at scanErrAt.
type fakeLikeRows struct {
	rows      [][2]any
	pos       int
	scanErrAt int
	err       error
}

func (r *fakeLikeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.rows)
}

func (r *fakeLikeRows) Scan(dest ...any) error {
	if r.pos == r.scanErrAt {
		return errors.New("column type mismatch")
	}
	row := r.rows[r.pos-1]
	*dest[0].(*int64) = row[0].(int64)
	*dest[1].(*string) = row[1].(string)
	return nil
}

func (r *fakeLikeRows) Err() error { return r.err }

func TestCollectLikes(t *testing.T) {
	rows := [][2]any{{int64(1), "Alien"}, {int64(1), "Brazil"}, {int64(2), "Alien"}}

	tests := []struct {
		name    string
		rows    *fakeLikeRows
		want    []UserLikes
		wantErr string
	}{
		{
			name: "groups by user",
			rows: &fakeLikeRows{rows: rows},
			want: []UserLikes{
				{UserID: 1, Titles: []string{"Alien", "Brazil"}},
				{UserID: 2, Titles: []string{"Alien"}},
			},
		},
		{
			name:    "scan failure",
			rows:    &fakeLikeRows{rows: rows, scanErrAt: 2},
			wantErr: "scan liked movie: column type mismatch",
		},
		{
			name:    "iteration failure",
			rows:    &fakeLikeRows{err: errors.New("connection reset")},
			wantErr: "iterate liked movies: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collectLikes(tt.rows)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("collectLikes() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("collectLikes() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("collectLikes() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
