// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	modelKeyPrefix = "model:v"
	metaKeyPrefix  = "meta:v"
	latestKey      = "model:latest"
)

var (
	// ErrModelNotFound is returned when no model exists for a version.
	ErrModelNotFound = errors.New("model not found")

	// ErrStaleVersion is returned when a new model does not supersede the
	// latest stored version.
	ErrStaleVersion = errors.New("model version is not newer than latest")

	// ErrChecksumMismatch is returned when stored model bytes fail verification.
	ErrChecksumMismatch = errors.New("model checksum mismatch")
)

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// ModelID is the run ID that built the model.
	ModelID string `json:"model_id"`

	// Version is the model version (monotonically increasing).
	Version int `json:"version"`

	// BuiltAt is when the model was mined.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// Params are the thresholds the model was mined with.
	Params recommend.Params `json:"params"`

	Transactions     int `json:"transactions"`
	FrequentItemsets int `json:"frequent_itemsets"`
	Rules            int `json:"rules"`

	// Checksum is the SHA-256 checksum of the compressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// Store persists mined models in BadgerDB.
type Store struct {
	db *badger.DB

	// retain is the number of versions kept by OnModel. Zero keeps all.
	retain int

	// owned reports whether Close should close db.
	owned bool
}

// Open opens (or creates) a BadgerDB store at path. An empty path or
// inMemory opens a non-persistent store.
func Open(path string, inMemory bool, retain int) (*Store, error) {
	var opts badger.Options
	if inMemory || path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}

	s := NewStore(db, retain)
	s.owned = true
	return s, nil
}

// NewStore wraps an already open database. The caller keeps ownership of db.
func NewStore(db *badger.DB, retain int) *Store {
	return &Store{db: db, retain: retain}
}

// Close closes the database if the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// OnModel stages a new model. The latest pointer keeps pointing at the
// previous version until CommitModel. A version at or below latest fails
// with ErrStaleVersion.
func (s *Store) OnModel(_ context.Context, model *recommend.Model) error {
	_, err := s.write(model, false)
	return err
}

// CommitModel makes a staged model the latest version and prunes old ones.
func (s *Store) CommitModel(ctx context.Context, model *recommend.Model) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(metaKey(model.Version)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: version %d was not staged", ErrModelNotFound, model.Version)
			}
			return err
		}
		return setLatest(txn, model.Version)
	})
	if err != nil {
		return err
	}
	if s.retain > 0 {
		return s.Prune(ctx, s.retain)
	}
	return nil
}

// AbortModel drops a staged model. A version the latest pointer already
// references is left alone.
func (s *Store) AbortModel(_ context.Context, model *recommend.Model) {
	_ = s.db.Update(func(txn *badger.Txn) error {
		latest, found, err := latestVersion(txn)
		if err != nil || (found && latest == model.Version) {
			return err
		}
		if err := txn.Delete(modelKey(model.Version)); err != nil {
			return err
		}
		return txn.Delete(metaKey(model.Version))
	})
}

// Save writes the model, its metadata and the latest pointer in one transaction.
func (s *Store) Save(_ context.Context, model *recommend.Model) (*ModelMetadata, error) {
	return s.write(model, true)
}

func (s *Store) write(model *recommend.Model, promote bool) (*ModelMetadata, error) {
	if model == nil {
		return nil, errors.New("save model: model is nil")
	}

	raw, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("marshal model: %w", err)
	}
	data, err := compress(raw)
	if err != nil {
		return nil, err
	}

	checksum := sha256.Sum256(data)
	meta := ModelMetadata{
		ModelID:          model.ID,
		Version:          model.Version,
		BuiltAt:          model.BuiltAt,
		SavedAt:          time.Now().UTC(),
		Params:           model.Params,
		Transactions:     model.Stats.Transactions,
		FrequentItemsets: model.Frequent.Len(),
		Rules:            len(model.Rules),
		Checksum:         hex.EncodeToString(checksum[:]),
		SizeBytes:        int64(len(data)),
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if !promote {
			latest, found, err := latestVersion(txn)
			if err != nil {
				return err
			}
			if found && model.Version <= latest {
				return fmt.Errorf("%w: version %d, latest %d", ErrStaleVersion, model.Version, latest)
			}
		}
		if err := txn.Set(modelKey(model.Version), data); err != nil {
			return fmt.Errorf("set model: %w", err)
		}
		if err := txn.Set(metaKey(model.Version), metaData); err != nil {
			return fmt.Errorf("set metadata: %w", err)
		}

		if !promote {
			return nil
		}
		return setLatest(txn, model.Version)
	})
	if err != nil {
		return nil, err
	}

	return &meta, nil
}

// Load reads and verifies a model version.
func (s *Store) Load(_ context.Context, version int) (*recommend.Model, *ModelMetadata, error) {
	var (
		data []byte
		meta ModelMetadata
	)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get metadata: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return fmt.Errorf("decode metadata: %w", err)
		}

		item, err = txn.Get(modelKey(version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get model: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	checksum := sha256.Sum256(data)
	if hex.EncodeToString(checksum[:]) != meta.Checksum {
		return nil, nil, fmt.Errorf("%w: version %d", ErrChecksumMismatch, version)
	}

	raw, err := decompress(data)
	if err != nil {
		return nil, nil, err
	}

	var model recommend.Model
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, nil, fmt.Errorf("decode model: %w", err)
	}
	if model.Frequent == nil {
		model.Frequent = recommend.NewFrequentItemsets(0)
	}

	return &model, &meta, nil
}

// LoadLatest reads the highest saved version.
func (s *Store) LoadLatest(ctx context.Context) (*recommend.Model, *ModelMetadata, error) {
	version, found, err := s.LatestVersion()
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, ErrModelNotFound
	}
	return s.Load(ctx, version)
}

// LatestVersion returns the highest saved version.
func (s *Store) LatestVersion() (int, bool, error) {
	var (
		version int
		found   bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		version, found, err = latestVersion(txn)
		return err
	})
	return version, found, err
}

// List returns metadata of every saved version in ascending order.
func (s *Store) List(_ context.Context) ([]ModelMetadata, error) {
	var out []ModelMetadata

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(metaKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var meta ModelMetadata
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return fmt.Errorf("decode metadata %s: %w", it.Item().Key(), err)
			}
			out = append(out, meta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b ModelMetadata) int { return a.Version - b.Version })
	return out, nil
}

// Delete removes a version. Deleting the latest version moves the latest
// pointer to the next highest remaining version.
func (s *Store) Delete(ctx context.Context, version int) error {
	versions, err := s.versions(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(versions, version) {
		return ErrModelNotFound
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(modelKey(version)); err != nil {
			return err
		}
		if err := txn.Delete(metaKey(version)); err != nil {
			return err
		}

		remaining := slices.DeleteFunc(versions, func(v int) bool { return v == version })
		if len(remaining) == 0 {
			return txn.Delete([]byte(latestKey))
		}
		return txn.Set([]byte(latestKey), []byte(strconv.Itoa(slices.Max(remaining))))
	})
}

// Prune keeps only the newest keep versions.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	versions, err := s.versions(ctx)
	if err != nil {
		return err
	}
	if len(versions) <= keep {
		return nil
	}

	stale := versions[:len(versions)-keep]
	return s.db.Update(func(txn *badger.Txn) error {
		for _, v := range stale {
			if err := txn.Delete(modelKey(v)); err != nil {
				return err
			}
			if err := txn.Delete(metaKey(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// versions returns saved versions in ascending order.
func (s *Store) versions(ctx context.Context) ([]int, error) {
	metas, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(metas))
	for i, m := range metas {
		out[i] = m.Version
	}
	return out, nil
}

// setLatest moves the latest pointer to version unless a higher one is set.
func setLatest(txn *badger.Txn, version int) error {
	latest, found, err := latestVersion(txn)
	if err != nil {
		return err
	}
	if found && version < latest {
		return nil
	}
	return txn.Set([]byte(latestKey), []byte(strconv.Itoa(version)))
}

func latestVersion(txn *badger.Txn) (int, bool, error) {
	item, err := txn.Get([]byte(latestKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get latest version: %w", err)
	}

	var version int
	err = item.Value(func(val []byte) error {
		v, err := strconv.Atoi(strings.TrimSpace(string(val)))
		version = v
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("parse latest version: %w", err)
	}
	return version, true, nil
}

// Version keys are zero padded so lexical key order matches version order.
func modelKey(version int) []byte { return []byte(fmt.Sprintf("%s%010d", modelKeyPrefix, version)) }
func metaKey(version int) []byte  { return []byte(fmt.Sprintf("%s%010d", metaKeyPrefix, version)) }

func compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	return raw, nil
}
