// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/cinerules/internal/logging"
	"github.com/tomtom215/cinerules/internal/metrics"
	"github.com/tomtom215/cinerules/internal/recommend"
)

// ExportFormat is an output file format supported by COPY ... TO.
type ExportFormat string

// Supported export formats.
const (
	FormatCSV     ExportFormat = "csv"
	FormatParquet ExportFormat = "parquet"
	FormatJSON    ExportFormat = "json"
)

// itemSeparator joins itemsets into one parameter that string_split turns
// back into a VARCHAR[] column. Titles never contain the unit separator.
const itemSeparator = "\x1f"

// ParseExportFormat accepts csv, parquet and json in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatParquet, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv, parquet or json)", s)
	}
}

// Ext returns the file extension for the format.
func (f ExportFormat) Ext() string {
	return "." + string(f)
}

// copyOptions returns the COPY option list for the format.
func (f ExportFormat) copyOptions() (string, error) {
	switch f {
	case FormatCSV:
		return "FORMAT CSV, HEADER true", nil
	case FormatParquet:
		return "FORMAT PARQUET, COMPRESSION 'ZSTD'", nil
	case FormatJSON:
		return "FORMAT JSON, ARRAY true", nil
	default:
		return "", fmt.Errorf("unsupported export format %q", string(f))
	}
}

// exportTable describes one temporary table written with COPY.
type exportTable struct {
	name    string
	columns string
	insert  string
}

var (
	rulesTable = exportTable{
		name: "export_rules",
		columns: `
			rank INTEGER,
			antecedent VARCHAR[],
			consequent VARCHAR[],
			support DOUBLE,
			confidence DOUBLE,
			lift DOUBLE`,
		insert: `INSERT INTO export_rules VALUES
			(?, string_split(?, chr(31)), string_split(?, chr(31)), ?, ?, ?)`,
	}

	itemsetsTable = exportTable{
		name: "export_itemsets",
		columns: `
			items VARCHAR[],
			size INTEGER,
			count BIGINT,
			support DOUBLE`,
		insert: `INSERT INTO export_itemsets VALUES
			(string_split(?, chr(31)), ?, ?, ?)`,
	}

	recommendationsTable = exportTable{
		name: "export_recommendations",
		columns: `
			user_id VARCHAR,
			rank INTEGER,
			item VARCHAR,
			confidence DOUBLE,
			lift DOUBLE,
			support DOUBLE,
			because VARCHAR[],
			rules INTEGER`,
		insert: `INSERT INTO export_recommendations VALUES
			(?, ?, ?, ?, ?, ?, string_split(?, chr(31)), ?)`,
	}
)

// ExportRules writes rules to path in the given format. Rules keep their
// order; rank starts at 1.
func (db *DB) ExportRules(ctx context.Context, rules recommend.RuleSet, path string, format ExportFormat) (int64, error) {
	rows := make([][]any, len(rules))
	for i, r := range rules {
		rows[i] = []any{
			i + 1,
			joinItems(r.Antecedent),
			joinItems(r.Consequent),
			r.Support,
			r.Confidence,
			r.Lift,
		}
	}
	return db.export(ctx, rulesTable, rows, "rules", path, format)
}

// ExportFrequentItemsets writes frequent itemsets to path in the given format.
func (db *DB) ExportFrequentItemsets(ctx context.Context, itemsets []recommend.FrequentItemset, path string, format ExportFormat) (int64, error) {
	rows := make([][]any, len(itemsets))
	for i, fi := range itemsets {
		rows[i] = []any{joinItems(fi.Items), fi.Items.Len(), fi.Count, fi.Support}
	}
	return db.export(ctx, itemsetsTable, rows, "itemsets", path, format)
}

// ExportRecommendations writes one user's ranked suggestions to path.
func (db *DB) ExportRecommendations(ctx context.Context, userID string, recs []recommend.Recommendation, path string, format ExportFormat) (int64, error) {
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		rows[i] = []any{
			userID,
			i + 1,
			string(rec.Item),
			rec.Confidence,
			rec.Lift,
			rec.Support,
			joinItems(rec.Because),
			rec.Rules,
		}
	}
	return db.export(ctx, recommendationsTable, rows, "recommendations", path, format)
}

// export loads rows into a temporary table and copies it to path.
// Temporary tables are per connection, so the whole export runs on one
// pinned connection.
func (db *DB) export(ctx context.Context, table exportTable, rows [][]any, dataset, path string, format ExportFormat) (int64, error) {
	opts, err := format.copyOptions()
	if err != nil {
		return 0, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("failed to create export directory %s: %w", dir, err)
		}
	}

	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer closeWithLog(conn, nil, "export connection")

	createQuery := fmt.Sprintf("CREATE OR REPLACE TEMPORARY TABLE %s (%s)", table.name, table.columns)
	if _, err := conn.ExecContext(ctx, createQuery); err != nil {
		return 0, fmt.Errorf("failed to create temporary export table: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+table.name); err != nil {
			// Non-fatal error, just log
			logging.Warn().Err(err).Str("table", table.name).Msg("Failed to drop temporary export table")
		}
	}()

	if err := insertRows(ctx, conn, table.insert, rows); err != nil {
		return 0, fmt.Errorf("failed to fill %s: %w", table.name, err)
	}

	exportQuery := fmt.Sprintf("COPY %s TO ? (%s)", table.name, opts)
	start := time.Now()
	_, err = conn.ExecContext(ctx, exportQuery, path)
	metrics.RecordDBQuery("COPY", table.name, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to export %s: %w", dataset, err)
	}

	n := int64(len(rows))
	metrics.RecordExport(dataset, string(format), n)
	return n, nil
}

// insertRows inserts rows with one prepared statement inside a transaction.
func insertRows(ctx context.Context, conn *sql.Conn, insert string, rows [][]any) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}

	return tx.Commit()
}

func joinItems(s recommend.Itemset) string {
	return strings.Join(s.Strings(), itemSeparator)
}

// Exporter writes the rules and frequent itemsets of every new model into a
// directory. It implements recommend.ModelListener.
type Exporter struct {
	db     *DB
	dir    string
	format ExportFormat
}

// NewExporter creates an exporter writing rules<ext> and itemsets<ext> to dir.
func NewExporter(db *DB, dir string, format ExportFormat) *Exporter {
	return &Exporter{db: db, dir: dir, format: format}
}

// RulesPath returns the file the rules are written to.
func (e *Exporter) RulesPath() string {
	return filepath.Join(e.dir, "rules"+e.format.Ext())
}

// ItemsetsPath returns the file the frequent itemsets are written to.
func (e *Exporter) ItemsetsPath() string {
	return filepath.Join(e.dir, "itemsets"+e.format.Ext())
}

// OnModel exports the model's rules and frequent itemsets.
func (e *Exporter) OnModel(ctx context.Context, model *recommend.Model) error {
	logger := logging.Ctx(ctx)

	n, err := e.db.ExportRules(ctx, model.Rules, e.RulesPath(), e.format)
	if err != nil {
		return err
	}
	logger.Info().Str("path", e.RulesPath()).Int64("rows", n).Msg("rules exported")

	n, err = e.db.ExportFrequentItemsets(ctx, model.Frequent.Entries(), e.ItemsetsPath(), e.format)
	if err != nil {
		return err
	}
	logger.Info().Str("path", e.ItemsetsPath()).Int64("rows", n).Msg("frequent itemsets exported")

	return nil
}
