// Package storage is the SQLite persistence backend. Rows use snake_case
// columns; the translation to the in-memory shape happens entirely here.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"smartspend/internal/core"
	"smartspend/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath, runs
// migrations, and seeds the default taxonomy when the tables are empty.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	// busy_timeout makes concurrent writers wait for the lock instead of
	// failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := s.seedIfEmpty(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// seedIfEmpty installs the default categories, members, reflection tags,
// and settings for a fresh database. A user must never start with empty
// taxonomy.
func (s *SQLiteStore) seedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count == 0 {
		for _, c := range core.DefaultCategories() {
			if err := s.AddCategory(ctx, c); err != nil {
				return err
			}
		}
		slog.InfoContext(ctx, "Seeded default categories")
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&count); err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if count == 0 {
		for _, m := range core.DefaultMembers() {
			if err := s.AddMember(ctx, m); err != nil {
				return err
			}
		}
		slog.InfoContext(ctx, "Seeded default members")
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reflection_tags`).Scan(&count); err != nil {
		return fmt.Errorf("count reflection tags: %w", err)
	}
	if count == 0 {
		for _, tag := range core.DefaultReflectionTags() {
			if err := s.AddReflectionTag(ctx, tag); err != nil {
				return err
			}
		}
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&count); err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	if count == 0 {
		if err := s.SaveSettings(ctx, core.DefaultSettings()); err != nil {
			return err
		}
	}

	return nil
}

const transactionColumns = `id, name, amount, category_id, member_ids, date, end_date,
	is_waste, reflection, reflection_tag_ids, note, timestamp`

func (s *SQLiteStore) Snapshot(ctx context.Context) (core.AppData, error) {
	txs, err := s.Transactions(ctx)
	if err != nil {
		return core.AppData{}, err
	}
	cats, err := s.Categories(ctx)
	if err != nil {
		return core.AppData{}, err
	}
	members, err := s.Members(ctx)
	if err != nil {
		return core.AppData{}, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return core.AppData{}, err
	}
	return core.AppData{
		Transactions: txs,
		Categories:   cats,
		Members:      members,
		Settings:     settings,
	}, nil
}

// Replace swaps the whole application state inside one SQL transaction,
// so a failed import leaves the previous state untouched.
func (s *SQLiteStore) Replace(ctx context.Context, data core.AppData) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer dbTx.Rollback()

	for _, table := range []string{"transactions", "categories", "members"} {
		if _, err := dbTx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, tx := range data.Transactions {
		if err := insertTransaction(ctx, dbTx, tx); err != nil {
			return err
		}
	}
	for _, c := range data.Categories {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO categories (id, name, icon, color) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.Icon, c.Color); err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}
	for _, m := range data.Members {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO members (id, name, avatar) VALUES (?, ?, ?)`,
			m.ID, m.Name, m.Avatar); err != nil {
			return fmt.Errorf("insert member %s: %w", m.ID, err)
		}
	}
	if _, err := dbTx.ExecContext(ctx,
		`INSERT INTO settings (id, language, currency) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET language = excluded.language, currency = excluded.currency`,
		data.Settings.Language, data.Settings.Currency); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, tx core.Transaction) error {
	memberIDs, err := json.Marshal(tx.MemberIDs)
	if err != nil {
		return fmt.Errorf("marshal member ids: %w", err)
	}
	var endDate any
	if !tx.EndDate.IsZero() {
		endDate = tx.EndDate.String()
	}
	var reflection any
	if tx.Reflection != nil {
		raw, err := json.Marshal(tx.Reflection)
		if err != nil {
			return fmt.Errorf("marshal reflection: %w", err)
		}
		reflection = string(raw)
	}
	var tagIDs any
	if len(tx.ReflectionTagIDs) > 0 {
		raw, err := json.Marshal(tx.ReflectionTagIDs)
		if err != nil {
			return fmt.Errorf("marshal reflection tag ids: %w", err)
		}
		tagIDs = string(raw)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Name, tx.Amount, tx.CategoryID, string(memberIDs),
		tx.Date.String(), endDate, boolToInt(tx.IsWaste), reflection, tagIDs,
		tx.Note, tx.Timestamp)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Transactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (s *SQLiteStore) Transaction(ctx context.Context, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	return tx, err
}

func (s *SQLiteStore) AddTransaction(ctx context.Context, tx core.Transaction) error {
	return insertTransaction(ctx, s.db, tx)
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	memberIDs, err := json.Marshal(tx.MemberIDs)
	if err != nil {
		return fmt.Errorf("marshal member ids: %w", err)
	}
	var endDate any
	if !tx.EndDate.IsZero() {
		endDate = tx.EndDate.String()
	}
	var reflection any
	if tx.Reflection != nil {
		raw, err := json.Marshal(tx.Reflection)
		if err != nil {
			return fmt.Errorf("marshal reflection: %w", err)
		}
		reflection = string(raw)
	}
	var tagIDs any
	if len(tx.ReflectionTagIDs) > 0 {
		raw, err := json.Marshal(tx.ReflectionTagIDs)
		if err != nil {
			return fmt.Errorf("marshal reflection tag ids: %w", err)
		}
		tagIDs = string(raw)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET name = ?, amount = ?, category_id = ?, member_ids = ?, date = ?,
		    end_date = ?, is_waste = ?, reflection = ?, reflection_tag_ids = ?,
		    note = ?, timestamp = ?, synced = 0
		WHERE id = ?`,
		tx.Name, tx.Amount, tx.CategoryID, string(memberIDs), tx.Date.String(),
		endDate, boolToInt(tx.IsWaste), reflection, tagIDs, tx.Note,
		tx.Timestamp, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", tx.ID, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return requireRow(res)
}

// UnsyncedTransactions returns transactions not yet mirrored to the
// external spreadsheet, oldest first, up to limit. Used by the worker's
// startup backfill.
func (s *SQLiteStore) UnsyncedTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE synced = 0 ORDER BY timestamp ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// MarkTransactionSynced records that a transaction reached the mirror.
func (s *SQLiteStore) MarkTransactionSynced(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE transactions SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction synced %s: %w", id, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, icon, color FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *SQLiteStore) AddCategory(ctx context.Context, c core.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, icon, color) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Icon, c.Color)
	if err != nil {
		return fmt.Errorf("insert category %s: %w", c.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, icon = ?, color = ? WHERE id = ?`,
		c.Name, c.Icon, c.Color, c.ID)
	if err != nil {
		return fmt.Errorf("update category %s: %w", c.ID, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) Members(ctx context.Context) ([]core.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, avatar FROM members ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		var m core.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Avatar); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLiteStore) AddMember(ctx context.Context, m core.Member) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, name, avatar) VALUES (?, ?, ?)`,
		m.ID, m.Name, m.Avatar)
	if err != nil {
		return fmt.Errorf("insert member %s: %w", m.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateMember(ctx context.Context, m core.Member) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET name = ?, avatar = ? WHERE id = ?`,
		m.Name, m.Avatar, m.ID)
	if err != nil {
		return fmt.Errorf("update member %s: %w", m.ID, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member %s: %w", id, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) ReflectionTags(ctx context.Context) ([]core.ReflectionTag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, icon FROM reflection_tags ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list reflection tags: %w", err)
	}
	defer rows.Close()

	var tags []core.ReflectionTag
	for rows.Next() {
		var t core.ReflectionTag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Icon); err != nil {
			return nil, fmt.Errorf("scan reflection tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *SQLiteStore) AddReflectionTag(ctx context.Context, t core.ReflectionTag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reflection_tags (id, name, color, icon) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Color, t.Icon)
	if err != nil {
		return fmt.Errorf("insert reflection tag %s: %w", t.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateReflectionTag(ctx context.Context, t core.ReflectionTag) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reflection_tags SET name = ?, color = ?, icon = ? WHERE id = ?`,
		t.Name, t.Color, t.Icon, t.ID)
	if err != nil {
		return fmt.Errorf("update reflection tag %s: %w", t.ID, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteReflectionTag(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reflection_tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reflection tag %s: %w", id, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) Settings(ctx context.Context) (core.AppSettings, error) {
	var settings core.AppSettings
	err := s.db.QueryRowContext(ctx,
		`SELECT language, currency FROM settings WHERE id = 1`).
		Scan(&settings.Language, &settings.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.AppSettings{}, fmt.Errorf("read settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, settings core.AppSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, language, currency) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET language = excluded.language, currency = excluded.currency`,
		settings.Language, settings.Currency)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx         core.Transaction
		memberIDs  string
		date       string
		endDate    sql.NullString
		isWaste    int
		reflection sql.NullString
		tagIDs     sql.NullString
	)
	err := row.Scan(&tx.ID, &tx.Name, &tx.Amount, &tx.CategoryID, &memberIDs,
		&date, &endDate, &isWaste, &reflection, &tagIDs, &tx.Note, &tx.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	if err := json.Unmarshal([]byte(memberIDs), &tx.MemberIDs); err != nil {
		return core.Transaction{}, fmt.Errorf("decode member ids for %s: %w", tx.ID, err)
	}
	tx.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode date for %s: %w", tx.ID, err)
	}
	if endDate.Valid && endDate.String != "" {
		tx.EndDate, err = core.ParseDate(endDate.String)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("decode end date for %s: %w", tx.ID, err)
		}
	}
	tx.IsWaste = isWaste != 0
	if reflection.Valid && reflection.String != "" {
		var flags core.ReflectionFlags
		if err := json.Unmarshal([]byte(reflection.String), &flags); err != nil {
			return core.Transaction{}, fmt.Errorf("decode reflection for %s: %w", tx.ID, err)
		}
		tx.Reflection = &flags
	}
	if tagIDs.Valid && tagIDs.String != "" {
		if err := json.Unmarshal([]byte(tagIDs.String), &tx.ReflectionTagIDs); err != nil {
			return core.Transaction{}, fmt.Errorf("decode reflection tags for %s: %w", tx.ID, err)
		}
	}
	return tx, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
