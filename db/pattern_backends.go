package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
)

// patternDocument is the on-disk layout of the patterns file.
type patternDocument struct {
	Patterns []models.Pattern `json:"patterns"`
}

// JSONFileBackend keeps the collection in a single JSON document, rewritten whole on every change.
type JSONFileBackend struct {
	path string
}

// NewJSONFileBackend 创建 JSON 文件后端
func NewJSONFileBackend(path string) *JSONFileBackend {
	return &JSONFileBackend{path: path}
}

// Path returns the file the backend reads and writes.
func (b *JSONFileBackend) Path() string { return b.path }

// Load reads the document. A missing file is an empty collection.
func (b *JSONFileBackend) Load(_ context.Context) ([]models.Pattern, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}

	var doc patternDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.path, err)
	}
	return doc.Patterns, nil
}

// Persist writes to a temp file and renames it over the old one, so readers never see half a document.
func (b *JSONFileBackend) Persist(_ context.Context, patterns []models.Pattern) error {
	if patterns == nil {
		patterns = []models.Pattern{}
	}
	data, err := json.MarshalIndent(patternDocument{Patterns: patterns}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".patterns-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), b.path)
}

// SQLiteBackend stores one row per pattern; position keeps storage order.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend 创建 SQLite 后端, conn 需已通过 Open 建表
func NewSQLiteBackend(conn *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: conn}
}

// Load 读取全部模式
func (b *SQLiteBackend) Load(ctx context.Context) ([]models.Pattern, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, question_pattern, intent, canonical_key, field_type, confidence,
		       source, answer_mappings, usage_count, created_at, last_used
		FROM patterns ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()

	var patterns []models.Pattern
	for rows.Next() {
		var (
			p                   models.Pattern
			mappings            string
			createdAt, lastUsed sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.QuestionPattern, &p.Intent, &p.CanonicalKey, &p.FieldType,
			&p.Confidence, &p.Source, &mappings, &p.UsageCount, &createdAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		if err := json.Unmarshal([]byte(mappings), &p.AnswerMappings); err != nil {
			return nil, fmt.Errorf("decode answer mappings of %s: %w", p.ID, err)
		}
		p.CreatedAt = parseTime(createdAt)
		p.LastUsed = parseTime(lastUsed)
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// Persist replaces the table contents in one transaction.
func (b *SQLiteBackend) Persist(ctx context.Context, patterns []models.Pattern) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM patterns"); err != nil {
		return fmt.Errorf("clear patterns: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO patterns (position, id, question_pattern, intent, canonical_key, field_type,
		                      confidence, source, answer_mappings, usage_count, created_at, last_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range patterns {
		mappings := p.AnswerMappings
		if mappings == nil {
			mappings = []models.AnswerMapping{}
		}
		encoded, err := json.Marshal(mappings)
		if err != nil {
			return fmt.Errorf("encode answer mappings of %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, i, p.ID, p.QuestionPattern, p.Intent, p.CanonicalKey, p.FieldType,
			p.Confidence, p.Source, string(encoded), p.UsageCount, formatTime(p.CreatedAt), formatTime(p.LastUsed)); err != nil {
			return fmt.Errorf("insert pattern %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func formatTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func parseTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// MemoryBackend keeps patterns in process memory. It relies on PatternStore for locking.
type MemoryBackend struct {
	patterns []models.Pattern
}

// NewMemoryBackend returns a backend seeded with copies of seed.
func NewMemoryBackend(seed ...models.Pattern) *MemoryBackend {
	b := &MemoryBackend{}
	for _, p := range seed {
		b.patterns = append(b.patterns, p.Clone())
	}
	return b
}

func (b *MemoryBackend) Load(_ context.Context) ([]models.Pattern, error) {
	out := make([]models.Pattern, len(b.patterns))
	for i, p := range b.patterns {
		out[i] = p.Clone()
	}
	return out, nil
}

func (b *MemoryBackend) Persist(_ context.Context, patterns []models.Pattern) error {
	b.patterns = make([]models.Pattern, len(patterns))
	for i, p := range patterns {
		b.patterns[i] = p.Clone()
	}
	return nil
}
