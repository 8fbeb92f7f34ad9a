package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
)

// ErrProfileNotFound is returned by Get when no profile is stored for the email.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository 用户资料存取
type ProfileRepository interface {
	Save(ctx context.Context, profile *models.UserProfile) error
	Get(ctx context.Context, email string) (*models.UserProfile, error)
}

// FileProfileRepository keeps one JSON file per user.
type FileProfileRepository struct {
	mu  sync.Mutex
	dir string
}

// NewFileProfileRepository 创建文件资料仓库
func NewFileProfileRepository(dir string) *FileProfileRepository {
	return &FileProfileRepository{dir: dir}
}

// ProfileFileName maps an email onto its file name: "a@b.com" -> "a_at_b.com.json".
func ProfileFileName(email string) string {
	return strings.ReplaceAll(email, "@", "_at_") + ".json"
}

func (r *FileProfileRepository) pathFor(email string) string {
	return filepath.Join(r.dir, ProfileFileName(email))
}

// Save 保存(覆盖)用户资料
func (r *FileProfileRepository) Save(_ context.Context, profile *models.UserProfile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", r.dir, err)
	}
	if err := os.WriteFile(r.pathFor(profile.Email), data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Get 读取用户资料
func (r *FileProfileRepository) Get(_ context.Context, email string) (*models.UserProfile, error) {
	r.mu.Lock()
	data, err := os.ReadFile(r.pathFor(email))
	r.mu.Unlock()

	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// SQLiteProfileRepository stores profiles in the user_profiles table.
type SQLiteProfileRepository struct {
	db *sql.DB
}

// NewSQLiteProfileRepository 创建 SQLite 资料仓库
func NewSQLiteProfileRepository(conn *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: conn}
}

// Save 保存(覆盖)用户资料
func (r *SQLiteProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_profiles (email, data, date_modified) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(email) DO UPDATE SET data = excluded.data, date_modified = CURRENT_TIMESTAMP
	`, profile.Email, string(data))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Get 读取用户资料
func (r *SQLiteProfileRepository) Get(ctx context.Context, email string) (*models.UserProfile, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data FROM user_profiles WHERE email = ?", email).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}
