package cmd

import (
	"database/sql"
	"fmt"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/config"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/db"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/services"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

// storage is what every command needs: the pattern store and the profile repository
// on the configured backend.
type storage struct {
	patterns *db.PatternStore
	profiles db.ProfileRepository
	conn     *sql.DB
}

func openStorage(cfg *config.Config, log *utils.Logger) (*storage, error) {
	policy := services.NewSharingPolicy(cfg.ShareableIntents, cfg.PatternOnlyIntents)
	s := &storage{}

	var backend db.PatternBackend
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		s.conn = conn
		backend = db.NewSQLiteBackend(conn)
		s.profiles = db.NewSQLiteProfileRepository(conn)
		log.Info("storage ready", "backend", cfg.StoreBackend, "path", cfg.DBPath)
	case config.BackendMemory:
		backend = db.NewMemoryBackend()
		s.profiles = db.NewFileProfileRepository(cfg.UsersDir)
		log.Info("storage ready", "backend", cfg.StoreBackend, "users_dir", cfg.UsersDir)
	default:
		backend = db.NewJSONFileBackend(cfg.PatternsFile)
		s.profiles = db.NewFileProfileRepository(cfg.UsersDir)
		log.Info("storage ready", "backend", cfg.StoreBackend, "patterns_file", cfg.PatternsFile, "users_dir", cfg.UsersDir)
	}

	s.patterns = db.NewPatternStore(backend, policy, cfg.FuzzyMatchThreshold, log)
	return s, nil
}

func (s *storage) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
