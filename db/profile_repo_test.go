package db

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
)

func testProfileRepos(t *testing.T) map[string]ProfileRepository {
	conn, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return map[string]ProfileRepository{
		"file":   NewFileProfileRepository(filepath.Join(t.TempDir(), "users")),
		"sqlite": NewSQLiteProfileRepository(conn),
	}
}

func TestProfileRepositoryRoundTrip(t *testing.T) {
	for name, repo := range testProfileRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			resume := "UEsDBA=="
			profile := &models.UserProfile{
				Email: "jane@example.com",
				ProfileData: models.ApplicantProfile{
					FirstName: "Jane",
					City:      "Austin",
					Extra:     map[string]json.RawMessage{"yearsExperience": json.RawMessage(`5`)},
				},
				ResumeBase64: &resume,
			}

			require.NoError(t, repo.Save(ctx, profile))

			got, err := repo.Get(ctx, "jane@example.com")
			require.NoError(t, err)
			assert.Equal(t, profile, got)
		})
	}
}

func TestProfileRepositoryOverwrites(t *testing.T) {
	for name, repo := range testProfileRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Save(ctx, &models.UserProfile{Email: "a@b.co", ProfileData: models.ApplicantProfile{City: "Austin"}}))
			require.NoError(t, repo.Save(ctx, &models.UserProfile{Email: "a@b.co", ProfileData: models.ApplicantProfile{City: "Boston"}}))

			got, err := repo.Get(ctx, "a@b.co")
			require.NoError(t, err)
			assert.Equal(t, "Boston", got.ProfileData.City)
		})
	}
}

func TestProfileRepositoryNotFound(t *testing.T) {
	for name, repo := range testProfileRepos(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(context.Background(), "nobody@example.com")
			assert.ErrorIs(t, err, ErrProfileNotFound)
		})
	}
}

func TestFileProfileRepositoryLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "users")
	repo := NewFileProfileRepository(dir)

	require.NoError(t, repo.Save(context.Background(), &models.UserProfile{Email: "jane.doe@example.com"}))

	assert.Equal(t, "jane.doe_at_example.com.json", ProfileFileName("jane.doe@example.com"))
	_, err := os.Stat(filepath.Join(dir, "jane.doe_at_example.com.json"))
	assert.NoError(t, err)
}
