package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfigAppliesGamificationDefaults(t *testing.T) {
	t.Setenv("SERVER_MODE", "")
	t.Setenv("DATABASE_DRIVER", "")
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
server:
  port: "9000"
  mode: debug
database:
  driver: mysql
storage:
  type: local
  local_path: `+uploads+`
gamification:
  bonus_per_exercise: 7
  points_per_level: 0
  write_timeout: 2s
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path)

	g := cfg.Gamification
	assert.Equal(t, DefaultBaseCompletionPoints, g.BaseCompletionPoints)
	assert.Equal(t, 7, g.BonusPerExercise)
	assert.Equal(t, DefaultPointsPerLevel, g.PointsPerLevel)
	assert.Equal(t, 2*time.Second, g.WriteTimeout)
	assert.Equal(t, DefaultSessionTTL, g.SessionTTL)
	assert.False(t, g.AwardAchievementPoints)

	assert.DirExists(t, uploads)
}

func TestLoadConfigRejectsWeakReleaseSecret(t *testing.T) {
	t.Setenv("SERVER_MODE", "")
	t.Setenv("JWT_SECRET", "")
	dir := writeConfig(t, `
server:
  mode: release
database:
  driver: postgres
jwt:
  secret: short
`)

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "sqlite"}}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.NoError(t, cfg.Validate())

	cfg.Gamification.BonusPerExercise = -1
	assert.Error(t, cfg.Validate())
}

func TestNormalizeKeepsConfiguredValues(t *testing.T) {
	g := GamificationConfig{BaseCompletionPoints: 50, PointsPerLevel: 200}.Normalize()
	assert.Equal(t, 50, g.BaseCompletionPoints)
	assert.Equal(t, 200, g.PointsPerLevel)
	assert.Equal(t, DefaultBonusPerExercise, g.BonusPerExercise)
	assert.Equal(t, DefaultCatalogCacheTTL, g.CatalogCacheTTL)
}
