package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/mailtrack/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SettingsRepositoryTestSuite is the test suite for SettingsRepository
type SettingsRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo SettingsRepository
}

// SetupSuite runs once before all tests
func (s *SettingsRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	err = db.AutoMigrate(&models.Settings{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewSettingsRepository(db)
}

// TearDownSuite runs once after all tests
func (s *SettingsRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *SettingsRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM settings")
}

// TestSettingsRepositoryTestSuite runs the test suite
func TestSettingsRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsRepositoryTestSuite))
}

func (s *SettingsRepositoryTestSuite) TestGet_BeforeSeed() {
	_, err := s.repo.Get(context.Background())

	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *SettingsRepositoryTestSuite) TestSeed_CreatesDefaults() {
	err := s.repo.Seed(context.Background())
	require.NoError(s.T(), err)

	settings, err := s.repo.Get(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint(models.SettingsID), settings.ID)
	assert.Equal(s.T(), 1140, settings.TWhiteMinutes)
	assert.Equal(s.T(), 4320, settings.TBlueMinutes)
	assert.Equal(s.T(), 7200, settings.TYellowMinutes)
	assert.Equal(s.T(), 10080, settings.TRedMinutes)
}

func (s *SettingsRepositoryTestSuite) TestSeed_Idempotent() {
	require.NoError(s.T(), s.repo.Seed(context.Background()))

	updated := &models.Settings{TWhiteMinutes: 10, TBlueMinutes: 20, TYellowMinutes: 30, TRedMinutes: 40}
	require.NoError(s.T(), s.repo.Update(context.Background(), updated))

	// Seed again must not overwrite the tuned values
	require.NoError(s.T(), s.repo.Seed(context.Background()))

	settings, err := s.repo.Get(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 10, settings.TWhiteMinutes)
	assert.Equal(s.T(), 40, settings.TRedMinutes)
}

func (s *SettingsRepositoryTestSuite) TestUpdate_OverwritesThresholds() {
	require.NoError(s.T(), s.repo.Seed(context.Background()))

	updated := &models.Settings{TWhiteMinutes: 60, TBlueMinutes: 360, TYellowMinutes: 1440, TRedMinutes: 4320}
	err := s.repo.Update(context.Background(), updated)
	require.NoError(s.T(), err)

	settings, err := s.repo.Get(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 60, settings.TWhiteMinutes)
	assert.Equal(s.T(), 360, settings.TBlueMinutes)
	assert.Equal(s.T(), 1440, settings.TYellowMinutes)
	assert.Equal(s.T(), 4320, settings.TRedMinutes)
}

func (s *SettingsRepositoryTestSuite) TestUpdate_BeforeSeed() {
	updated := &models.Settings{TWhiteMinutes: 1, TBlueMinutes: 2, TYellowMinutes: 3, TRedMinutes: 4}

	err := s.repo.Update(context.Background(), updated)

	assert.ErrorIs(s.T(), err, ErrNotFound)
}
