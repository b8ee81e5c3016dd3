package auth

import (
	"path/filepath"
	"testing"

	"ctfboard/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "auth.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}))
	return db
}

func TestRegisterUser_FirstUserBecomesHiddenAdmin(t *testing.T) {
	repo := NewAuthRepository(setupTestDB(t))

	first, err := repo.RegisterUser("alice", "hashed-pw")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin)
	assert.True(t, first.IsHidden)

	second, err := repo.RegisterUser("bob", "hashed-pw")
	require.NoError(t, err)
	assert.False(t, second.IsAdmin)
	assert.False(t, second.IsHidden)
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	repo := NewAuthRepository(setupTestDB(t))

	_, err := repo.RegisterUser("alice", "hashed-pw")
	require.NoError(t, err)

	_, err = repo.RegisterUser("alice", "other-pw")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestGetUserByUsername(t *testing.T) {
	repo := NewAuthRepository(setupTestDB(t))

	created, err := repo.RegisterUser("alice", "hashed-pw")
	require.NoError(t, err)

	found, err := repo.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "hashed-pw", found.Password)

	_, err = repo.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
