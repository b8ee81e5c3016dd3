package team

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "team.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Team{}, &TeamMember{}))
	return db
}

func TestCreateTeam_CreatorBecomesMember(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepository(db)

	created, err := repo.CreateTeam(1, 10, "wildcats")
	require.NoError(t, err)
	assert.Equal(t, "wildcats", created.Name)
	assert.Len(t, created.Secret, 16)

	members, err := repo.GetTeamMembers(created.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, uint(10), members[0].UserID)
}

func TestJoinTeam_BySecret(t *testing.T) {
	repo := NewTeamRepository(setupTestDB(t))

	created, err := repo.CreateTeam(1, 10, "wildcats")
	require.NoError(t, err)

	joined, err := repo.JoinTeam(1, 11, created.Secret)
	require.NoError(t, err)
	assert.Equal(t, created.ID, joined.ID)

	members, err := repo.GetTeamMembers(created.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestJoinTeam_UnknownSecret(t *testing.T) {
	repo := NewTeamRepository(setupTestDB(t))

	_, err := repo.CreateTeam(1, 10, "wildcats")
	require.NoError(t, err)

	_, err = repo.JoinTeam(1, 11, "not-a-secret")
	assert.ErrorIs(t, err, ErrUnknownSecret)
}

func TestJoinTeam_SecretScopedToCompetition(t *testing.T) {
	repo := NewTeamRepository(setupTestDB(t))

	created, err := repo.CreateTeam(1, 10, "wildcats")
	require.NoError(t, err)

	// The same secret is no good in another competition.
	_, err = repo.JoinTeam(2, 11, created.Secret)
	assert.ErrorIs(t, err, ErrUnknownSecret)
}

func TestJoinTeam_FullTeamRejected(t *testing.T) {
	repo := NewTeamRepository(setupTestDB(t))

	created, err := repo.CreateTeam(1, 10, "wildcats")
	require.NoError(t, err)

	for i := uint(11); i < 10+TeamCap; i++ {
		_, err := repo.JoinTeam(1, i, created.Secret)
		require.NoError(t, err, fmt.Sprintf("user %d should fit", i))
	}

	_, err = repo.JoinTeam(1, 99, created.Secret)
	assert.ErrorIs(t, err, ErrTeamFull)

	members, err := repo.GetTeamMembers(created.ID)
	require.NoError(t, err)
	assert.Len(t, members, TeamCap)
}

func TestOneTeamPerCompetition(t *testing.T) {
	repo := NewTeamRepository(setupTestDB(t))

	first, err := repo.CreateTeam(1, 10, "wildcats")
	require.NoError(t, err)

	_, err = repo.CreateTeam(1, 10, "second-try")
	assert.ErrorIs(t, err, ErrAlreadyInTeam)

	other, err := repo.CreateTeam(1, 11, "owls")
	require.NoError(t, err)
	_, err = repo.JoinTeam(1, 10, other.Secret)
	assert.ErrorIs(t, err, ErrAlreadyInTeam)

	// A different competition is a clean slate for the same user.
	_, err = repo.CreateTeam(2, 10, "wildcats-two")
	require.NoError(t, err)

	team1, err := repo.GetTeamForUser(1, 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, team1.ID)
}

func TestGetTeamForUser_NoTeam(t *testing.T) {
	repo := NewTeamRepository(setupTestDB(t))

	found, err := repo.GetTeamForUser(1, 10)
	require.NoError(t, err)
	assert.Nil(t, found)

	in, err := repo.IsUserInCompetitionTeam(1, 10)
	require.NoError(t, err)
	assert.False(t, in)
}
