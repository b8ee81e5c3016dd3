package submission

import (
	"path/filepath"
	"testing"
	"time"

	"ctfboard/internal/competition"
	"ctfboard/internal/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "submission.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&task.Task{},
		&competition.Competition{}, &competition.CompetitionTask{},
		&FlagSubmission{},
	))
	return db
}

// seedBoundTask creates a task with the given flag, binds it into a fresh
// competition at the given score, and returns (competitionID, taskID).
func seedBoundTask(t *testing.T, db *gorm.DB, flag string, score int) (uint, uint) {
	t.Helper()

	tk := &task.Task{Name: "challenge", Flag: flag}
	require.NoError(t, db.Create(tk).Error)

	comp := &competition.Competition{Name: "finals"}
	require.NoError(t, db.Create(comp).Error)

	binding := &competition.CompetitionTask{CompetitionID: comp.ID, TaskID: tk.ID, Score: score}
	require.NoError(t, db.Create(binding).Error)

	return comp.ID, tk.ID
}

func countSubmissions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&FlagSubmission{}).Count(&count).Error)
	return count
}

func TestSubmitFlag_CorrectFlagAcceptedOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	compID, taskID := seedBoundTask(t, db, "flag{right}", 100)

	before := time.Now().UnixMilli()
	accepted, err := repo.SubmitFlag(compID, taskID, 10, "flag{right}", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, accepted)

	var entry FlagSubmission
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, 100, entry.Score)
	assert.Equal(t, "10.0.0.1", entry.IP)
	assert.GreaterOrEqual(t, entry.Timestamp, before)
	assert.LessOrEqual(t, entry.Timestamp, time.Now().UnixMilli())

	// Resubmitting, right or wrong, stays false and appends nothing.
	accepted, err = repo.SubmitFlag(compID, taskID, 10, "flag{right}", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, accepted)

	accepted, err = repo.SubmitFlag(compID, taskID, 10, "flag{wrong}", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, accepted)

	assert.EqualValues(t, 1, countSubmissions(t, db))
}

func TestSubmitFlag_WrongFlag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	compID, taskID := seedBoundTask(t, db, "flag{right}", 100)

	accepted, err := repo.SubmitFlag(compID, taskID, 10, "flag{wrong}", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.EqualValues(t, 0, countSubmissions(t, db))

	// Comparison is exact, no trimming or case folding.
	accepted, err = repo.SubmitFlag(compID, taskID, 10, "FLAG{RIGHT}", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, accepted)

	accepted, err = repo.SubmitFlag(compID, taskID, 10, "flag{right} ", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestSubmitFlag_UnboundTask(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	compID, _ := seedBoundTask(t, db, "flag{right}", 100)

	stray := &task.Task{Name: "stray", Flag: "flag{stray}"}
	require.NoError(t, db.Create(stray).Error)

	_, err := repo.SubmitFlag(compID, stray.ID, 10, "flag{stray}", "10.0.0.1")
	assert.ErrorIs(t, err, ErrTaskNotInCompetition)
}

func TestSubmitFlag_ScoreSnapshotSurvivesRescoring(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	compID, taskID := seedBoundTask(t, db, "flag{right}", 100)

	accepted, err := repo.SubmitFlag(compID, taskID, 10, "flag{right}", "10.0.0.1")
	require.NoError(t, err)
	require.True(t, accepted)

	// Rescore the binding after the solve.
	require.NoError(t, db.Model(&competition.CompetitionTask{}).
		Where("competition_id = ? AND task_id = ?", compID, taskID).
		Update("score", 500).Error)

	// A later solver earns the new score.
	accepted, err = repo.SubmitFlag(compID, taskID, 11, "flag{right}", "10.0.0.2")
	require.NoError(t, err)
	require.True(t, accepted)

	var entries []FlagSubmission
	require.NoError(t, db.Order("id asc").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, 100, entries[0].Score)
	assert.Equal(t, 500, entries[1].Score)

	// Unbinding never rewrites the ledger.
	require.NoError(t, db.Where("competition_id = ? AND task_id = ?", compID, taskID).
		Delete(&competition.CompetitionTask{}).Error)
	assert.EqualValues(t, 2, countSubmissions(t, db))
}

func TestGetSolvedTaskIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	compID, taskID := seedBoundTask(t, db, "flag{right}", 100)

	ids, err := repo.GetSolvedTaskIDs(10)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = repo.SubmitFlag(compID, taskID, 10, "flag{right}", "10.0.0.1")
	require.NoError(t, err)

	ids, err = repo.GetSolvedTaskIDs(10)
	require.NoError(t, err)
	assert.Equal(t, []uint{taskID}, ids)
}
