package submission

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrTaskNotInCompetition = errors.New("task is not part of this competition")

type SubmissionRepository interface {
	SubmitFlag(competitionID, taskID, userID uint, candidate string, ip string) (bool, error)
	GetSolvedTaskIDs(userID uint) ([]uint, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// SubmitFlag validates a decoded candidate flag and, when it matches,
// appends a ledger row snapshotting the binding's current score, a
// millisecond timestamp and the submitter IP.
//
// Returns (false, nil) for a wrong flag and for any repeat submission after
// the first accepted one; neither mutates the ledger. The prior-submission
// check plus the unique (user, task) index make the check-then-insert
// effectively atomic: of two concurrent correct submissions exactly one
// returns true.
func (r *submissionRepository) SubmitFlag(competitionID, taskID, userID uint, candidate string, ip string) (bool, error) {
	var accepted bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var bound struct {
			Flag  string
			Score int
		}
		res := tx.Table("tasks").
			Select("tasks.flag, competition_tasks.score").
			Joins("JOIN competition_tasks ON competition_tasks.task_id = tasks.id").
			Where("tasks.id = ? AND competition_tasks.competition_id = ? AND tasks.deleted_at IS NULL", taskID, competitionID).
			Limit(1).Scan(&bound)
		if res.Error != nil {
			return fmt.Errorf("resolve bound task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrTaskNotInCompetition
		}

		var prior int64
		if err := tx.Model(&FlagSubmission{}).
			Where("user_id = ? AND task_id = ?", userID, taskID).
			Count(&prior).Error; err != nil {
			return fmt.Errorf("check prior submissions: %w", err)
		}
		if prior > 0 {
			return nil
		}

		if candidate != bound.Flag {
			return nil
		}

		entry := &FlagSubmission{
			UserID:    userID,
			TaskID:    taskID,
			Score:     bound.Score,
			Timestamp: time.Now().UnixMilli(),
			IP:        ip,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		accepted = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent submission for the same (user, task) won the race.
			return false, nil
		}
		return false, err
	}
	return accepted, nil
}

// GetSolvedTaskIDs returns the tasks the user has an accepted submission for.
func (r *submissionRepository) GetSolvedTaskIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&FlagSubmission{}).
		Where("user_id = ?", userID).
		Pluck("task_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
