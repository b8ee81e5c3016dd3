package competition

import (
	"errors"
	"fmt"
	"time"

	"ctfboard/internal/task"

	"gorm.io/gorm"
)

var (
	ErrUnknownTask        = errors.New("task does not exist")
	ErrUnknownCompetition = errors.New("competition does not exist")
	ErrAlreadyBound       = errors.New("task is already bound to this competition")
	ErrNotBound           = errors.New("task is not bound to this competition")
)

// BoundTask is one row of a competition's task listing: the task joined with
// its competition-specific score.
type BoundTask struct {
	TaskID      uint   `json:"task_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Hint        string `json:"hint"`
	File        string `json:"file,omitempty"`
	CategoryID  uint   `json:"category_id"`
	Score       int    `json:"score"`
}

type CompetitionRepository interface {
	CreateCompetition(comp *Competition) error
	GetCompetition(id uint) (*Competition, error)
	ListCompetitions() ([]Competition, error)
	DeleteCompetition(id uint) error

	BindTask(competitionID, taskID uint, score int) (*CompetitionTask, error)
	UpdateScore(competitionID, taskID uint, score int) (*CompetitionTask, error)
	UnbindTask(competitionID, taskID uint) error
	GetBinding(competitionID, taskID uint) (*CompetitionTask, error)
	ListTasksForCompetition(competitionID uint) ([]BoundTask, error)
}

type competitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) CompetitionRepository {
	return &competitionRepository{db: db}
}

func (r *competitionRepository) CreateCompetition(comp *Competition) error {
	return r.db.Create(comp).Error
}

// GetCompetition fetches a competition and refreshes its derived Running
// flag: once the current time falls inside the start/end window the flag is
// persisted as true.
func (r *competitionRepository) GetCompetition(id uint) (*Competition, error) {
	var comp Competition
	if err := r.db.First(&comp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !comp.Running && comp.DateStart != nil && comp.DateEnd != nil {
		now := time.Now()
		if now.After(*comp.DateStart) && now.Before(*comp.DateEnd) {
			if err := r.db.Model(&comp).Update("running", true).Error; err != nil {
				return nil, fmt.Errorf("refresh running flag: %w", err)
			}
			comp.Running = true
		}
	}
	return &comp, nil
}

func (r *competitionRepository) ListCompetitions() ([]Competition, error) {
	var comps []Competition
	if err := r.db.Order("id asc").Find(&comps).Error; err != nil {
		return nil, err
	}
	return comps, nil
}

// DeleteCompetition removes the competition and its bindings. Tasks and the
// submission ledger are untouched.
func (r *competitionRepository) DeleteCompetition(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("competition_id = ?", id).Delete(&CompetitionTask{}).Error; err != nil {
			return fmt.Errorf("delete bindings: %w", err)
		}
		return tx.Delete(&Competition{}, id).Error
	})
}

// BindTask creates a binding with a competition-specific score. Binding an
// already-bound pair fails with ErrAlreadyBound; changing the score of an
// existing binding goes through UpdateScore instead.
func (r *competitionRepository) BindTask(competitionID, taskID uint, score int) (*CompetitionTask, error) {
	var taskCount int64
	if err := r.db.Model(&task.Task{}).Where("id = ?", taskID).Count(&taskCount).Error; err != nil {
		return nil, err
	}
	if taskCount == 0 {
		return nil, ErrUnknownTask
	}

	var compCount int64
	if err := r.db.Model(&Competition{}).Where("id = ?", competitionID).Count(&compCount).Error; err != nil {
		return nil, err
	}
	if compCount == 0 {
		return nil, ErrUnknownCompetition
	}

	binding := &CompetitionTask{
		CompetitionID: competitionID,
		TaskID:        taskID,
		Score:         score,
	}
	if err := r.db.Create(binding).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyBound
		}
		return nil, err
	}
	return binding, nil
}

func (r *competitionRepository) UpdateScore(competitionID, taskID uint, score int) (*CompetitionTask, error) {
	res := r.db.Model(&CompetitionTask{}).
		Where("competition_id = ? AND task_id = ?", competitionID, taskID).
		Update("score", score)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotBound
	}
	return r.GetBinding(competitionID, taskID)
}

// UnbindTask removes the binding only. The task and any prior submissions
// keep their snapshotted scores.
func (r *competitionRepository) UnbindTask(competitionID, taskID uint) error {
	res := r.db.Where("competition_id = ? AND task_id = ?", competitionID, taskID).
		Delete(&CompetitionTask{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotBound
	}
	return nil
}

func (r *competitionRepository) GetBinding(competitionID, taskID uint) (*CompetitionTask, error) {
	var binding CompetitionTask
	err := r.db.Where("competition_id = ? AND task_id = ?", competitionID, taskID).
		First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotBound
		}
		return nil, err
	}
	return &binding, nil
}

// ListTasksForCompetition returns the bound tasks ordered ascending by score.
// The ordering is a user-facing guarantee: easier tasks surface first.
func (r *competitionRepository) ListTasksForCompetition(competitionID uint) ([]BoundTask, error) {
	var rows []BoundTask
	err := r.db.Table("tasks").
		Select("tasks.id AS task_id, tasks.name, tasks.description, tasks.hint, tasks.file, tasks.category_id, competition_tasks.score").
		Joins("JOIN competition_tasks ON competition_tasks.task_id = tasks.id").
		Where("competition_tasks.competition_id = ? AND tasks.deleted_at IS NULL", competitionID).
		Order("competition_tasks.score asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
