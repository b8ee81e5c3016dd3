package team

import (
	"errors"
	"fmt"
	"time"

	"ctfboard/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const secretLength = 16

var (
	ErrUnknownSecret = errors.New("no team matches this secret in the competition")
	ErrTeamFull      = errors.New("team already has the maximum number of members")
	ErrAlreadyInTeam = errors.New("user already belongs to a team in this competition")
)

// TeamRepository covers team creation, join-by-secret and membership lookups.
type TeamRepository interface {
	CreateTeam(competitionID, userID uint, name string) (*Team, error)
	JoinTeam(competitionID, userID uint, secret string) (*Team, error)
	GetTeamForUser(competitionID, userID uint) (*Team, error)
	GetTeamMembers(teamID uint) ([]TeamMember, error)
	IsUserInCompetitionTeam(competitionID, userID uint) (bool, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// lockForUpdate serializes concurrent joins against the same team row.
// SQLite has a single writer and no FOR UPDATE syntax; the row lock matters
// only on Postgres.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateTeam creates the team and the creator's membership in one
// transaction: a team is never observable without at least one member.
func (r *teamRepository) CreateTeam(competitionID, userID uint, name string) (*Team, error) {
	newTeam := &Team{
		Name:          name,
		Secret:        utils.GenerateRandomToken(secretLength),
		CompetitionID: competitionID,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&TeamMember{}).
			Where("competition_id = ? AND user_id = ?", competitionID, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check existing membership: %w", err)
		}
		if count > 0 {
			return ErrAlreadyInTeam
		}

		if err := tx.Create(newTeam).Error; err != nil {
			return err
		}

		creator := &TeamMember{
			TeamID:        newTeam.ID,
			CompetitionID: competitionID,
			UserID:        userID,
			JoinedAt:      time.Now(),
		}
		return tx.Create(creator).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent create/join for the same user won the race.
			return nil, ErrAlreadyInTeam
		}
		return nil, err
	}
	return newTeam, nil
}

// JoinTeam adds a membership to the team matching secret. The team row is
// locked for the duration of the transaction so the member-count check and
// the insert are observed atomically; two concurrent joins cannot push the
// team past TeamCap.
func (r *teamRepository) JoinTeam(competitionID, userID uint, secret string) (*Team, error) {
	var target Team

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("secret = ? AND competition_id = ?", secret, competitionID).
			First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownSecret
			}
			return err
		}

		var existing int64
		if err := tx.Model(&TeamMember{}).
			Where("competition_id = ? AND user_id = ?", competitionID, userID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing membership: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyInTeam
		}

		var members int64
		if err := tx.Model(&TeamMember{}).
			Where("team_id = ?", target.ID).
			Count(&members).Error; err != nil {
			return fmt.Errorf("count team members: %w", err)
		}
		if members >= TeamCap {
			return ErrTeamFull
		}

		member := &TeamMember{
			TeamID:        target.ID,
			CompetitionID: competitionID,
			UserID:        userID,
			JoinedAt:      time.Now(),
		}
		return tx.Create(member).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInTeam
		}
		return nil, err
	}
	return &target, nil
}

// GetTeamForUser returns the user's team in the competition, or (nil, nil)
// when the user has no team there.
func (r *teamRepository) GetTeamForUser(competitionID, userID uint) (*Team, error) {
	var t Team
	err := r.db.
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.competition_id = ? AND team_members.user_id = ?", competitionID, userID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) GetTeamMembers(teamID uint) ([]TeamMember, error) {
	var members []TeamMember
	if err := r.db.Where("team_id = ?", teamID).Order("joined_at asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// IsUserInCompetitionTeam is the membership gate used by the task listing and
// flag submission endpoints.
func (r *teamRepository) IsUserInCompetitionTeam(competitionID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&TeamMember{}).
		Where("competition_id = ? AND user_id = ?", competitionID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
