package team

import (
	"time"

	"gorm.io/gorm"
)

// TeamCap is the maximum number of members a team may have.
const TeamCap = 3

// Team is scoped to exactly one competition. The same user playing in two
// competitions belongs to two distinct Team records. Secret is the opaque
// join token shared out-of-band with prospective members.
type Team struct {
	gorm.Model
	Name          string `gorm:"not null" json:"name"`
	Secret        string `gorm:"uniqueIndex;not null" json:"-"`
	CompetitionID uint   `gorm:"index;not null" json:"competition_id"`
}

// TeamMember pairs a user with a team. CompetitionID is denormalized from the
// team so the one-team-per-competition-per-user rule is a database constraint
// rather than an application-level check alone. Memberships are permanent;
// there is no soft delete.
type TeamMember struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	TeamID        uint      `gorm:"index;not null" json:"team_id"`
	CompetitionID uint      `gorm:"uniqueIndex:idx_competition_user;not null" json:"competition_id"`
	UserID        uint      `gorm:"uniqueIndex:idx_competition_user;not null" json:"user_id"`
	JoinedAt      time.Time `json:"joined_at"`
}
