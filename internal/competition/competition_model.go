package competition

import (
	"time"

	"gorm.io/gorm"
)

// Competition groups bound tasks behind a start/end window. Running is
// derived: it flips to true when the current time enters the window during a
// fetch, and is never toggled by hand.
type Competition struct {
	gorm.Model
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	DateStart   *time.Time `json:"date_start"`
	DateEnd     *time.Time `json:"date_end"`
	Running     bool       `gorm:"default:false" json:"running"`
}

// CompetitionTask binds a task into a competition with a competition-specific
// score. The same task may be worth different points in different
// competitions. Bindings are hard-deleted so a pair can be re-bound later.
type CompetitionTask struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CompetitionID uint      `gorm:"uniqueIndex:idx_competition_task;not null" json:"competition_id"`
	TaskID        uint      `gorm:"uniqueIndex:idx_competition_task;not null" json:"task_id"`
	Score         int       `gorm:"not null" json:"score"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
