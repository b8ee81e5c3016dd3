package submission

import "time"

// FlagSubmission is one accepted flag. The ledger is append-only: rows are
// never updated or deleted, and the unique (user, task) index guarantees at
// most one accepted submission per pair even under concurrent requests.
// Score is snapshotted from the competition binding at submission time, so
// later rebinding or unbinding never rewrites history. Timestamp is Unix
// milliseconds.
type FlagSubmission struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_task;not null" json:"user_id"`
	TaskID    uint      `gorm:"uniqueIndex:idx_user_task;not null" json:"task_id"`
	Score     int       `gorm:"not null" json:"score"`
	Timestamp int64     `gorm:"not null" json:"timestamp"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}
