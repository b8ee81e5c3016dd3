package task

import "gorm.io/gorm"

// Task is a reusable, competition-independent challenge definition. The
// points it is worth come from the competition binding, never from the task
// itself. File holds the stored attachment name, empty when there is none.
type Task struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Hint        string `json:"hint"`
	Flag        string `gorm:"not null" json:"-"`
	File        string `json:"file,omitempty"`
	CategoryID  uint   `gorm:"index;not null" json:"category_id"`
}

// Category is a pure classification of tasks.
type Category struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
