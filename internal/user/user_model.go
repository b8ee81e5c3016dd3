package user

import "gorm.io/gorm"

// User is a registered account. IsHidden users are fully functional but are
// excluded from public scoreboard output.
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `json:"-"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`
	IsHidden bool   `gorm:"default:false" json:"is_hidden"`
}
