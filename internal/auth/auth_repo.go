package auth

import (
	"errors"
	"fmt"

	"ctfboard/internal/user"

	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthRepository interface {
	RegisterUser(username, hashedPassword string) (*user.User, error)
	GetUserByUsername(username string) (*user.User, error)
	GetUserByID(id uint) (*user.User, error)
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

// RegisterUser creates an account. The very first user in the system becomes
// an admin hidden from the scoreboard; the flag assignment is a pure function
// of the current row count, evaluated inside the insert transaction so the
// bootstrap happens exactly once.
func (r *authRepository) RegisterUser(username, hashedPassword string) (*user.User, error) {
	newUser := &user.User{
		Username: username,
		Password: hashedPassword,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&user.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count == 0 {
			newUser.IsAdmin = true
			newUser.IsHidden = true
		}
		return tx.Create(newUser).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return newUser, nil
}

func (r *authRepository) GetUserByUsername(username string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
