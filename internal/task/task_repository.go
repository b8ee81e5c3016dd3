package task

import (
	"errors"

	"gorm.io/gorm"
)

var ErrCategoryInUse = errors.New("category still has tasks")

type TaskRepository interface {
	CreateTask(t *Task) error
	GetTaskByID(id uint) (*Task, error)
	ListTasks() ([]Task, error)
	UpdateTask(t *Task) error
	DeleteTask(id uint) error

	CreateCategory(cat *Category) error
	GetCategoryByID(id uint) (*Category, error)
	ListCategories() ([]Category, error)
	DeleteCategory(id uint) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) CreateTask(t *Task) error {
	return r.db.Create(t).Error
}

func (r *taskRepository) GetTaskByID(id uint) (*Task, error) {
	var t Task
	if err := r.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) ListTasks() ([]Task, error) {
	var tasks []Task
	if err := r.db.Order("id asc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) UpdateTask(t *Task) error {
	return r.db.Save(t).Error
}

func (r *taskRepository) DeleteTask(id uint) error {
	return r.db.Delete(&Task{}, id).Error
}

func (r *taskRepository) CreateCategory(cat *Category) error {
	return r.db.Create(cat).Error
}

func (r *taskRepository) GetCategoryByID(id uint) (*Category, error) {
	var cat Category
	if err := r.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *taskRepository) ListCategories() ([]Category, error) {
	var cats []Category
	if err := r.db.Order("name asc").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *taskRepository) DeleteCategory(id uint) error {
	var count int64
	if err := r.db.Model(&Task{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return r.db.Delete(&Category{}, id).Error
}
