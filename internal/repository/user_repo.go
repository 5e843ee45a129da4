package repository

import (
	"backend/internal/model"
	"backend/internal/workflow"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetActiveByUsername(ctx context.Context, username string) (*model.User, error)
	FirstByRole(ctx context.Context, role workflow.Role) (*model.User, error)
	FirstManagerOfDepartment(ctx context.Context, department string) (*model.User, error)
	UsernamesByRole(ctx context.Context, role workflow.Role) ([]string, error)
	Update(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetActiveByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "username = ? AND is_active = ?", username, true).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FirstByRole(ctx context.Context, role workflow.Role) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).Where("role = ? AND is_active = ?", role, true).
		Order("created_at ASC").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FirstManagerOfDepartment(ctx context.Context, department string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).
		Where("role = ? AND department = ? AND is_active = ?", workflow.RoleManager, department, true).
		Order("created_at ASC").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernamesByRole(ctx context.Context, role workflow.Role) ([]string, error) {
	var usernames []string
	err := GetDB(ctx, r.db).Model(&model.User{}).
		Where("role = ? AND is_active = ?", role, true).
		Pluck("username", &usernames).Error
	return usernames, err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}
