package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invoiceflow-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserDisabled = errors.New("user account is disabled")
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}
	return &user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var existing models.User
	err := r.db.WithContext(ctx).Unscoped().Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		if existing.DeletedAt.Valid {
			existing.DeletedAt = gorm.DeletedAt{}
			existing.Name = user.Name
			existing.Role = user.Role
			existing.VendorID = user.VendorID
			existing.AssignedProjects = user.AssignedProjects
			existing.Active = true
			if err := r.db.WithContext(ctx).Unscoped().Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to restore soft-deleted user: %w", err)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("a user with that email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user in database: %w", err)
	}
	return user, nil
}
