package repo

import (
	"context"
	"strings"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("repo.User.Get", err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translate("repo.User.GetByEmail", err)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("full_name").Find(&users).Error; err != nil {
		return nil, translate("repo.User.List", err)
	}
	return users, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return translate("repo.User.Create", r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return translate("repo.User.Update", r.db.WithContext(ctx).Save(user).Error)
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[models.User](ctx, r.db, "repo.User.Delete", id)
}

// deleteByID removes one row and reports ErrNotFound when nothing matched.
func deleteByID[T any](ctx context.Context, db *gorm.DB, op, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(op, gorm.ErrRecordNotFound)
	}
	return nil
}
