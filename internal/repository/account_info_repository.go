package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"campusmarket/internal/model"
)

// AccountInfoRepository defines account info persistence operations.
type AccountInfoRepository interface {
	Create(ctx context.Context, info *model.AccountInfo) error
	Update(ctx context.Context, info *model.AccountInfo) error
	FindByID(ctx context.Context, id uint) (*model.AccountInfo, error)
	FindLatestByEmail(ctx context.Context, email string) (*model.AccountInfo, error)
	FindByEmailOrCreate(ctx context.Context, info *model.AccountInfo) (*model.AccountInfo, bool, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
}

type accountInfoRepository struct {
	db *gorm.DB
}

// NewAccountInfoRepository creates a new account info repository.
func NewAccountInfoRepository(db *gorm.DB) AccountInfoRepository {
	return &accountInfoRepository{db: db}
}

// Create inserts a new account info row.
func (r *accountInfoRepository) Create(ctx context.Context, info *model.AccountInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

// Update overwrites an existing account info row.
func (r *accountInfoRepository) Update(ctx context.Context, info *model.AccountInfo) error {
	return r.db.WithContext(ctx).Save(info).Error
}

// FindByID finds an account info row by ID.
func (r *accountInfoRepository) FindByID(ctx context.Context, id uint) (*model.AccountInfo, error) {
	var info model.AccountInfo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&info).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

// FindLatestByEmail returns the most recently inserted row for email. Email is
// not unique, so several rows may exist.
func (r *accountInfoRepository) FindLatestByEmail(ctx context.Context, email string) (*model.AccountInfo, error) {
	var info model.AccountInfo
	if err := r.db.WithContext(ctx).Where("email = ?", email).Order("id DESC").First(&info).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

// FindByEmailOrCreate returns the latest row for info.Email, inserting info
// when there is none. The boolean reports whether a row was created. The
// lookup and insert are separate statements without locking.
func (r *accountInfoRepository) FindByEmailOrCreate(ctx context.Context, info *model.AccountInfo) (*model.AccountInfo, bool, error) {
	existing, err := r.FindLatestByEmail(ctx, info.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := r.Create(ctx, info); err != nil {
		return nil, false, err
	}
	created, err := r.FindLatestByEmail(ctx, info.Email)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// CountByEmail counts the rows stored for email.
func (r *accountInfoRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AccountInfo{}).Where("email = ?", email).Count(&count).Error
	return count, err
}
