package repository

import (
	"context"

	"gorm.io/gorm"

	"campusmarket/internal/model"
)

// ListingRepository defines listing persistence operations.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	Update(ctx context.Context, listing *model.Listing) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Listing, error)
	List(ctx context.Context) ([]model.Listing, error)
	ListByCreator(ctx context.Context, email string) ([]model.Listing, error)
	Search(ctx context.Context, q string) ([]model.Listing, error)
	ListByCategory(ctx context.Context, category string) ([]model.Listing, error)
	ListCheaperThan(ctx context.Context, ceiling uint64) ([]model.Listing, error)
	IncrementInterest(ctx context.Context, id uint) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create inserts a new listing; the model hook rejects invalid rows.
func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// Update overwrites every column of an existing listing.
func (r *listingRepository) Update(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// Delete removes the listing with id. Deleting a missing id is not an error.
func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Listing{}, id).Error
}

// FindByID finds a listing by ID.
func (r *listingRepository) FindByID(ctx context.Context, id uint) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// List returns every listing in storage order.
func (r *listingRepository) List(ctx context.Context) ([]model.Listing, error) {
	var listings []model.Listing
	if err := r.db.WithContext(ctx).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListByCreator returns the listings created by email.
func (r *listingRepository) ListByCreator(ctx context.Context, email string) ([]model.Listing, error) {
	var listings []model.Listing
	if err := r.db.WithContext(ctx).Where("creator = ?", email).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// Search returns listings whose name or description contains q, compared
// case-sensitively.
func (r *listingRepository) Search(ctx context.Context, q string) ([]model.Listing, error) {
	cond := "INSTR(name, ?) > 0 OR INSTR(description, ?) > 0"
	if r.db.Dialector.Name() == "mysql" {
		cond = "INSTR(BINARY name, ?) > 0 OR INSTR(BINARY description, ?) > 0"
	}
	var listings []model.Listing
	if err := r.db.WithContext(ctx).Where(cond, q, q).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListByCategory returns listings whose category equals category exactly.
func (r *listingRepository) ListByCategory(ctx context.Context, category string) ([]model.Listing, error) {
	var listings []model.Listing
	if err := r.db.WithContext(ctx).Where("category = ?", category).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListCheaperThan returns listings priced strictly below ceiling.
func (r *listingRepository) ListCheaperThan(ctx context.Context, ceiling uint64) ([]model.Listing, error) {
	// drivers reject uint64 arguments with the high bit set
	if ceiling > model.MaxPrice+1 {
		ceiling = model.MaxPrice + 1
	}
	var listings []model.Listing
	if err := r.db.WithContext(ctx).Where("price < ?", int64(ceiling)).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// IncrementInterest adds one to the interest counter in a single statement
// and reports how many rows matched.
func (r *listingRepository) IncrementInterest(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("id = ?", id).
		UpdateColumn("interest", gorm.Expr("interest + ?", 1))
	return res.RowsAffected, res.Error
}
