package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusmarket/internal/cache"
	apperrors "campusmarket/internal/errors"
	"campusmarket/internal/model"
	"campusmarket/internal/repository"
)

// ListingInput is the editable part of a listing.
type ListingInput struct {
	Name        string
	Condition   string
	Category    string
	Price       int
	Description string
}

// ListingService handles listing operations.
type ListingService interface {
	List(ctx context.Context) ([]model.Listing, error)
	ListByCreator(ctx context.Context, email string) ([]model.Listing, error)
	Get(ctx context.Context, id uint) (*model.Listing, error)
	GetOwned(ctx context.Context, owner string, id uint) (*model.Listing, error)
	Create(ctx context.Context, owner string, input ListingInput, image *Upload) (*model.Listing, error)
	Update(ctx context.Context, owner string, id uint, input ListingInput, image *Upload) (*model.Listing, error)
	Delete(ctx context.Context, owner string, id uint) error
	Search(ctx context.Context, q string) ([]model.Listing, error)
	Filter(ctx context.Context, categoryOrPrice string) ([]model.Listing, error)
	IncrementInterest(ctx context.Context, id uint) error
}

type listingService struct {
	repo     repository.ListingRepository
	cache    *cache.Client
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewListingService creates a new listing service. Single listings are cached
// for cacheTTL.
func NewListingService(repo repository.ListingRepository, cache *cache.Client, cacheTTL time.Duration, log *zap.Logger) ListingService {
	return &listingService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (s *listingService) cacheKey(id uint) string {
	return cache.Key("listing", strconv.FormatUint(uint64(id), 10))
}

// List returns every listing in storage order.
func (s *listingService) List(ctx context.Context) ([]model.Listing, error) {
	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

// ListByCreator returns the listings owned by email.
func (s *listingService) ListByCreator(ctx context.Context, email string) ([]model.Listing, error) {
	listings, err := s.repo.ListByCreator(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list listings of %s: %w", email, err)
	}
	return listings, nil
}

// Get retrieves a listing by ID with caching.
func (s *listingService) Get(ctx context.Context, id uint) (*model.Listing, error) {
	var cached model.Listing
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing %d: %w", id, err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), listing, s.cacheTTL)
	return listing, nil
}

// GetOwned loads a listing straight from storage and checks that owner
// created it.
func (s *listingService) GetOwned(ctx context.Context, owner string, id uint) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing %d: %w", id, err)
	}
	if !listing.IsOwnedBy(owner) {
		return nil, apperrors.ErrNotOwner
	}
	return listing, nil
}

// Create stores a new listing owned by owner.
func (s *listingService) Create(ctx context.Context, owner string, input ListingInput, image *Upload) (*model.Listing, error) {
	listing := &model.Listing{Creator: owner}
	apply(listing, input, image)

	if err := s.repo.Create(ctx, listing); err != nil {
		if _, ok := apperrors.AsValidationError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("create listing: %w", err)
	}
	s.log.Info("listing created", zap.Uint("listing_id", listing.ID), zap.String("creator", owner))
	return listing, nil
}

// Update overwrites the fields of a listing owned by owner. A nil image keeps
// the stored one.
func (s *listingService) Update(ctx context.Context, owner string, id uint, input ListingInput, image *Upload) (*model.Listing, error) {
	listing, err := s.GetOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	apply(listing, input, image)

	if err := s.repo.Update(ctx, listing); err != nil {
		if _, ok := apperrors.AsValidationError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("update listing %d: %w", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.log.Info("listing updated", zap.Uint("listing_id", id), zap.String("creator", owner))
	return listing, nil
}

// Delete removes a listing owned by owner.
func (s *listingService) Delete(ctx context.Context, owner string, id uint) error {
	if _, err := s.GetOwned(ctx, owner, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing %d: %w", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.log.Info("listing deleted", zap.Uint("listing_id", id), zap.String("creator", owner))
	return nil
}

// Search returns listings whose name or description contains q after
// trimming. An empty query returns every listing.
func (s *listingService) Search(ctx context.Context, q string) ([]model.Listing, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.List(ctx)
	}
	listings, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return listings, nil
}

// Filter treats a non-negative integer segment as an exclusive price ceiling
// and anything else as an exact category name.
func (s *listingService) Filter(ctx context.Context, categoryOrPrice string) ([]model.Listing, error) {
	var (
		listings []model.Listing
		err      error
	)
	if ceiling, ok := priceCeiling(categoryOrPrice); ok {
		listings, err = s.repo.ListCheaperThan(ctx, ceiling)
	} else {
		listings, err = s.repo.ListByCategory(ctx, categoryOrPrice)
	}
	if err != nil {
		return nil, fmt.Errorf("filter listings by %q: %w", categoryOrPrice, err)
	}
	return listings, nil
}

// IncrementInterest adds one to a listing's interest counter.
func (s *listingService) IncrementInterest(ctx context.Context, id uint) error {
	n, err := s.repo.IncrementInterest(ctx, id)
	if err != nil {
		return fmt.Errorf("increment interest of %d: %w", id, err)
	}
	if n == 0 {
		return apperrors.ErrListingNotFound
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// priceCeiling parses a digits-only segment. Ceilings past the highest price
// all select every listing, so they collapse to MaxPrice+1, including ones
// too long for uint64.
func priceCeiling(segment string) (uint64, bool) {
	if segment == "" || strings.Trim(segment, "0123456789") != "" {
		return 0, false
	}
	ceiling, err := strconv.ParseUint(segment, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if err != nil || ceiling > model.MaxPrice+1 {
		ceiling = model.MaxPrice + 1
	}
	return ceiling, true
}

func apply(listing *model.Listing, input ListingInput, image *Upload) {
	listing.Name = input.Name
	listing.Condition = input.Condition
	listing.Category = input.Category
	listing.Price = input.Price
	listing.Description = input.Description
	if image != nil {
		listing.Image = image.DataURL()
	}
}
