package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "campusmarket/internal/errors"
	"campusmarket/internal/model"
	"campusmarket/internal/repository"
)

// ContactInput is what the save-account-info form submits.
type ContactInput struct {
	Address string
	Phone   string
	College string
}

// AccountInfoInput is the full editable account info record.
type AccountInfoInput struct {
	Phone   string
	Payment string
	College string
	Address string
}

// AccountView is everything the account page shows.
type AccountView struct {
	Info     *model.AccountInfo
	Listings []model.Listing
}

// AccountInfoService handles account info operations.
type AccountInfoService interface {
	View(ctx context.Context, email string) (*AccountView, error)
	SaveContact(ctx context.Context, email string, input ContactInput) (*model.AccountInfo, error)
	GetOwned(ctx context.Context, email string, id uint) (*model.AccountInfo, error)
	Update(ctx context.Context, email string, id uint, input AccountInfoInput) (*model.AccountInfo, error)
}

type accountInfoService struct {
	repo        repository.AccountInfoRepository
	listingRepo repository.ListingRepository
	log         *zap.Logger
}

// NewAccountInfoService creates a new account info service.
func NewAccountInfoService(repo repository.AccountInfoRepository, listingRepo repository.ListingRepository, log *zap.Logger) AccountInfoService {
	return &accountInfoService{
		repo:        repo,
		listingRepo: listingRepo,
		log:         log,
	}
}

// View returns the user's account info, creating the default row on the
// first visit, together with the listings the user created. Two concurrent
// first visits can both insert a row.
func (s *accountInfoService) View(ctx context.Context, email string) (*AccountView, error) {
	info, created, err := s.repo.FindByEmailOrCreate(ctx, model.NewDefaultAccountInfo(email))
	if err != nil {
		return nil, fmt.Errorf("load account info of %s: %w", email, err)
	}
	if created {
		s.log.Info("account info created", zap.String("email", email), zap.Uint("account_id", info.ID))
	} else if n, err := s.repo.CountByEmail(ctx, email); err != nil {
		s.log.Error("count account info rows", zap.String("email", email), zap.Error(err))
	} else if n > 1 {
		// concurrent first visits; the newest row is the one shown
		s.log.Warn("duplicate account info rows",
			zap.String("email", email),
			zap.Int64("rows", n),
			zap.Uint("account_id", info.ID))
	}

	listings, err := s.listingRepo.ListByCreator(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list listings of %s: %w", email, err)
	}
	return &AccountView{Info: info, Listings: listings}, nil
}

// SaveContact inserts a new account info row carrying the submitted contact
// details. It does not touch earlier rows of the same user.
func (s *accountInfoService) SaveContact(ctx context.Context, email string, input ContactInput) (*model.AccountInfo, error) {
	info := &model.AccountInfo{
		Email:   email,
		Phone:   input.Phone,
		Payment: model.DefaultPayment,
		College: input.College,
		Address: input.Address,
	}
	if err := s.repo.Create(ctx, info); err != nil {
		if _, ok := apperrors.AsValidationError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("save account info: %w", err)
	}
	s.log.Info("account info saved", zap.String("email", email), zap.Uint("account_id", info.ID))
	return info, nil
}

// GetOwned loads an account info row and checks that it belongs to email.
func (s *accountInfoService) GetOwned(ctx context.Context, email string, id uint) (*model.AccountInfo, error) {
	info, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountInfoNotFound
		}
		return nil, fmt.Errorf("find account info %d: %w", id, err)
	}
	if !info.IsOwnedBy(email) {
		return nil, apperrors.ErrNotOwner
	}
	return info, nil
}

// Update overwrites the editable fields of an account info row owned by email.
func (s *accountInfoService) Update(ctx context.Context, email string, id uint, input AccountInfoInput) (*model.AccountInfo, error) {
	info, err := s.GetOwned(ctx, email, id)
	if err != nil {
		return nil, err
	}
	info.Phone = input.Phone
	info.Payment = input.Payment
	info.College = input.College
	info.Address = input.Address

	if err := s.repo.Update(ctx, info); err != nil {
		if _, ok := apperrors.AsValidationError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("update account info %d: %w", id, err)
	}
	return info, nil
}
