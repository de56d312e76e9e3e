package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "campusmarket/internal/errors"
	"campusmarket/internal/model"
	"campusmarket/internal/repository"
)

// SeedData is the JSON document the seeder accepts.
type SeedData struct {
	Users    []SeedUser        `json:"users"`
	Listings []SeedListing     `json:"listings"`
	Accounts []SeedAccountInfo `json:"accounts"`
}

// SeedUser is a login to create.
type SeedUser struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SeedListing is a listing to create.
type SeedListing struct {
	Name        string `json:"name"`
	Condition   string `json:"condition"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
}

// SeedAccountInfo is a contact record to create.
type SeedAccountInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Payment string `json:"payment"`
	College string `json:"college"`
	Address string `json:"address"`
}

var demoData = SeedData{
	Users: []SeedUser{
		{Email: "sammy@ucsc.edu", Name: "Sammy Slug", Password: "slugs4ever"},
		{Email: "banana@ucsc.edu", Name: "Banana Slug", Password: "slugs4ever"},
	},
	Listings: []SeedListing{
		{Name: "Mini fridge", Condition: "Used - Good", Category: "Dorm Gear", Price: 60, Description: "Fits under a loft bed.", Creator: "sammy@ucsc.edu"},
		{Name: "Calculus textbook", Condition: "Used - Fair", Category: "School Supplies", Price: 25, Description: "Some highlighting in chapter 3.", Creator: "sammy@ucsc.edu"},
		{Name: "Rain jacket", Condition: "Used - Like New", Category: "Clothing", Price: 30, Description: "Size M.", Creator: "banana@ucsc.edu"},
		{Name: "Desk lamp", Condition: "New", Category: "Dorm Gear", Price: 12, Creator: "banana@ucsc.edu"},
		{Name: "Headphones", Condition: "Used - Good", Category: "Electronics", Price: 45, Description: "Wired, over-ear.", Creator: "banana@ucsc.edu"},
	},
	Accounts: []SeedAccountInfo{
		{Email: "sammy@ucsc.edu", Phone: "831-555-0101", Payment: "Venmo", College: "Porter", Address: "Porter A"},
		{Email: "banana@ucsc.edu", Phone: "N/A", Payment: "Cash", College: "Kresge", Address: "Kresge 12"},
	},
}

// loadSeed reads seed data from an http(s) URL, a file, or the built-in set
// when src is empty.
func loadSeed(ctx context.Context, src string) (*SeedData, error) {
	if src == "" {
		data := demoData
		return &data, nil
	}

	var body []byte
	var err error
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		body, err = fetchSeed(ctx, src)
	} else {
		body, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, err
	}

	var data SeedData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &data, nil
}

// fetchSeed fetches seed data from an external URL.
func fetchSeed(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

type seedResult struct {
	created int
	updated int
	skipped int
}

type seeder struct {
	users    repository.UserRepository
	listings repository.ListingRepository
	accounts repository.AccountInfoRepository
	log      *zap.Logger
}

func (s *seeder) seed(ctx context.Context, data *SeedData) (seedResult, error) {
	var res seedResult
	for _, u := range data.Users {
		if err := s.seedUser(ctx, u, &res); err != nil {
			return res, err
		}
	}
	for _, l := range data.Listings {
		if err := s.seedListing(ctx, l, &res); err != nil {
			return res, err
		}
	}
	for _, a := range data.Accounts {
		if err := s.seedAccount(ctx, a, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *seeder) seedUser(ctx context.Context, u SeedUser, res *seedResult) error {
	_, err := s.users.FindByEmail(ctx, u.Email)
	if err == nil {
		res.skipped++
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking user %s: %w", u.Email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password of %s: %w", u.Email, err)
	}
	if err := s.users.Create(ctx, &model.User{Email: u.Email, Name: u.Name, PasswordHash: string(hash)}); err != nil {
		return fmt.Errorf("error creating user %s: %w", u.Email, err)
	}
	res.created++
	return nil
}

func (s *seeder) seedListing(ctx context.Context, l SeedListing, res *seedResult) error {
	existing, err := s.listings.ListByCreator(ctx, l.Creator)
	if err != nil {
		return fmt.Errorf("error checking listings of %s: %w", l.Creator, err)
	}

	listing := &model.Listing{Creator: l.Creator}
	found := false
	for i := range existing {
		if existing[i].Name == l.Name {
			listing, found = &existing[i], true
			break
		}
	}
	listing.Name = l.Name
	listing.Condition = l.Condition
	listing.Category = l.Category
	listing.Price = l.Price
	listing.Description = l.Description

	if found {
		err = s.listings.Update(ctx, listing)
	} else {
		err = s.listings.Create(ctx, listing)
	}
	if verr, ok := apperrors.AsValidationError(err); ok {
		s.log.Warn("skipping invalid listing", zap.String("name", l.Name), zap.Any("fields", verr.Fields))
		res.skipped++
		return nil
	}
	if err != nil {
		return fmt.Errorf("error saving listing %q: %w", l.Name, err)
	}
	if found {
		res.updated++
	} else {
		res.created++
	}
	return nil
}

func (s *seeder) seedAccount(ctx context.Context, a SeedAccountInfo, res *seedResult) error {
	info, err := s.accounts.FindLatestByEmail(ctx, a.Email)
	created := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		info, created, err = &model.AccountInfo{Email: a.Email}, true, nil
	}
	if err != nil {
		return fmt.Errorf("error checking account info of %s: %w", a.Email, err)
	}

	info.Phone = a.Phone
	info.Payment = a.Payment
	info.College = a.College
	info.Address = a.Address

	if created {
		err = s.accounts.Create(ctx, info)
	} else {
		err = s.accounts.Update(ctx, info)
	}
	if verr, ok := apperrors.AsValidationError(err); ok {
		s.log.Warn("skipping invalid account info", zap.String("email", a.Email), zap.Any("fields", verr.Fields))
		res.skipped++
		return nil
	}
	if err != nil {
		return fmt.Errorf("error saving account info of %s: %w", a.Email, err)
	}
	if created {
		res.created++
	} else {
		res.updated++
	}
	return nil
}
