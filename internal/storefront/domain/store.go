package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

var ErrStoreNotFound = errors.New("store not found")

// NavLink is one entry of the storefront's header/footer navigation.
type NavLink struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Position string `json:"position"` // header | footer
}

// Store is one seller's branded storefront. Username and Name are both
// public handles; shopper-facing lookups match either, case-insensitively.
type Store struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Username       string
	Name           string
	ThemeColor     string
	HeroTitle      string
	HeroSubtitle   string
	HeroImageURL   string
	CarouselImages []string
	NavLinks       []NavLink
	Currency       currency.Unit
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Settings is the seller-editable part of a Store.
type Settings struct {
	Name           string
	ThemeColor     string
	HeroTitle      string
	HeroSubtitle   string
	HeroImageURL   string
	CarouselImages []string
	NavLinks       []NavLink
}
