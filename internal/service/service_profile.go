package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/store"
	"github.com/MKhiriev/go-reg-assist/models"
)

// profileService is the production implementation of [ProfileService].
// All operations are load-mutate-save against the account row; the
// preference and recently-viewed documents live inside it.
type profileService struct {
	users  store.UserRepository
	logger *logger.Logger
}

// NewProfileService constructs a [ProfileService].
func NewProfileService(users store.UserRepository, log *logger.Logger) ProfileService {
	log.Debug().Msg("creating profile service")
	return &profileService{users: users, logger: log}
}

// load fetches the account, hiding soft-deleted ones.
func (s *profileService) load(ctx context.Context, funcName, userID string) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrAccountNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error looking up account")
		return models.User{}, err
	}
	if user.IsDeleted {
		return models.User{}, ErrAccountNotFound
	}
	return user, nil
}

// Theme returns the account's UI theme, defaulting to light for accounts
// created before the preference existed.
func (s *profileService) Theme(ctx context.Context, userID string) (models.Theme, error) {
	user, err := s.load(ctx, "*profileService.Theme", userID)
	if err != nil {
		return "", err
	}

	theme := user.Preferences.Theme
	if !theme.Valid() {
		theme = models.ThemeLight
	}
	return theme, nil
}

// SetTheme updates the account's UI theme.
func (s *profileService) SetTheme(ctx context.Context, userID string, theme models.Theme) (models.Theme, error) {
	if !theme.Valid() {
		return "", fmt.Errorf("%w: unsupported theme %q", ErrValidation, theme)
	}

	user, err := s.load(ctx, "*profileService.SetTheme", userID)
	if err != nil {
		return "", err
	}

	user.Preferences.Theme = theme
	if err = s.users.UpdateUser(ctx, user); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*profileService.SetTheme").Str("user_id", userID).Msg("error persisting theme")
		return "", err
	}

	return theme, nil
}

// RecentlyViewed returns the region's recently-viewed list, newest first.
// A region with no recorded views yields an empty list.
func (s *profileService) RecentlyViewed(ctx context.Context, userID string, region models.Region) ([]models.RecentlyViewedPDF, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("%w: unsupported region %q", ErrValidation, region)
	}

	user, err := s.load(ctx, "*profileService.RecentlyViewed", userID)
	if err != nil {
		return nil, err
	}

	pdfs := user.RecentlyViewed[region]
	if pdfs == nil {
		pdfs = []models.RecentlyViewedPDF{}
	}
	return pdfs, nil
}

// AddRecentlyViewed records a document view for the region. Duplicate
// document IDs move to the front; the list is clamped to its cap.
func (s *profileService) AddRecentlyViewed(ctx context.Context, userID string, region models.Region, request models.RecentlyViewedRequest) ([]models.RecentlyViewedPDF, error) {
	switch {
	case !region.Valid():
		return nil, fmt.Errorf("%w: unsupported region %q", ErrValidation, region)
	case request.DocumentID == "":
		return nil, fmt.Errorf("%w: document_id is required", ErrValidation)
	case request.Page < 1:
		return nil, fmt.Errorf("%w: page must be >= 1", ErrValidation)
	}

	user, err := s.load(ctx, "*profileService.AddRecentlyViewed", userID)
	if err != nil {
		return nil, err
	}

	user.AddRecentlyViewed(region, models.RecentlyViewedPDF{
		DocumentID:  request.DocumentID,
		DisplayName: request.DisplayName,
		Filename:    request.Filename,
		Page:        request.Page,
		ViewedAt:    time.Now(),
	})

	if err = s.users.UpdateUser(ctx, user); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*profileService.AddRecentlyViewed").Str("user_id", userID).Msg("error persisting recently viewed")
		return nil, err
	}

	return user.RecentlyViewed[region], nil
}

// ClearRecentlyViewed drops the region's recently-viewed list. Clearing an
// already empty list is a no-op that still succeeds.
func (s *profileService) ClearRecentlyViewed(ctx context.Context, userID string, region models.Region) error {
	if !region.Valid() {
		return fmt.Errorf("%w: unsupported region %q", ErrValidation, region)
	}

	user, err := s.load(ctx, "*profileService.ClearRecentlyViewed", userID)
	if err != nil {
		return err
	}

	if _, ok := user.RecentlyViewed[region]; !ok {
		return nil
	}
	delete(user.RecentlyViewed, region)

	if err = s.users.UpdateUser(ctx, user); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*profileService.ClearRecentlyViewed").Str("user_id", userID).Msg("error persisting cleared list")
		return err
	}

	return nil
}
