package services

import (
	"context"
	"fmt"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/upstream"
)

const profileEndpoint = "settings/profile/"

// ProfileService reads and updates the caller's account settings and
// resolves the currency and date format every page is rendered with.
type ProfileService struct {
	upstream Upstream
	cache    *PayloadCache
	fallback core.Profile
	logger   *log.Logger
}

// NewProfileService returns a service whose Display falls back to fallback
// when the upstream profile is unavailable or incomplete.
func NewProfileService(up Upstream, c *PayloadCache, fallback core.Profile, logger *log.Logger) *ProfileService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ProfileService{
		upstream: up,
		cache:    c,
		fallback: fallback.WithDefaults(core.Profile{Currency: core.USD, DateFormat: core.DateISO}),
		logger:   logger.WithComponent(log.ComponentProfile),
	}
}

func (s *ProfileService) Get(ctx context.Context, auth string) (*upstream.ProfileResponse, error) {
	resp, err := fetchCached(ctx, s.cache, auth, profileEndpoint, func(ctx context.Context) (*upstream.ProfileResponse, error) {
		return s.upstream.Profile(ctx, auth)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return resp, nil
}

// Update sends the changed settings upstream. Every cached payload of the
// caller is dropped, since amounts and dates render differently afterwards.
func (s *ProfileService) Update(ctx context.Context, auth string, in core.ProfileUpdate) (*upstream.ProfileResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	resp, err := s.upstream.UpdateProfile(ctx, auth, in)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.cache.Invalidate(ctx, auth)
	s.logger.InfoContext(ctx, "Profile updated",
		"currency", string(resp.Profile.Currency),
		"date_format", string(resp.Profile.DateFormat))
	return resp, nil
}

// Display returns the caller's display settings. It never fails: a missing
// profile, or missing fields in it, are filled from the configured fallback.
func (s *ProfileService) Display(ctx context.Context, auth string) core.Profile {
	resp, err := s.Get(ctx, auth)
	if err != nil {
		s.logger.DebugContext(ctx, "Using fallback display settings", log.FieldError, err.Error())
		return s.fallback
	}
	return resp.Profile.WithDefaults(s.fallback)
}
