package service

import (
	"context"
	"strings"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"
)

// ProfileService wraps profile persistence for the setup wizard.
type ProfileService struct {
	profiles ProfileStore
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Upsert trims free-text fields and writes the profile, creating or
// overwriting in place.
func (s *ProfileService) Upsert(ctx context.Context, p *model.UserProfile) error {
	p.CharacterName = strings.TrimSpace(p.CharacterName)
	p.CallSign = strings.TrimSpace(p.CallSign)
	return s.profiles.Upsert(ctx, p)
}

// Get returns the identity's profile, nil if none.
func (s *ProfileService) Get(ctx context.Context, identityID string) (*model.UserProfile, error) {
	return s.profiles.Get(ctx, identityID)
}
