package room

import (
	"context"
	"fmt"

	"github.com/queuetube/server/internal/repository/room"
)

type SaveUserParams struct {
	ExternalId  string
	DisplayName string
	AvatarURL   string
}

// SaveUser stores a profile received from the external identity provider.
func (s service) SaveUser(ctx context.Context, params *SaveUserParams) error {
	if err := s.roomRepo.SaveUser(ctx, &room.SaveUserParams{
		ExternalId:  params.ExternalId,
		DisplayName: params.DisplayName,
		AvatarURL:   params.AvatarURL,
	}); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// FindUser returns every saved user with the given display name.
func (s service) FindUser(ctx context.Context, displayName string) ([]User, error) {
	users, err := s.roomRepo.GetUsersByDisplayName(ctx, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by display name: %w", err)
	}

	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, User{
			ExternalId:  user.ExternalId,
			DisplayName: user.DisplayName,
			AvatarURL:   user.AvatarURL,
		})
	}

	return result, nil
}
