package redis

import (
	"context"

	"github.com/queuetube/server/internal/repository/room"
)

func (r repo) getUserKey(externalId string) string {
	return "user:" + externalId
}

func (r repo) getUserNameKey(displayName string) string {
	return "user-name:" + displayName
}

func (r repo) SaveUser(ctx context.Context, params *room.SaveUserParams) error {
	r.logger.DebugContext(ctx, "room.redis.SaveUser", "params", params)
	pipe := r.rc.TxPipeline()

	user := room.User{
		ExternalId:  params.ExternalId,
		DisplayName: params.DisplayName,
		AvatarURL:   params.AvatarURL,
	}
	pipe.HSet(ctx, r.getUserKey(params.ExternalId), user)
	pipe.SAdd(ctx, r.getUserNameKey(params.DisplayName), params.ExternalId)

	if err := r.executePipe(ctx, pipe); err != nil {
		return err
	}

	return nil
}

// GetUsersByDisplayName returns every user saved under the given display
// name. Display names are not unique.
func (r repo) GetUsersByDisplayName(ctx context.Context, displayName string) ([]room.User, error) {
	externalIds, err := r.rc.SMembers(ctx, r.getUserNameKey(displayName)).Result()
	if err != nil {
		return nil, err
	}

	users := make([]room.User, 0, len(externalIds))
	for _, externalId := range externalIds {
		var user room.User
		if err := r.rc.HGetAll(ctx, r.getUserKey(externalId)).Scan(&user); err != nil {
			return nil, err
		}

		if user.ExternalId == "" {
			continue
		}

		users = append(users, user)
	}

	return users, nil
}
