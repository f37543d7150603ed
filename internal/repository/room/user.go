package room

type User struct {
	ExternalId  string `redis:"external_id"`
	DisplayName string `redis:"display_name"`
	AvatarURL   string `redis:"avatar_url"`
}

type SaveUserParams struct {
	ExternalId  string
	DisplayName string
	AvatarURL   string
}
