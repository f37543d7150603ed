package room

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrVideoNotFound = errors.New("video not found")
	ErrUserNotFound  = errors.New("user not found")
)
