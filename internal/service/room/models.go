package room

import "time"

type Video struct {
	Id          string `json:"id"`
	VideoName   string `json:"video_name"`
	Creator     string `json:"creator"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// PlaylistVideo is a video together with its vote count in one room.
type PlaylistVideo struct {
	Id          string `json:"id"`
	VideoName   string `json:"video_name"`
	Creator     string `json:"creator"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Votes       int    `json:"votes"`
}

type RoomState struct {
	Id        string     `json:"id"`
	Name      string     `json:"name"`
	IndexKey  int        `json:"index_key"`
	StartTime *time.Time `json:"start_time"`
}

// RoomSnapshot is the value broadcast to every client of a room after a
// mutation. Playlist order and the current video are always recomputed from
// the live vote state, never frozen at playback start.
type RoomSnapshot struct {
	Id           string          `json:"id"`
	Name         string          `json:"name"`
	IndexKey     int             `json:"index_key"`
	StartTime    *time.Time      `json:"start_time"`
	Playlist     []PlaylistVideo `json:"playlist"`
	CurrentVideo *PlaylistVideo  `json:"current_video"`
}

type User struct {
	ExternalId  string `json:"external_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}
