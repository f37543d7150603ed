package room

type Room struct {
	Name      string `redis:"name"`
	IndexKey  int    `redis:"index_key"`
	StartTime int64  `redis:"start_time"`
}

type CreateRoomParams struct {
	RoomId string
	Name   string
}
