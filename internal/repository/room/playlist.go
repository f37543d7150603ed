package room

type AddVideoToPlaylistParams struct {
	RoomId  string
	VideoId string
}

type RemoveVideoFromPlaylistParams struct {
	RoomId  string
	VideoId string
}

type IncrementVotesParams struct {
	RoomId  string
	VideoId string
	// Delta is +1 or -1. The update is always relative, interleaved
	// votes from different clients never overwrite each other.
	Delta int
}

type GetVotesParams struct {
	RoomId  string
	VideoId string
}
