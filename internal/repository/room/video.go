package room

type Video struct {
	VideoName   string `redis:"video_name"`
	Creator     string `redis:"creator"`
	URL         string `redis:"url"`
	Description string `redis:"description"`
}

type RegisterVideoParams struct {
	VideoId     string
	VideoName   string
	Creator     string
	URL         string
	Description string
}
