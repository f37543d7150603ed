package controller

import (
	"github.com/queuetube/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	// state
	mux.Handle("GET_STATE", c.handleGetState)

	// playlist
	mux.Handle("ADD_VIDEO", c.handleAddVideo)
	mux.Handle("REMOVE_VIDEO", c.handleRemoveVideo)

	// voting
	mux.Handle("VOTE", c.handleVote)

	// queue
	mux.Handle("ADVANCE", c.handleAdvance)
	mux.Handle("RESET", c.handleReset)
	mux.Handle("START_PLAYBACK", c.handleStartPlayback)

	return mux
}
