package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Get("/videos", c.listVideos)
		r.Route("/users", func(r chi.Router) {
			r.Post("/", c.saveUser)
			r.Get("/{display-name}", c.findUser)
		})
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/join", c.joinRoom)
			r.Route("/{room-id}", func(r chi.Router) {
				r.Get("/", c.getRoomState)
				r.Get("/playlist", c.listRoomVideos)
				r.Get("/index", c.getCurrentIndex)
			})
		})
		r.Route("/ws", func(r chi.Router) {
			r.Get("/room", c.connectRoom)
		})
	})

	return r
}
