package handlers

import (
	"fmt"
	"net/http"
	"time"

	"groupchat-backend/internal/database"
	"groupchat-backend/internal/hub"
	"groupchat-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger
var store *database.Store
var chatHub *hub.Hub
var validate = validator.New()

func Setup(_sugar *zap.SugaredLogger, _store *database.Store, _chatHub *hub.Hub) {
	sugar = _sugar
	store = _store
	chatHub = _chatHub
}

func NewRouter(cfg *models.ConfigFile) http.Handler {
	r := chi.NewRouter()

	if cfg.Cors {
		r.Use(AllowCors)
	}
	if cfg.PrintHttpRequests {
		r.Use(middleware.Logger)
	}

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", Register)
		api.Post("/login", Login)

		api.Get("/servers", GetServerList)
		api.With(UserVerifier).Post("/servers", CreateServer)
		api.Get("/servers/{invite}/channels", GetChannelList)

		api.Get("/channels/{channelID}/messages", GetMessageList)
	})

	r.Get("/ws", HandleWebSocket)

	return r
}

func Serve(cfg *models.ConfigFile) error {
	address := fmt.Sprintf("%s:%s", cfg.Address, cfg.Port)
	router := NewRouter(cfg)

	if cfg.TlsCert != "" && cfg.TlsKey != "" {
		return http.ListenAndServeTLS(address, cfg.TlsCert, cfg.TlsKey, router)
	}
	return http.ListenAndServe(address, router)
}
