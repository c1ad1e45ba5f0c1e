package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"playlister/api/internal/apperr"
	"playlister/api/internal/config"
	"playlister/api/internal/middleware"
	"playlister/api/internal/models"
	"playlister/api/internal/repository"
	"playlister/api/internal/security"
	"playlister/api/internal/service"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	accounts  *service.AccountService
	playlists *service.PlaylistService
	songs     *service.SongService
	db        *pgxpool.Pool
	cache     *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	songRepo := repository.NewSongRepository(db)

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		accounts:  service.NewAccountService(userRepo, cfg, log),
		playlists: service.NewPlaylistService(playlistRepo, cache, log),
		songs:     service.NewSongService(songRepo, log),
		db:        db,
		cache:     cache,
	}
}

func (h HandlerSet) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.GET("/logout", h.Logout)
	auth.GET("/loggedIn", h.LoggedIn)

	edit := router.Group("/auth")
	edit.Use(middleware.SessionAuth(h.accounts.VerifyToken, "You must be logged in to edit your account."))
	edit.PUT("/edit-account", h.EditAccount)

	store := router.Group("/store")
	store.Use(middleware.SessionAuth(h.accounts.VerifyToken, "You must be logged in."))
	store.GET("/playlistpairs", h.PlaylistPairs)
	store.POST("/playlist", h.CreatePlaylist)
	store.GET("/playlist/:id", h.GetPlaylist)
	store.PUT("/playlist/:id", h.UpdatePlaylist)
	store.DELETE("/playlist/:id", h.DeletePlaylist)
	store.POST("/playlist/:id/publish", h.PublishPlaylist)
	store.POST("/playlist/:id/listen", h.ListenPlaylist)
	store.POST("/song", h.CreateSong)
	store.GET("/songs", h.ListSongs)
	store.DELETE("/song/:id", h.DeleteSong)
}

// respondError converts a classified error into the structured JSON shape.
// Internal detail is logged here and never leaked to the caller.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.Writer.Header().Get("X-Request-Id")).
			Msg("request failed")
	}
	c.JSON(status, gin.H{"errorMessage": apperr.PublicMessage(err)})
}

// currentUser resolves the middleware-provided session id to a stored user,
// writing the error response itself when that fails.
func (h HandlerSet) currentUser(c *gin.Context) (models.User, bool) {
	userID := c.GetString(middleware.SessionUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"errorMessage": "You must be logged in."})
		return models.User{}, false
	}

	user, err := h.accounts.UserByID(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return models.User{}, false
	}
	return user, true
}

func (h HandlerSet) sessionTTL() time.Duration {
	if ttl := h.cfg.Security.SessionTTL; ttl > 0 {
		return ttl
	}
	return security.SessionTTL
}
