package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"playlister/api/internal/models"
)

type playlistResponse struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	OwnerEmail string    `json:"ownerEmail"`
	Songs      []string  `json:"songs"`
	Published  bool      `json:"published"`
	Listens    int64     `json:"listens"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toPlaylistResponse(p models.Playlist) playlistResponse {
	return playlistResponse{
		ID:         p.ID,
		Name:       p.Name,
		OwnerEmail: p.OwnerEmail,
		Songs:      p.SongIDs,
		Published:  p.Published,
		Listens:    p.Listens,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (h HandlerSet) PlaylistPairs(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	pairs, err := h.playlists.ListPairs(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "idNamePairs": pairs})
}

type createPlaylistRequest struct {
	Name  string   `json:"name"`
	Songs []string `json:"songs"`
}

func (h HandlerSet) CreatePlaylist(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req createPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorMessage": "Invalid request payload."})
		return
	}

	playlist, err := h.playlists.Create(c.Request.Context(), user, req.Name, req.Songs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "playlist": toPlaylistResponse(playlist)})
}

func (h HandlerSet) GetPlaylist(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	playlist, err := h.playlists.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "playlist": toPlaylistResponse(playlist)})
}

type updatePlaylistRequest struct {
	Playlist struct {
		Name  string   `json:"name"`
		Songs []string `json:"songs"`
	} `json:"playlist"`
}

func (h HandlerSet) UpdatePlaylist(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req updatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorMessage": "Invalid request payload."})
		return
	}

	playlist, err := h.playlists.Update(c.Request.Context(), user, c.Param("id"), req.Playlist.Name, req.Playlist.Songs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "playlist": toPlaylistResponse(playlist)})
}

func (h HandlerSet) DeletePlaylist(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.playlists.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) PublishPlaylist(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	playlist, err := h.playlists.Publish(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "playlist": toPlaylistResponse(playlist)})
}

func (h HandlerSet) ListenPlaylist(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.playlists.RecordListen(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
