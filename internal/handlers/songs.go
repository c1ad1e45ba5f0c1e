package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"playlister/api/internal/models"
	"playlister/api/internal/service"
)

type songRequest struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Year      *int   `json:"year"`
	YouTubeID string `json:"youTubeId"`
}

type songResponse struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Year      *int      `json:"year,omitempty"`
	YouTubeID string    `json:"youTubeId"`
	CreatedAt time.Time `json:"createdAt"`
}

func toSongResponse(s models.Song) songResponse {
	return songResponse{
		ID:        s.ID,
		Title:     s.Title,
		Artist:    s.Artist,
		Year:      s.Year,
		YouTubeID: s.YouTubeID,
		CreatedAt: s.CreatedAt,
	}
}

func (h HandlerSet) CreateSong(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req songRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorMessage": "Invalid request payload."})
		return
	}

	song, err := h.songs.Create(c.Request.Context(), user, service.SongInput{
		Title:     req.Title,
		Artist:    req.Artist,
		Year:      req.Year,
		YouTubeID: req.YouTubeID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "song": toSongResponse(song)})
}

func (h HandlerSet) ListSongs(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	songs, err := h.songs.ListMine(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]songResponse, 0, len(songs))
	for _, song := range songs {
		resp = append(resp, toSongResponse(song))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "songs": resp})
}

func (h HandlerSet) DeleteSong(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.songs.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
