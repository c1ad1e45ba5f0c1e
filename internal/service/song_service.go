package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"playlister/api/internal/apperr"
	"playlister/api/internal/ids"
	"playlister/api/internal/models"
	"playlister/api/internal/repository"
)

const (
	msgSongFieldsMissing = "Please enter a title, artist, and YouTube id."
	msgSongNotFound      = "Song not found."
	msgNotSongCreator    = "You can only delete your own songs."
)

// SongStore is the persistence surface SongService needs.
type SongStore interface {
	Create(ctx context.Context, song models.Song) error
	GetByID(ctx context.Context, id string) (models.Song, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Song, error)
	Delete(ctx context.Context, id string) error
}

type SongService struct {
	songs SongStore
	log   zerolog.Logger
}

func NewSongService(songs SongStore, log zerolog.Logger) *SongService {
	return &SongService{songs: songs, log: log}
}

type SongInput struct {
	Title     string
	Artist    string
	Year      *int
	YouTubeID string
}

func (s *SongService) Create(ctx context.Context, creator models.User, input SongInput) (models.Song, error) {
	if input.Title == "" || input.Artist == "" || input.YouTubeID == "" {
		return models.Song{}, apperr.Validation(msgSongFieldsMissing)
	}

	song := models.Song{
		ID:        ids.New(),
		Title:     input.Title,
		Artist:    input.Artist,
		Year:      input.Year,
		YouTubeID: input.YouTubeID,
		CreatorID: creator.ID,
	}

	if err := s.songs.Create(ctx, song); err != nil {
		return models.Song{}, apperr.Internal("create song", err)
	}
	return song, nil
}

func (s *SongService) ListMine(ctx context.Context, creator models.User) ([]models.Song, error) {
	songs, err := s.songs.ListByCreator(ctx, creator.ID)
	if err != nil {
		return nil, apperr.Internal("list songs", err)
	}
	return songs, nil
}

func (s *SongService) Delete(ctx context.Context, user models.User, id string) error {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return apperr.NotFound(msgSongNotFound)
		}
		return apperr.Internal("get song", err)
	}

	if song.CreatorID != user.ID {
		return apperr.Auth(msgNotSongCreator)
	}

	if err := s.songs.Delete(ctx, id); err != nil {
		return apperr.Internal("delete song", err)
	}
	return nil
}
