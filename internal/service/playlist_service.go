package service

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"playlister/api/internal/apperr"
	"playlister/api/internal/ids"
	"playlister/api/internal/models"
	"playlister/api/internal/repository"
)

const (
	msgPlaylistNotFound  = "Playlist not found."
	msgPlaylistNameEmpty = "Playlist name cannot be empty."
	msgNotPlaylistOwner  = "You can only modify your own playlists."
	msgPlaylistPublished = "Published playlists cannot be edited."
	msgPlaylistNotPublic = "Playlist is not published."
)

// PendingListensKey is the redis hash buffering listen increments until the
// flush job writes them through to postgres.
const PendingListensKey = "playlist:listens:pending"

// PlaylistStore is the persistence surface PlaylistService needs.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	GetByID(ctx context.Context, id string) (models.Playlist, error)
	ListPairsByOwner(ctx context.Context, ownerEmail string) ([]models.IDNamePair, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	AddListener(ctx context.Context, id string, email string) (bool, error)
	IncrementListens(ctx context.Context, id string, delta int64) error
}

type PlaylistService struct {
	playlists PlaylistStore
	cache     *redis.Client
	log       zerolog.Logger
}

func NewPlaylistService(playlists PlaylistStore, cache *redis.Client, log zerolog.Logger) *PlaylistService {
	return &PlaylistService{
		playlists: playlists,
		cache:     cache,
		log:       log,
	}
}

func (s *PlaylistService) Create(ctx context.Context, owner models.User, name string, songIDs []string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, apperr.Validation(msgPlaylistNameEmpty)
	}
	if songIDs == nil {
		songIDs = []string{}
	}

	playlist := models.Playlist{
		ID:         ids.New(),
		Name:       name,
		OwnerEmail: owner.Email,
		SongIDs:    songIDs,
		Listeners:  []string{},
	}

	if err := s.playlists.Create(ctx, playlist); err != nil {
		return models.Playlist{}, apperr.Internal("create playlist", err)
	}
	return playlist, nil
}

func (s *PlaylistService) ListPairs(ctx context.Context, owner models.User) ([]models.IDNamePair, error) {
	pairs, err := s.playlists.ListPairsByOwner(ctx, owner.Email)
	if err != nil {
		return nil, apperr.Internal("list playlists", err)
	}
	return pairs, nil
}

// Get returns a playlist visible to user: their own, or anyone's published
// one. Unpublished playlists of other users read as not found rather than
// forbidden, so their existence is not disclosed.
func (s *PlaylistService) Get(ctx context.Context, user models.User, id string) (models.Playlist, error) {
	playlist, err := s.getPlaylist(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}

	if playlist.OwnerEmail != user.Email && !playlist.Published {
		return models.Playlist{}, apperr.NotFound(msgPlaylistNotFound)
	}
	return playlist, nil
}

func (s *PlaylistService) Update(ctx context.Context, user models.User, id string, name string, songIDs []string) (models.Playlist, error) {
	playlist, err := s.getOwned(ctx, user, id)
	if err != nil {
		return models.Playlist{}, err
	}
	if playlist.Published {
		return models.Playlist{}, apperr.Validation(msgPlaylistPublished)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, apperr.Validation(msgPlaylistNameEmpty)
	}

	playlist.Name = name
	if songIDs != nil {
		playlist.SongIDs = songIDs
	}

	if err := s.playlists.Update(ctx, playlist); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return models.Playlist{}, apperr.NotFound(msgPlaylistNotFound)
		}
		return models.Playlist{}, apperr.Internal("update playlist", err)
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, user models.User, id string) error {
	if _, err := s.getOwned(ctx, user, id); err != nil {
		return err
	}

	if err := s.playlists.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return apperr.NotFound(msgPlaylistNotFound)
		}
		return apperr.Internal("delete playlist", err)
	}
	return nil
}

// Publish makes the playlist visible to other users. Idempotent.
func (s *PlaylistService) Publish(ctx context.Context, user models.User, id string) (models.Playlist, error) {
	playlist, err := s.getOwned(ctx, user, id)
	if err != nil {
		return models.Playlist{}, err
	}
	if playlist.Published {
		return playlist, nil
	}

	playlist.Published = true
	if err := s.playlists.Update(ctx, playlist); err != nil {
		return models.Playlist{}, apperr.Internal("publish playlist", err)
	}
	return playlist, nil
}

// RecordListen counts listener against the published playlist at most once.
// The listener set lives in postgres; the listen counter increment is
// buffered in redis and flushed by the scheduler, falling back to a direct
// write when redis is unavailable.
func (s *PlaylistService) RecordListen(ctx context.Context, listener models.User, id string) error {
	playlist, err := s.getPlaylist(ctx, id)
	if err != nil {
		return err
	}
	if !playlist.Published {
		return apperr.Validation(msgPlaylistNotPublic)
	}

	added, err := s.playlists.AddListener(ctx, id, listener.Email)
	if err != nil {
		return apperr.Internal("add listener", err)
	}
	if !added {
		return nil
	}

	if s.cache != nil {
		err := s.cache.HIncrBy(ctx, PendingListensKey, id, 1).Err()
		if err == nil {
			return nil
		}
		s.log.Warn().Err(err).Str("playlist_id", id).Msg("buffer listen failed, writing through")
	}

	if err := s.playlists.IncrementListens(ctx, id, 1); err != nil {
		return apperr.Internal("increment listens", err)
	}
	return nil
}

func (s *PlaylistService) getOwned(ctx context.Context, user models.User, id string) (models.Playlist, error) {
	playlist, err := s.getPlaylist(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	if playlist.OwnerEmail != user.Email {
		return models.Playlist{}, apperr.Auth(msgNotPlaylistOwner)
	}
	return playlist, nil
}

func (s *PlaylistService) getPlaylist(ctx context.Context, id string) (models.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return models.Playlist{}, apperr.NotFound(msgPlaylistNotFound)
		}
		return models.Playlist{}, apperr.Internal("get playlist", err)
	}
	return playlist, nil
}
