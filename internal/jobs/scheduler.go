package jobs

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"playlister/api/internal/repository"
	"playlister/api/internal/service"
)

// listenBuffer is the slice of the redis API the flush job touches.
// Satisfied by *redis.Client.
type listenBuffer interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
}

// listenCounter writes flushed deltas through to the playlist rows.
// Satisfied by *repository.PlaylistRepository.
type listenCounter interface {
	IncrementListens(ctx context.Context, id string, delta int64) error
}

// Scheduler periodically drains the redis listen-counter buffer into
// postgres so the playlist rows stay authoritative.
type Scheduler struct {
	cron    *cron.Cron
	buffer  listenBuffer
	counter listenCounter
	log     zerolog.Logger
}

func NewScheduler(cache *redis.Client, playlists *repository.PlaylistRepository, log zerolog.Logger) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		counter: playlists,
		log:     log,
	}
	if cache != nil {
		s.buffer = cache
	}
	return s
}

func (s *Scheduler) Start() error {
	if s.buffer == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 * * * * *", s.flushListens); err != nil { // every minute
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running flush to finish, up to five seconds.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

// flushListens moves buffered listen counts into postgres. Listens buffered
// while a pass is running must survive it: after a successful write-through
// the field is decremented by exactly the flushed delta, and removed only
// when nothing is left.
func (s *Scheduler) flushListens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pending, err := s.buffer.HGetAll(ctx, service.PendingListensKey).Result()
	if err != nil {
		s.log.Error().Err(err).Msg("read pending listens failed")
		return
	}

	for playlistID, raw := range pending {
		delta, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.log.Warn().Str("playlist_id", playlistID).Str("value", raw).Msg("dropping bad pending listen count")
			_ = s.buffer.HDel(ctx, service.PendingListensKey, playlistID).Err()
			continue
		}
		if delta <= 0 {
			// Leftover from an earlier pass that drained the field.
			_ = s.buffer.HDel(ctx, service.PendingListensKey, playlistID).Err()
			continue
		}

		if err := s.counter.IncrementListens(ctx, playlistID, delta); err != nil {
			// Deleted playlists lose their buffered counts; everything else
			// stays queued for the next pass.
			if errors.Is(err, repository.ErrPlaylistNotFound) {
				_ = s.buffer.HDel(ctx, service.PendingListensKey, playlistID).Err()
				continue
			}
			s.log.Error().Err(err).Str("playlist_id", playlistID).Msg("flush listens failed")
			continue
		}

		remaining, err := s.buffer.HIncrBy(ctx, service.PendingListensKey, playlistID, -delta).Result()
		if err != nil {
			s.log.Warn().Err(err).Str("playlist_id", playlistID).Msg("settle flushed listens failed")
			continue
		}
		if remaining <= 0 {
			_ = s.buffer.HDel(ctx, service.PendingListensKey, playlistID).Err()
		}
	}
}
