package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"playlister/api/internal/models"
)

var ErrSongNotFound = errors.New("song not found")

type SongRepository struct {
	pool *pgxpool.Pool
}

func NewSongRepository(pool *pgxpool.Pool) *SongRepository {
	return &SongRepository{pool: pool}
}

func (r *SongRepository) Create(ctx context.Context, song models.Song) error {
	const query = `
		INSERT INTO songs (
			id, title, artist, year, youtube_id, creator_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		song.ID,
		song.Title,
		song.Artist,
		song.Year,
		song.YouTubeID,
		song.CreatorID,
	)
	return err
}

func (r *SongRepository) GetByID(ctx context.Context, id string) (models.Song, error) {
	const query = `
		SELECT id, title, artist, year, youtube_id, creator_id, created_at, updated_at
		FROM songs WHERE id = $1
	`
	return r.scanSong(r.pool.QueryRow(ctx, query, id))
}

func (r *SongRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Song, error) {
	const query = `
		SELECT id, title, artist, year, youtube_id, creator_id, created_at, updated_at
		FROM songs WHERE creator_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := make([]models.Song, 0)
	for rows.Next() {
		song, err := r.scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func (r *SongRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSongNotFound
	}
	return nil
}

func (r *SongRepository) scanSong(row pgx.Row) (models.Song, error) {
	var song models.Song
	if err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Year,
		&song.YouTubeID,
		&song.CreatorID,
		&song.CreatedAt,
		&song.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Song{}, ErrSongNotFound
		}
		return models.Song{}, err
	}
	return song, nil
}
