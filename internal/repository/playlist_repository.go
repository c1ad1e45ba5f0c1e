package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"playlister/api/internal/models"
)

var ErrPlaylistNotFound = errors.New("playlist not found")

type PlaylistRepository struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepository(pool *pgxpool.Pool) *PlaylistRepository {
	return &PlaylistRepository{pool: pool}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	const query = `
		INSERT INTO playlists (
			id, name, owner_email, song_ids, published, listeners, listens, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		playlist.ID,
		playlist.Name,
		playlist.OwnerEmail,
		playlist.SongIDs,
		playlist.Published,
		playlist.Listeners,
		playlist.Listens,
	)
	return err
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id string) (models.Playlist, error) {
	const query = `
		SELECT id, name, owner_email, song_ids, published, listeners, listens, created_at, updated_at
		FROM playlists WHERE id = $1
	`
	return r.scanPlaylist(r.pool.QueryRow(ctx, query, id))
}

// ListPairsByOwner returns id/name summaries of the owner's playlists, newest
// first.
func (r *PlaylistRepository) ListPairsByOwner(ctx context.Context, ownerEmail string) ([]models.IDNamePair, error) {
	const query = `
		SELECT id, name FROM playlists
		WHERE owner_email = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make([]models.IDNamePair, 0)
	for rows.Next() {
		var pair models.IDNamePair
		if err := rows.Scan(&pair.ID, &pair.Name); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

func (r *PlaylistRepository) Update(ctx context.Context, playlist models.Playlist) error {
	const query = `
		UPDATE playlists SET
			name = $2,
			song_ids = $3,
			published = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		playlist.ID,
		playlist.Name,
		playlist.SongIDs,
		playlist.Published,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// AddListener appends email to the playlist's listener set. Returns true when
// the listener was new, false when they had already been counted.
func (r *PlaylistRepository) AddListener(ctx context.Context, id string, email string) (bool, error) {
	const query = `
		UPDATE playlists SET
			listeners = array_append(listeners, $2),
			updated_at = NOW()
		WHERE id = $1 AND NOT (listeners @> ARRAY[$2])
	`

	cmd, err := r.pool.Exec(ctx, query, id, email)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PlaylistRepository) IncrementListens(ctx context.Context, id string, delta int64) error {
	const query = `
		UPDATE playlists SET listens = listens + $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

func (r *PlaylistRepository) scanPlaylist(row pgx.Row) (models.Playlist, error) {
	var playlist models.Playlist
	if err := row.Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.OwnerEmail,
		&playlist.SongIDs,
		&playlist.Published,
		&playlist.Listeners,
		&playlist.Listens,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Playlist{}, ErrPlaylistNotFound
		}
		return models.Playlist{}, err
	}
	return playlist, nil
}
