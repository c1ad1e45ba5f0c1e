package models

import "time"

// Playlist is an ordered collection of songs owned by a user (linked by
// email). Once published it becomes visible to other users and collects
// listens; Listeners dedupes listen counting per user email.
type Playlist struct {
	ID         string
	Name       string
	OwnerEmail string
	SongIDs    []string
	Published  bool
	Listeners  []string
	Listens    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IDNamePair is the playlist summary used by list views.
type IDNamePair struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Song references an external video by its YouTube id. Creator links back to
// the user who added it.
type Song struct {
	ID        string
	Title     string
	Artist    string
	Year      *int
	YouTubeID string
	CreatorID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
