package ids

import "github.com/segmentio/ksuid"

// New returns a sortable, URL-safe identifier for entities (users,
// playlists, songs).
func New() string {
	return ksuid.New().String()
}
