package database

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"streambeats/internal/models"
)

//go:embed schema.sql
var schema string

// InitDatabase runs the embedded schema and sets performance PRAGMAs.
func InitDatabase(db *sql.DB) error {
	// WAL keeps metadata writes from blocking concurrent cache lookups
	// while a download is in flight.
	_, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA cache_size=-2000;")
	if err != nil {
		return err
	}
	_, err = db.Exec(schema)
	return err
}

// UpsertTrack caches resolved track metadata so a repeat play of the
// same (platform, id) skips the remote lookup.
func UpsertTrack(db *sql.DB, t models.Track) error {
	if db == nil {
		return nil
	}

	query := `
	INSERT INTO track_cache (platform, source_id, title, artist, duration, last_updated)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(platform, source_id) DO UPDATE SET
		title = excluded.title,
		artist = excluded.artist,
		duration = excluded.duration,
		last_updated = CURRENT_TIMESTAMP;`

	_, err := db.Exec(query, string(t.Platform), t.ID, t.Title, t.Artist, t.Duration)
	return err
}

// LookupTrack returns cached metadata for a platform item. sql.ErrNoRows
// signals a cache miss.
func LookupTrack(db *sql.DB, platform models.Platform, id string) (models.Track, error) {
	if db == nil || id == "" {
		return models.Track{}, fmt.Errorf("invalid lookup")
	}

	t := models.Track{Platform: platform, ID: id}
	err := db.QueryRow(
		"SELECT title, artist, duration FROM track_cache WHERE platform = ? AND source_id = ?",
		string(platform), id,
	).Scan(&t.Title, &t.Artist, &t.Duration)
	if err != nil {
		return models.Track{}, err
	}
	return t, nil
}

// CountTracks reports the cache size for the stats commands.
func CountTracks(db *sql.DB) (int, error) {
	if db == nil {
		return 0, nil
	}
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM track_cache").Scan(&n)
	return n, err
}
