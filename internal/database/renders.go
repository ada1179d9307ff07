package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrCacheMiss is returned when no render is stored for a key.
var ErrCacheMiss = errors.New("render not cached")

// ErrHitNotRecorded accompanies a valid PNG from GetRender when the hit
// counter could not be updated.
var ErrHitNotRecorded = errors.New("render hit not recorded")

// RenderKey identifies one rendered icon: every request parameter that
// changes the output bytes, plus the texture set it was drawn from.
type RenderKey struct {
	Atlas  string
	Input  string
	Size   int
	Misc   int
	Egg    string
	Pixels int
}

func (k RenderKey) args() []any {
	return []any{k.Atlas, k.Input, k.Size, k.Misc, k.Egg, k.Pixels}
}

const keyClause = "atlas = ? AND input = ? AND size = ? AND misc = ? AND egg = ? AND pixels = ?"

// RenderStats summarizes the cache contents.
type RenderStats struct {
	Entries int64
	Hits    int64
	Bytes   int64
}

// GetRender returns the cached PNG for key and records a hit. If only the
// hit update fails, the PNG is still returned with an error wrapping
// ErrHitNotRecorded.
func (d *Database) GetRender(key RenderKey) ([]byte, error) {
	var png []byte
	err := d.db.QueryRow(
		d.qb.Build("SELECT png FROM renders WHERE "+keyClause),
		key.args()...,
	).Scan(&png)
	if err == sql.ErrNoRows {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read render: %w", err)
	}

	_, err = d.db.Exec(
		d.qb.Build("UPDATE renders SET hits = hits + 1, last_hit = CURRENT_TIMESTAMP WHERE "+keyClause),
		key.args()...,
	)
	if err != nil {
		return png, fmt.Errorf("%w: %v", ErrHitNotRecorded, err)
	}
	return png, nil
}

// PutRender stores png under key, replacing any previous entry.
func (d *Database) PutRender(key RenderKey, png []byte) error {
	args := append(key.args(), png)
	_, err := d.db.Exec(
		d.qb.Build(`INSERT INTO renders (atlas, input, size, misc, egg, pixels, png)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (atlas, input, size, misc, egg, pixels)
			DO UPDATE SET png = excluded.png, created_at = CURRENT_TIMESTAMP`),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to store render: %w", err)
	}
	return nil
}

// PurgeRenders deletes every cached render and returns how many were removed.
func (d *Database) PurgeRenders() (int64, error) {
	result, err := d.db.Exec("DELETE FROM renders")
	if err != nil {
		return 0, fmt.Errorf("failed to purge renders: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged renders: %w", err)
	}
	return n, nil
}

// Stats returns the number of entries, total hits and stored bytes.
func (d *Database) Stats() (RenderStats, error) {
	var s RenderStats
	err := d.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(hits), 0), COALESCE(SUM(LENGTH(png)), 0) FROM renders",
	).Scan(&s.Entries, &s.Hits, &s.Bytes)
	if err != nil {
		return RenderStats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return s, nil
}

// CopyRenders copies every render, with its hit count, into dst, replacing
// entries dst already has. With dryRun it only counts.
func (d *Database) CopyRenders(dst *Database, dryRun bool) (int64, error) {
	rows, err := d.db.Query("SELECT atlas, input, size, misc, egg, pixels, png, hits FROM renders")
	if err != nil {
		return 0, fmt.Errorf("failed to list renders: %w", err)
	}
	defer rows.Close()

	query := dst.qb.Build(`INSERT INTO renders (atlas, input, size, misc, egg, pixels, png, hits)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (atlas, input, size, misc, egg, pixels)
		DO UPDATE SET png = excluded.png, hits = excluded.hits`)

	var count int64
	for rows.Next() {
		var key RenderKey
		var png []byte
		var hits int64
		if err := rows.Scan(&key.Atlas, &key.Input, &key.Size, &key.Misc, &key.Egg, &key.Pixels, &png, &hits); err != nil {
			return count, fmt.Errorf("failed to scan render: %w", err)
		}
		count++
		if dryRun {
			continue
		}
		if _, err := dst.db.Exec(query, append(key.args(), png, hits)...); err != nil {
			return count, fmt.Errorf("failed to copy render %q: %w", key.Input, err)
		}
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("failed to read renders: %w", err)
	}
	return count, nil
}
