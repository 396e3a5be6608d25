// Package mbtiles stores raster tiles in an MBTiles (SQLite) file.
package mbtiles

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MBTiles is an open MBTiles file.
type MBTiles struct {
	db             *sql.DB
	tileInsertStmt *sql.Stmt
}

// Open opens (or creates) the MBTiles file at path and sets its name
// and tile format.
func Open(path string, name string, format string) (*MBTiles, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer, the tile statement is shared between goroutines
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA application_id = 0x4d504258;
		CREATE TABLE IF NOT EXISTS metadata (name text, value text);
		CREATE UNIQUE INDEX IF NOT EXISTS metadata_index on metadata (name);
		CREATE TABLE IF NOT EXISTS tiles (zoom_level integer, tile_column integer, tile_row integer, tile_data blob);
		CREATE UNIQUE INDEX IF NOT EXISTS tile_index on tiles (zoom_level, tile_column, tile_row);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	tileInsertStmt, err := db.Prepare("INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?);")
	if err != nil {
		db.Close()
		return nil, err
	}

	m := &MBTiles{db: db, tileInsertStmt: tileInsertStmt}

	err = m.InsertMeta(map[string]string{
		"name":   name,
		"format": format,
		"type":   "overlay",
	})
	if err != nil {
		m.Close()
		return nil, err
	}

	return m, nil
}

// Close releases the db file.
func (m *MBTiles) Close() error {
	if err := m.tileInsertStmt.Close(); err != nil {
		m.db.Close()
		return err
	}
	return m.db.Close()
}

// InsertTile inserts a tile at (z, x, y) given in the XYZ scheme. Rows
// are stored flipped, as MBTiles uses TMS.
func (m *MBTiles) InsertTile(z, x, y int, tileData []byte) error {
	row := (1<<z - 1) - y
	_, err := m.tileInsertStmt.Exec(z, x, row, tileData)
	return err
}

// Tile returns the tile at (z, x, y) in the XYZ scheme.
func (m *MBTiles) Tile(z, x, y int) ([]byte, error) {
	row := (1<<z - 1) - y
	var data []byte
	err := m.db.QueryRow("SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?;", z, x, row).Scan(&data)
	return data, err
}

// InsertMeta sets metadata entries.
func (m *MBTiles) InsertMeta(entries map[string]string) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for n, v := range entries {
		if _, err := tx.Exec("INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?);", n, v); err != nil {
			return fmt.Errorf("metadata %s: %w", n, err)
		}
	}
	return tx.Commit()
}

// Meta returns all metadata entries.
func (m *MBTiles) Meta() (map[string]string, error) {
	rows, err := m.db.Query("SELECT name, value FROM metadata;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := map[string]string{}
	for rows.Next() {
		var n, v string
		if err := rows.Scan(&n, &v); err != nil {
			return nil, err
		}
		meta[n] = v
	}
	return meta, rows.Err()
}
