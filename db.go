package bitmap

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/bitmap/bmp"
)

// Entry describes an image held in the catalog.
type Entry struct {
	ID     int64
	SHA1   string
	Name   string
	Width  int
	Height int
}

func newDB(file string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Scan workers share the database, serialise writes through one connection
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bitmap (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, name TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, pixels BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Import decodes the named file and stores it in the catalog, returning its
// id. Importing an identical file again returns the existing id.
func (l *Library) Import(file string) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", bmp.ErrSourceUnavailable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", bmp.ErrSourceUnavailable, err)
	}

	// A successful decode consumes the whole file
	h := sha1.New()
	m, err := bmp.Decode(io.TeeReader(f, h), info.Size())
	if err != nil {
		return 0, err
	}
	sha := fmt.Sprintf("%X", h.Sum(nil))

	var id int64
	switch err := l.db.QueryRow("SELECT id FROM bitmap WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := l.db.Exec("INSERT OR IGNORE INTO bitmap (sha1, name, width, height, pixels) VALUES (?, ?, ?, ?, ?)", sha, filepath.Base(file), m.Width(), m.Height(), l.enc.EncodeAll(m.Pix(), nil))
		if err != nil {
			return 0, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			// Lost a race with another worker importing the same file
			if err := l.db.QueryRow("SELECT id FROM bitmap WHERE sha1 = ?", sha).Scan(&id); err != nil {
				return 0, err
			}
			return id, nil
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Lookup returns the image with the given SHA-1, or nil if there is no such
// image.
func (l *Library) Lookup(sha string) (*bmp.Image, error) {
	var name string
	var width, height int
	var pixels []byte
	switch err := l.db.QueryRow("SELECT name, width, height, pixels FROM bitmap WHERE sha1 = ?", sha).Scan(&name, &width, &height, &pixels); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		m, err := bmp.NewImage(width, height, bmp.BGR)
		if err != nil {
			return nil, err
		}

		pix, err := l.dec.DecodeAll(pixels, make([]byte, 0, width*height*bmp.BytesPerPixel))
		if err != nil {
			return nil, fmt.Errorf("bitmap: corrupt pixels for %s: %w", sha, err)
		}
		if err := m.SetPix(pix); err != nil {
			return nil, fmt.Errorf("bitmap: corrupt pixels for %s: %w", sha, err)
		}
		m.SetPath(name)

		return m, nil
	default:
		return nil, err
	}
}

// Export writes the image with the given SHA-1 to the named file.
func (l *Library) Export(sha, file string) error {
	m, err := l.Lookup(sha)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, sha)
	}
	return m.Save(file)
}

// List returns every image in the catalog ordered by name.
func (l *Library) List() ([]Entry, error) {
	rows, err := l.db.Query("SELECT id, sha1, name, width, height FROM bitmap ORDER BY name, sha1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SHA1, &e.Name, &e.Width, &e.Height); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
