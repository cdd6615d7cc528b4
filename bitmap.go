/*
Package bitmap is a library for keeping a catalog of 24-bit BMP images.

Images are validated and decoded with package bmp before being stored in a
SQLite database, keyed by the SHA-1 of the original file, with the pixel
rows compressed with zstd. Directories can be scanned concurrently to import
every bitmap found.
*/
package bitmap

import (
	"database/sql"
	"errors"
	"log"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no image matches the requested hash.
var ErrNotFound = errors.New("bitmap: not found")

// Library is a catalog of images backed by a SQLite database.
type Library struct {
	db     *sql.DB
	logger *log.Logger

	workers    int
	extensions map[string]struct{}

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New opens or creates the database named in config.
func New(config Config, logger *log.Logger) (*Library, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	_, level := zstd.EncoderLevelFromString(config.Compression)

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}

	db, err := newDB(config.DB)
	if err != nil {
		enc.Close()
		dec.Close()
		return nil, err
	}

	l := &Library{
		db:         db,
		logger:     logger,
		workers:    config.Workers,
		extensions: make(map[string]struct{}),
		enc:        enc,
		dec:        dec,
	}
	for _, ext := range config.Extensions {
		l.extensions[normalizeExt(ext)] = struct{}{}
	}

	return l, nil
}

// Close closes the underlying database.
func (l *Library) Close() error {
	l.dec.Close()
	if err := l.enc.Close(); err != nil {
		l.db.Close()
		return err
	}
	return l.db.Close()
}
