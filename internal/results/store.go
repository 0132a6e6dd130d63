// Package results persists decoded credentials across runs.
//
// Entries are keyed by link; a newer decode of the same link replaces the
// older one.
package results

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Operative-001/sidelen/internal/crypto"
	"github.com/Operative-001/sidelen/internal/decoder"
)

var bucketEntries = []byte("entries")

var ErrNotFound = errors.New("results: not found")

// Entry is one decoded link.
type Entry struct {
	Link        string `json:"link"` // "source -> destination"
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Offset      int    `json:"offset"` // size added by the link's encryption
	SSID        string `json:"ssid"`
	Passphrase  string `json:"passphrase"`
	PSK         string `json:"psk,omitempty"` // hex WPA pre-shared key
	Timestamp   int64  `json:"timestamp"`     // Unix seconds; newer entries replace older ones
}

// NewEntry builds an Entry from decoded credentials, deriving the PSK when
// the passphrase is a valid WPA passphrase.
func NewEntry(c decoder.Credentials, now time.Time) Entry {
	e := Entry{
		Link:        c.Link.String(),
		Source:      c.Link.Source,
		Destination: c.Link.Destination,
		Offset:      c.Offset,
		SSID:        c.SSID,
		Passphrase:  c.Passphrase,
		Timestamp:   now.Unix(),
	}
	if psk, err := crypto.DerivePSKHex(c.Passphrase, c.SSID); err == nil {
		e.PSK = psk
	}
	return e
}

// Store is a bbolt-backed results database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the results database in dir.
func Open(dir string) (*Store, error) {
	db, err := bolt.Open(filepath.Join(dir, "results.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores e unless the entry already stored for the same link is newer.
func (s *Store) Put(e Entry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketEntries)
		key := []byte(e.Link)

		if existing := bkt.Get(key); existing != nil {
			var old Entry
			if json.Unmarshal(existing, &old) == nil && old.Timestamp > e.Timestamp {
				return nil
			}
		}

		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return bkt.Put(key, data)
	})
}

// Get returns the entry for link.
func (s *Store) Get(link string) (Entry, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketEntries).Get([]byte(link))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &e)
	})
	return e, err
}

// All returns every stored entry ordered by link.
func (s *Store) All() ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	})
	return out, err
}
