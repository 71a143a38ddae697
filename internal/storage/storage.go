package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyLatest        = "latest"
	keySessionPrefix = "session/"
)

var ErrNotFound = errors.New("game not found")

// MoveRecord is one applied move in coordinate form.
type MoveRecord struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GameRecord is the persisted move list of a session. Replaying Moves from
// the starting position reproduces the game.
type GameRecord struct {
	ID        string       `json:"id"`
	Moves     []MoveRecord `json:"moves"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory returns a store that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func sessionKey(id string) []byte {
	return []byte(keySessionPrefix + id)
}

// SaveGame writes rec and marks it as the latest game.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		return errors.New("game record has no id")
	}
	rec.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(sessionKey(rec.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyLatest), []byte(rec.ID))
	})
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// LoadLatest returns the most recently saved game.
func (s *Storage) LoadLatest() (*GameRecord, error) {
	var id string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyLatest))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		id = string(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.LoadGame(id)
}

// ListGames returns the ids of every stored game.
func (s *Storage) ListGames() ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keySessionPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			ids = append(ids, string(key[len(keySessionPrefix):]))
		}
		return nil
	})
	return ids, err
}
