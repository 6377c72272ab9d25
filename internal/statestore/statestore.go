// Package statestore persists fitted transformer state to bbolt. State is a
// flat mapping of primitive values, keyed by kind (the transformer name) and
// a generated record id, so a fitted transformer can be re-applied across
// restarts.
package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/go-tda/tda/internal/logging"
)

const prefix = "state:"

var ErrNotFound = fmt.Errorf("statestore: record not found")

type Config struct {
	FileName string `envconfig:"TDA_DB_FILE" default:"tda.db"`
}

type DB struct {
	DB *bolt.DB
}

func NewFromEnv(ctx context.Context, config *Config) (*DB, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening state store %s", config.FileName)

	db, err := bolt.Open(config.FileName, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}
	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logging.FromContext(ctx).Infof("closing state store")
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing state store: %w", err)
	}
	return nil
}

type Record struct {
	ID        uuid.UUID         `json:"id"`
	Kind      string            `json:"kind"`
	State     map[string]string `json:"state"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Save stores a fitted state under a fresh id and returns it.
func (db *DB) Save(_ context.Context, kind string, state map[string]string) (uuid.UUID, error) {
	rec := Record{ID: uuid.New(), Kind: kind, State: state, CreatedAt: time.Now().UTC()}
	bytes, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, err
	}
	if err := db.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(prefix + kind))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if err := b.Put([]byte(rec.ID.String()), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		return nil
	}); err != nil {
		return uuid.Nil, fmt.Errorf("update transaction error: %w", err)
	}
	return rec.ID, nil
}

// Load fetches the flat state mapping stored under (kind, id).
func (db *DB) Load(_ context.Context, kind string, id uuid.UUID) (map[string]string, error) {
	var rec Record
	err := db.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + kind))
		if b == nil {
			return ErrNotFound
		}
		bytes := b.Get([]byte(id.String()))
		if bytes == nil {
			return ErrNotFound
		}
		return json.Unmarshal(bytes, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.State, nil
}

// Keys lists the record ids stored for kind.
func (db *DB) Keys(kind string) ([]string, error) {
	var keys []string
	err := db.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + kind))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

func (db *DB) Delete(_ context.Context, kind string, id uuid.UUID) error {
	if err := db.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + kind))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id.String()))
	}); err != nil {
		return fmt.Errorf("delete transaction error: %w", err)
	}
	return nil
}
