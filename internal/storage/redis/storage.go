package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each record is one JSON value; insert and update rely on SET NX / SET XX
// so neither can clobber a concurrent create.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetPlayerRecord(ctx context.Context, id model.ExternalID) (*model.StoredRecord, error) {
	data, err := s.client.Get(ctx, playerRecordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRecordNotFound
		}
		return nil, err
	}

	var rec model.StoredRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Join(model.ErrCorruptRecord, err)
	}
	return &rec, nil
}

func (s *Storage) InsertPlayerRecord(ctx context.Context, rec *model.StoredRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, playerRecordKey(rec.ExternalID), data, s.cfg.RecordTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrRecordExists
	}
	return nil
}

func (s *Storage) UpdatePlayerRecord(ctx context.Context, rec *model.StoredRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = s.client.SetArgs(ctx, playerRecordKey(rec.ExternalID), data, redis.SetArgs{
		Mode: "XX",
		TTL:  s.cfg.RecordTTL,
	}).Err()
	if errors.Is(err, redis.Nil) {
		return model.ErrRecordNotFound
	}
	return err
}
