// Package progress loads, creates and saves player progress records.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/clickgame-go/internal/dependencies/clock"
	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/services/schema"
	"github.com/mcoot/clickgame-go/internal/storage"
)

// SaveOutcome reports the result of a save.
// Err wraps model.ErrValidation or model.ErrPersistence when Success is false.
type SaveOutcome struct {
	Success        bool
	LastUpdateTime time.Time
	Err            error
}

// Service reconciles stored records with the current schema
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new progress Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// GetRecord returns the player's record at the current schema version.
// An unknown player gets a fresh default record, which is inserted best-effort.
// If storage cannot be read the default record is returned without being stored.
func (s *Service) GetRecord(ctx context.Context, id model.ExternalID) model.PlayerRecord {
	id = normalizeID(string(id))
	stored, err := s.storage.GetPlayerRecord(ctx, id)
	if errors.Is(err, model.ErrRecordNotFound) {
		return s.create(ctx, id)
	}
	if err != nil {
		s.logger.Error("failed to load player record, serving defaults",
			slog.String("user_id", string(id)),
			slog.String("error", err.Error()),
		)
		return schema.NewRecord(id, s.now())
	}

	rec, issues := schema.Upgrade(stored)
	for _, issue := range issues {
		s.logIssue(id, issue)
	}
	return rec
}

func (s *Service) create(ctx context.Context, id model.ExternalID) model.PlayerRecord {
	rec := schema.NewRecord(id, s.now())

	stored, err := schema.Encode(rec)
	if err == nil {
		err = s.storage.InsertPlayerRecord(ctx, stored)
	}
	if err != nil {
		s.logger.Warn("failed to store new player record",
			slog.String("user_id", string(id)),
			slog.String("error", err.Error()),
		)
		return rec
	}

	s.logger.Info("created player record", slog.String("user_id", string(id)))
	return rec
}

// now is the clock time at the precision every backend can store
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(model.TimestampPrecision)
}

func (s *Service) logIssue(id model.ExternalID, issue schema.Issue) {
	attrs := []any{
		slog.String("user_id", string(id)),
		slog.String("field", issue.Field),
	}
	if issue.Kind == schema.IssueCorrupt {
		attrs = append(attrs, slog.String("error", issue.Err.Error()))
		s.logger.Error("corrupt field in player record, using default", attrs...)
		return
	}
	attrs = append(attrs, slog.Bool("legacy", issue.Legacy))
	s.logger.Debug("missing field in player record, using default", attrs...)
}

// SaveRecord validates req and replaces the player's record with it.
// createTime is kept from the existing record; everything else is overwritten.
func (s *Service) SaveRecord(ctx context.Context, req SaveRequest) SaveOutcome {
	if err := Validate(req); err != nil {
		return SaveOutcome{Err: err}
	}

	rec := normalize(req)
	now := s.now()
	rec.LastUpdateTime = now

	existing, err := s.storage.GetPlayerRecord(ctx, rec.ExternalID)
	switch {
	case errors.Is(err, model.ErrRecordNotFound):
		rec.CreateTime = now
		err = s.insert(ctx, &rec)
	case errors.Is(err, model.ErrCorruptRecord):
		s.logger.Warn("overwriting unreadable player record",
			slog.String("user_id", string(rec.ExternalID)),
			slog.String("error", err.Error()),
		)
		rec.CreateTime = now
		err = s.update(ctx, rec)
	case err != nil:
		err = fmt.Errorf("load player record: %w", err)
	default:
		rec.CreateTime = existing.CreateTime
		err = s.update(ctx, rec)
	}

	if err != nil {
		s.logger.Error("failed to save player record",
			slog.String("user_id", string(rec.ExternalID)),
			slog.String("error", err.Error()),
		)
		return SaveOutcome{Err: fmt.Errorf("%w: %w", model.ErrPersistence, err)}
	}

	s.logger.Info("saved player record",
		slog.String("user_id", string(rec.ExternalID)),
		slog.Int("player_level", rec.PlayerInfo.PlayerLevel),
	)
	return SaveOutcome{Success: true, LastUpdateTime: now}
}

// insert stores a new record. If another request created the record first
// the save becomes an update on top of it.
func (s *Service) insert(ctx context.Context, rec *model.PlayerRecord) error {
	stored, err := schema.Encode(*rec)
	if err != nil {
		return err
	}
	err = s.storage.InsertPlayerRecord(ctx, stored)
	if !errors.Is(err, model.ErrRecordExists) {
		return err
	}

	existing, err := s.storage.GetPlayerRecord(ctx, rec.ExternalID)
	if err != nil {
		return fmt.Errorf("reload player record: %w", err)
	}
	rec.CreateTime = existing.CreateTime
	return s.update(ctx, *rec)
}

func (s *Service) update(ctx context.Context, rec model.PlayerRecord) error {
	stored, err := schema.Encode(rec)
	if err != nil {
		return err
	}
	return s.storage.UpdatePlayerRecord(ctx, stored)
}
