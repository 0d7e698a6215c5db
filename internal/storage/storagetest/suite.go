// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/storage"
)

// Suite exercises a storage.Storage implementation.
// Backends embed it and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func ptr[T any](v T) *T {
	return &v
}

// Record returns a fully-populated current-schema record for id
func Record(id model.ExternalID) *model.StoredRecord {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.StoredRecord{
		ExternalID:      id,
		SchemaVersion:   3,
		PlayerLevel:     3,
		Money:           500,
		ClickRewardBase: 120,
		ClickMultiplier: 1.25,
		UpgradeCost:     30,
		TrainingCount:   ptr(2),
		AssistantsData:  `[{"id":1,"unlocked":true,"level":2}]`,
		ChallengesData:  `[{"id":1,"completed":false}]`,
		SettingsData:    ptr(`{"soundEnabled":true,"musicEnabled":false}`),
		CreateTime:      now,
		LastUpdateTime:  now,
	}
}

func (s *Suite) ctx() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

func (s *Suite) TestInsertAndGet() {
	rec := Record("user-1")
	s.Require().NoError(s.Storage.InsertPlayerRecord(s.ctx(), rec))

	got, err := s.Storage.GetPlayerRecord(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal(rec.ExternalID, got.ExternalID)
	s.Equal(rec.SchemaVersion, got.SchemaVersion)
	s.Equal(rec.PlayerLevel, got.PlayerLevel)
	s.Equal(rec.Money, got.Money)
	s.Equal(rec.ClickRewardBase, got.ClickRewardBase)
	s.InDelta(rec.ClickMultiplier, got.ClickMultiplier, 1e-9)
	s.Equal(rec.UpgradeCost, got.UpgradeCost)
	s.Equal(rec.TrainingCount, got.TrainingCount)
	s.Equal(rec.AssistantsData, got.AssistantsData)
	s.Equal(rec.ChallengesData, got.ChallengesData)
	s.Equal(rec.SettingsData, got.SettingsData)
	s.True(rec.CreateTime.Equal(got.CreateTime))
	s.True(rec.LastUpdateTime.Equal(got.LastUpdateTime))
}

func (s *Suite) TestTimestampsRoundTripExactly() {
	rec := Record("user-1")
	rec.CreateTime = time.Date(2024, 3, 4, 5, 6, 7, 123456000, time.UTC)
	rec.LastUpdateTime = rec.CreateTime.Add(90*time.Minute + 654321*time.Microsecond)
	s.Require().NoError(s.Storage.InsertPlayerRecord(s.ctx(), rec))

	got, err := s.Storage.GetPlayerRecord(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal(rec.CreateTime, got.CreateTime)
	s.Equal(rec.LastUpdateTime, got.LastUpdateTime)
}

func (s *Suite) TestLargeTrainingCountRoundTrips() {
	rec := Record("user-1")
	rec.TrainingCount = ptr(1 << 40)
	s.Require().NoError(s.Storage.InsertPlayerRecord(s.ctx(), rec))

	got, err := s.Storage.GetPlayerRecord(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(got.TrainingCount)
	s.Equal(1<<40, *got.TrainingCount)
}

func (s *Suite) TestGetNotFound() {
	_, err := s.Storage.GetPlayerRecord(s.ctx(), "nobody")
	s.ErrorIs(err, model.ErrRecordNotFound)
}

func (s *Suite) TestInsertDuplicate() {
	s.Require().NoError(s.Storage.InsertPlayerRecord(s.ctx(), Record("user-1")))

	err := s.Storage.InsertPlayerRecord(s.ctx(), Record("user-1"))
	s.ErrorIs(err, model.ErrRecordExists)
}

func (s *Suite) TestUpdateReplacesRecord() {
	s.Require().NoError(s.Storage.InsertPlayerRecord(s.ctx(), Record("user-1")))

	updated := Record("user-1")
	updated.Money = 9999
	updated.AssistantsData = `[{"id":1,"unlocked":true,"level":9}]`
	updated.LastUpdateTime = updated.LastUpdateTime.Add(time.Hour)
	s.Require().NoError(s.Storage.UpdatePlayerRecord(s.ctx(), updated))

	got, err := s.Storage.GetPlayerRecord(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal(int64(9999), got.Money)
	s.Equal(updated.AssistantsData, got.AssistantsData)
	s.True(updated.LastUpdateTime.Equal(got.LastUpdateTime))
}

func (s *Suite) TestUpdateMissing() {
	err := s.Storage.UpdatePlayerRecord(s.ctx(), Record("nobody"))
	s.ErrorIs(err, model.ErrRecordNotFound)
}

func (s *Suite) TestNullableFieldsRoundTrip() {
	rec := Record("legacy")
	rec.SchemaVersion = 1
	rec.TrainingCount = nil
	rec.SettingsData = nil
	s.Require().NoError(s.Storage.InsertPlayerRecord(s.ctx(), rec))

	got, err := s.Storage.GetPlayerRecord(s.ctx(), "legacy")
	s.Require().NoError(err)
	s.Nil(got.TrainingCount)
	s.Nil(got.SettingsData)
}

func (s *Suite) TestReturnedRecordIsACopy() {
	s.Require().NoError(s.Storage.InsertPlayerRecord(s.ctx(), Record("user-1")))

	got, err := s.Storage.GetPlayerRecord(s.ctx(), "user-1")
	s.Require().NoError(err)
	got.Money = -1
	*got.TrainingCount = 99

	again, err := s.Storage.GetPlayerRecord(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal(int64(500), again.Money)
	s.Equal(2, *again.TrainingCount)
}
