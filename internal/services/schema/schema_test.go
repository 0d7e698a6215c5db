package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/clickgame-go/internal/model"
)

type SchemaSuite struct {
	suite.Suite
	now time.Time
}

func TestSchemaSuite(t *testing.T) {
	suite.Run(t, new(SchemaSuite))
}

func (s *SchemaSuite) SetupTest() {
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func (s *SchemaSuite) storedV3() *model.StoredRecord {
	return &model.StoredRecord{
		ExternalID:      "user-1",
		SchemaVersion:   3,
		PlayerLevel:     7,
		Money:           1234,
		ClickRewardBase: 150,
		ClickMultiplier: 1.5,
		UpgradeCost:     70,
		TrainingCount:   ptr(3),
		AssistantsData:  `[{"id":1,"unlocked":true,"level":5},{"id":2,"unlocked":false,"level":0}]`,
		ChallengesData:  `[{"id":1,"completed":true}]`,
		SettingsData:    ptr(`{"soundEnabled":false,"musicEnabled":true}`),
		CreateTime:      s.now.Add(-time.Hour),
		LastUpdateTime:  s.now,
	}
}

// Defaults

func (s *SchemaSuite) TestNewRecordDefaults() {
	rec := NewRecord("user-1", s.now)

	s.Equal(model.ExternalID("user-1"), rec.ExternalID)
	s.Equal(CurrentVersion, rec.SchemaVersion)
	s.Equal(1, rec.PlayerInfo.PlayerLevel)
	s.Equal(int64(0), rec.PlayerInfo.Money)
	s.Equal(int64(100), rec.PlayerInfo.ClickRewardBase)
	s.InDelta(1.0, rec.PlayerInfo.ClickMultiplier, 0)
	s.Equal(int64(10), rec.PlayerInfo.UpgradeCost)
	s.Equal(0, rec.PlayerInfo.TrainingCount)
	s.Equal(s.now, rec.CreateTime)
	s.Equal(s.now, rec.LastUpdateTime)

	s.Require().Len(rec.Assistants, 4)
	for i, a := range rec.Assistants {
		s.Equal(i+1, a.ID)
		s.False(a.Unlocked)
		s.Equal(0, a.Level)
	}
	s.Require().Len(rec.Challenges, 5)
	for i, c := range rec.Challenges {
		s.Equal(i+1, c.ID)
		s.False(c.Completed)
	}
	s.Equal(model.Settings{SoundEnabled: true, MusicEnabled: true}, rec.Settings)
}

func (s *SchemaSuite) TestDefaultSlicesAreIndependent() {
	a := DefaultAssistants()
	a[0].Level = 9
	s.Equal(0, DefaultAssistants()[0].Level)
}

func (s *SchemaSuite) TestSettingsFromDefaultsEachFlag() {
	s.Equal(model.Settings{SoundEnabled: false, MusicEnabled: true}, SettingsFrom(ptr(false), nil))
	s.Equal(model.Settings{SoundEnabled: true, MusicEnabled: false}, SettingsFrom(nil, ptr(false)))
	s.Equal(DefaultSettings(), SettingsFrom(nil, nil))
}

func (s *SchemaSuite) TestFillOnlyTouchesNamedFields() {
	rec := model.PlayerRecord{PlayerInfo: model.PlayerInfo{TrainingCount: 4}}
	Fill(&rec, FieldSettings, "unknown")

	s.Equal(DefaultSettings(), rec.Settings)
	s.Equal(4, rec.PlayerInfo.TrainingCount)
	s.Nil(rec.Assistants)
}

// Upgrade

func (s *SchemaSuite) TestUpgradeCurrentRecordIsLossless() {
	rec, issues := Upgrade(s.storedV3())

	s.Empty(issues)
	s.Equal(7, rec.PlayerInfo.PlayerLevel)
	s.Equal(int64(1234), rec.PlayerInfo.Money)
	s.Equal(3, rec.PlayerInfo.TrainingCount)
	s.Equal([]model.Assistant{{ID: 1, Unlocked: true, Level: 5}, {ID: 2}}, rec.Assistants)
	s.Equal([]model.Challenge{{ID: 1, Completed: true}}, rec.Challenges)
	s.Equal(model.Settings{SoundEnabled: false, MusicEnabled: true}, rec.Settings)
	s.Equal(s.now.Add(-time.Hour), rec.CreateTime)
}

func (s *SchemaSuite) TestUpgradeV1RecordBackfillsLaterFields() {
	stored := s.storedV3()
	stored.SchemaVersion = 1
	stored.TrainingCount = nil
	stored.SettingsData = nil

	rec, issues := Upgrade(stored)

	s.Equal(CurrentVersion, rec.SchemaVersion)
	s.Equal(0, rec.PlayerInfo.TrainingCount)
	s.Equal(DefaultSettings(), rec.Settings)
	s.Require().Len(issues, 2)
	for _, issue := range issues {
		s.Equal(IssueMissing, issue.Kind)
		s.True(issue.Legacy)
	}
}

func (s *SchemaSuite) TestUpgradePartialSettingsDefaultsMissingFlag() {
	stored := s.storedV3()
	stored.SettingsData = ptr(`{"musicEnabled":false}`)

	rec, issues := Upgrade(stored)

	s.Empty(issues)
	s.Equal(model.Settings{SoundEnabled: true, MusicEnabled: false}, rec.Settings)
}

func (s *SchemaSuite) TestUpgradeIsolatesCorruptAssistants() {
	stored := s.storedV3()
	stored.AssistantsData = `[{"id":1,`

	rec, issues := Upgrade(stored)

	s.Equal(DefaultAssistants(), rec.Assistants)
	s.Equal([]model.Challenge{{ID: 1, Completed: true}}, rec.Challenges)
	s.Equal(model.Settings{SoundEnabled: false, MusicEnabled: true}, rec.Settings)
	s.Require().Len(issues, 1)
	s.Equal(FieldAssistants, issues[0].Field)
	s.Equal(IssueCorrupt, issues[0].Kind)
	s.ErrorIs(issues[0].Err, model.ErrCorruptRecord)
}

func (s *SchemaSuite) TestUpgradeIsolatesCorruptChallengesAndSettings() {
	stored := s.storedV3()
	stored.ChallengesData = `{"not":"a list"}`
	stored.SettingsData = ptr(`not json`)

	rec, issues := Upgrade(stored)

	s.Equal([]model.Assistant{{ID: 1, Unlocked: true, Level: 5}, {ID: 2}}, rec.Assistants)
	s.Equal(DefaultChallenges(), rec.Challenges)
	s.Equal(DefaultSettings(), rec.Settings)
	s.Len(issues, 2)
}

func (s *SchemaSuite) TestUpgradeBlankListIsMissing() {
	stored := s.storedV3()
	stored.ChallengesData = ``

	rec, issues := Upgrade(stored)

	s.Equal(DefaultChallenges(), rec.Challenges)
	s.Require().Len(issues, 1)
	s.Equal(FieldChallenges, issues[0].Field)
	s.Equal(IssueMissing, issues[0].Kind)
	s.False(issues[0].Legacy)
}

func (s *SchemaSuite) TestUpgradeKeepsStoredEmptyLists() {
	stored := s.storedV3()
	stored.AssistantsData = `[]`
	stored.ChallengesData = `[]`

	rec, issues := Upgrade(stored)

	s.NotNil(rec.Assistants)
	s.Empty(rec.Assistants)
	s.NotNil(rec.Challenges)
	s.Empty(rec.Challenges)
	s.Empty(issues)
}

// Encode

func (s *SchemaSuite) TestEncodeWritesCurrentShape() {
	rec := NewRecord("user-1", s.now)
	rec.Settings.MusicEnabled = false

	stored, err := Encode(rec)
	s.Require().NoError(err)

	s.Equal(CurrentVersion, stored.SchemaVersion)
	s.Require().NotNil(stored.TrainingCount)
	s.Equal(0, *stored.TrainingCount)
	s.JSONEq(`[{"id":1,"unlocked":false,"level":0},{"id":2,"unlocked":false,"level":0},{"id":3,"unlocked":false,"level":0},{"id":4,"unlocked":false,"level":0}]`, stored.AssistantsData)
	s.Require().NotNil(stored.SettingsData)
	s.JSONEq(`{"soundEnabled":true,"musicEnabled":false}`, *stored.SettingsData)
}

func (s *SchemaSuite) TestEncodeThenUpgradeRoundTrips() {
	rec := NewRecord("user-1", s.now)
	rec.PlayerInfo.TrainingCount = 12
	rec.Assistants[2].Unlocked = true

	stored, err := Encode(rec)
	s.Require().NoError(err)
	back, issues := Upgrade(stored)

	s.Empty(issues)
	s.Equal(rec, back)
}
