// Package schema owns the player record defaults and the upgrade table that
// carries records written by older clients forward to the current version.
package schema

import (
	"errors"
	"time"

	"github.com/mcoot/clickgame-go/internal/model"
)

// CurrentVersion is the schema version stamped on every record written
const CurrentVersion = 3

// Field names used in the upgrade table and in Issues
const (
	FieldTrainingCount = "trainingCount"
	FieldAssistants    = "assistants"
	FieldChallenges    = "challenges"
	FieldSettings      = "settings"
)

const (
	defaultAssistantCount = 4
	defaultChallengeCount = 5
)

// IssueKind classifies why a field was defaulted
type IssueKind string

const (
	IssueMissing IssueKind = "missing"
	IssueCorrupt IssueKind = "corrupt"
)

// Issue reports a field that was replaced by its default during an upgrade
type Issue struct {
	Field string
	Kind  IssueKind
	Err   error
	// Legacy is set when the record predates the version that introduced the field
	Legacy bool
}

// field is one entry of the upgrade table.
// load copies the stored value into the record and reports whether it was present;
// reset writes the default.
type field struct {
	Name  string
	Since int
	load  func(src *model.StoredRecord, dst *model.PlayerRecord) (bool, error)
	reset func(dst *model.PlayerRecord)
}

var errEmpty = errors.New("empty")

// upgrades lists every field that can be absent or unreadable in storage.
// Scalar columns from the first version are always present and are not listed.
var upgrades = []field{
	{
		Name:  FieldAssistants,
		Since: 1,
		load: func(src *model.StoredRecord, dst *model.PlayerRecord) (bool, error) {
			v, err := decodeAssistants(src.AssistantsData)
			if errors.Is(err, errEmpty) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			dst.Assistants = v
			return true, nil
		},
		reset: func(dst *model.PlayerRecord) { dst.Assistants = DefaultAssistants() },
	},
	{
		Name:  FieldChallenges,
		Since: 1,
		load: func(src *model.StoredRecord, dst *model.PlayerRecord) (bool, error) {
			v, err := decodeChallenges(src.ChallengesData)
			if errors.Is(err, errEmpty) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			dst.Challenges = v
			return true, nil
		},
		reset: func(dst *model.PlayerRecord) { dst.Challenges = DefaultChallenges() },
	},
	{
		Name:  FieldTrainingCount,
		Since: 2,
		load: func(src *model.StoredRecord, dst *model.PlayerRecord) (bool, error) {
			if src.TrainingCount == nil {
				return false, nil
			}
			dst.PlayerInfo.TrainingCount = *src.TrainingCount
			return true, nil
		},
		reset: func(dst *model.PlayerRecord) { dst.PlayerInfo.TrainingCount = 0 },
	},
	{
		Name:  FieldSettings,
		Since: 3,
		load: func(src *model.StoredRecord, dst *model.PlayerRecord) (bool, error) {
			if src.SettingsData == nil {
				return false, nil
			}
			v, err := decodeSettings(*src.SettingsData)
			if errors.Is(err, errEmpty) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			dst.Settings = v
			return true, nil
		},
		reset: func(dst *model.PlayerRecord) { dst.Settings = DefaultSettings() },
	},
}

// DefaultPlayerInfo returns the starting values for a new player
func DefaultPlayerInfo() model.PlayerInfo {
	return model.PlayerInfo{
		PlayerLevel:     1,
		Money:           0,
		ClickRewardBase: 100,
		ClickMultiplier: 1.0,
		UpgradeCost:     10,
		TrainingCount:   0,
	}
}

// DefaultAssistants returns assistants 1-4, all locked at level 0
func DefaultAssistants() []model.Assistant {
	out := make([]model.Assistant, 0, defaultAssistantCount)
	for i := 1; i <= defaultAssistantCount; i++ {
		out = append(out, model.Assistant{ID: i})
	}
	return out
}

// DefaultChallenges returns challenges 1-5, none completed
func DefaultChallenges() []model.Challenge {
	out := make([]model.Challenge, 0, defaultChallengeCount)
	for i := 1; i <= defaultChallengeCount; i++ {
		out = append(out, model.Challenge{ID: i})
	}
	return out
}

// DefaultSettings returns settings with every flag on
func DefaultSettings() model.Settings {
	return model.Settings{SoundEnabled: true, MusicEnabled: true}
}

// SettingsFrom builds Settings where each absent flag defaults to true
func SettingsFrom(sound, music *bool) model.Settings {
	s := DefaultSettings()
	if sound != nil {
		s.SoundEnabled = *sound
	}
	if music != nil {
		s.MusicEnabled = *music
	}
	return s
}

// NewRecord synthesizes the record handed to a player seen for the first time
func NewRecord(id model.ExternalID, now time.Time) model.PlayerRecord {
	rec := model.PlayerRecord{
		ExternalID:     id,
		SchemaVersion:  CurrentVersion,
		PlayerInfo:     DefaultPlayerInfo(),
		CreateTime:     now,
		LastUpdateTime: now,
	}
	for _, f := range upgrades {
		f.reset(&rec)
	}
	return rec
}

// Fill writes the defaults for the named fields into rec.
// Unknown names are ignored.
func Fill(rec *model.PlayerRecord, names ...string) {
	for _, name := range names {
		for _, f := range upgrades {
			if f.Name == name {
				f.reset(rec)
			}
		}
	}
}

// Upgrade converts a stored record into the current schema.
// Every absent or unreadable field is replaced by its default and reported;
// a corrupt field never affects the others.
func Upgrade(src *model.StoredRecord) (model.PlayerRecord, []Issue) {
	rec := model.PlayerRecord{
		ExternalID:    src.ExternalID,
		SchemaVersion: CurrentVersion,
		PlayerInfo: model.PlayerInfo{
			PlayerLevel:     src.PlayerLevel,
			Money:           src.Money,
			ClickRewardBase: src.ClickRewardBase,
			ClickMultiplier: src.ClickMultiplier,
			UpgradeCost:     src.UpgradeCost,
		},
		CreateTime:     src.CreateTime,
		LastUpdateTime: src.LastUpdateTime,
	}

	var issues []Issue
	for _, f := range upgrades {
		ok, err := f.load(src, &rec)
		switch {
		case err != nil:
			f.reset(&rec)
			issues = append(issues, Issue{Field: f.Name, Kind: IssueCorrupt, Err: errors.Join(model.ErrCorruptRecord, err)})
		case !ok:
			f.reset(&rec)
			issues = append(issues, Issue{Field: f.Name, Kind: IssueMissing, Legacy: src.SchemaVersion < f.Since})
		}
	}
	return rec, issues
}
