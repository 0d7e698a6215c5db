package progress

import (
	"fmt"
	"strings"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/services/schema"
)

// SaveRequest is a full replacement of a player's progress.
// Pointer fields distinguish absent from zero.
type SaveRequest struct {
	UserID     string
	PlayerInfo *PlayerInfoInput
	Assistants []AssistantInput
	Challenges []ChallengeInput
	Settings   *SettingsInput
}

// PlayerInfoInput holds the scalar values of a save
type PlayerInfoInput struct {
	PlayerLevel     *int
	Money           *int64
	ClickRewardBase *int64
	ClickMultiplier *float64
	UpgradeCost     *int64
	TrainingCount   *int
}

// AssistantInput is one assistant of a save
type AssistantInput struct {
	ID       *int
	Unlocked *bool
	Level    *int
}

// ChallengeInput is one challenge of a save
type ChallengeInput struct {
	ID        *int
	Completed *bool
}

// SettingsInput holds client preferences; absent flags default to true
type SettingsInput struct {
	SoundEnabled *bool
	MusicEnabled *bool
}

// ValidationError names the first rule a save request broke
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Unwrap lets callers match model.ErrValidation
func (e *ValidationError) Unwrap() error {
	return model.ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate checks req and returns the first failing rule as a *ValidationError
func Validate(req SaveRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return invalid("userId", "userId is required")
	}

	info := req.PlayerInfo
	if info == nil {
		return invalid("playerInfo", "playerInfo is required")
	}
	if info.PlayerLevel == nil || *info.PlayerLevel < 1 || *info.PlayerLevel > 999 {
		return invalid("playerInfo.playerLevel", "playerLevel must be between 1 and 999")
	}
	if info.Money == nil || *info.Money < 0 {
		return invalid("playerInfo.money", "money must not be negative")
	}
	if info.ClickRewardBase == nil || *info.ClickRewardBase < 0 {
		return invalid("playerInfo.clickRewardBase", "clickRewardBase must not be negative")
	}
	if info.ClickMultiplier == nil || *info.ClickMultiplier < 0 {
		return invalid("playerInfo.clickMultiplier", "clickMultiplier must not be negative")
	}
	if info.UpgradeCost == nil || *info.UpgradeCost < 0 {
		return invalid("playerInfo.upgradeCost", "upgradeCost must not be negative")
	}
	if info.TrainingCount != nil && *info.TrainingCount < 0 {
		return invalid("playerInfo.trainingCount", "trainingCount must not be negative")
	}

	if len(req.Assistants) == 0 {
		return invalid("assistants", "assistants empty")
	}
	for i, a := range req.Assistants {
		if a.ID == nil || *a.ID < 1 {
			return invalid(fmt.Sprintf("assistants[%d].id", i), "assistant id must be greater than 0")
		}
		if a.Level == nil || *a.Level < 0 || *a.Level > 50 {
			return invalid(fmt.Sprintf("assistants[%d].level", i), "assistant level must be between 0 and 50")
		}
	}

	if len(req.Challenges) == 0 {
		return invalid("challenges", "challenges empty")
	}
	for i, c := range req.Challenges {
		if c.ID == nil || *c.ID < 1 {
			return invalid(fmt.Sprintf("challenges[%d].id", i), "challenge id must be greater than 0")
		}
	}

	return nil
}

// normalize converts a validated request into a record, defaulting optional fields
func normalize(req SaveRequest) model.PlayerRecord {
	info := req.PlayerInfo
	rec := model.PlayerRecord{
		ExternalID:    normalizeID(req.UserID),
		SchemaVersion: schema.CurrentVersion,
		PlayerInfo: model.PlayerInfo{
			PlayerLevel:     *info.PlayerLevel,
			Money:           *info.Money,
			ClickRewardBase: *info.ClickRewardBase,
			ClickMultiplier: *info.ClickMultiplier,
			UpgradeCost:     *info.UpgradeCost,
		},
		Assistants: make([]model.Assistant, 0, len(req.Assistants)),
		Challenges: make([]model.Challenge, 0, len(req.Challenges)),
	}

	if info.TrainingCount != nil {
		rec.PlayerInfo.TrainingCount = *info.TrainingCount
	} else {
		schema.Fill(&rec, schema.FieldTrainingCount)
	}

	if req.Settings != nil {
		rec.Settings = schema.SettingsFrom(req.Settings.SoundEnabled, req.Settings.MusicEnabled)
	} else {
		schema.Fill(&rec, schema.FieldSettings)
	}

	for _, a := range req.Assistants {
		rec.Assistants = append(rec.Assistants, model.Assistant{
			ID:       *a.ID,
			Unlocked: a.Unlocked != nil && *a.Unlocked,
			Level:    *a.Level,
		})
	}
	for _, c := range req.Challenges {
		rec.Challenges = append(rec.Challenges, model.Challenge{
			ID:        *c.ID,
			Completed: c.Completed != nil && *c.Completed,
		})
	}

	return rec
}

// normalizeID is the key form of a user id on both the read and save paths
func normalizeID(id string) model.ExternalID {
	return model.ExternalID(strings.TrimSpace(id))
}
