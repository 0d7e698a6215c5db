package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcoot/clickgame-go/internal/model"
)

// Wire shapes of the JSON blobs. Field names match what clients have always written.

type assistantJSON struct {
	ID       int  `json:"id"`
	Unlocked bool `json:"unlocked"`
	Level    int  `json:"level"`
}

type challengeJSON struct {
	ID        int  `json:"id"`
	Completed bool `json:"completed"`
}

type settingsJSON struct {
	SoundEnabled *bool `json:"soundEnabled"`
	MusicEnabled *bool `json:"musicEnabled"`
}

// Encode converts a record into its persisted shape
func Encode(rec model.PlayerRecord) (*model.StoredRecord, error) {
	assistants := make([]assistantJSON, 0, len(rec.Assistants))
	for _, a := range rec.Assistants {
		assistants = append(assistants, assistantJSON{ID: a.ID, Unlocked: a.Unlocked, Level: a.Level})
	}
	challenges := make([]challengeJSON, 0, len(rec.Challenges))
	for _, c := range rec.Challenges {
		challenges = append(challenges, challengeJSON{ID: c.ID, Completed: c.Completed})
	}
	sound, music := rec.Settings.SoundEnabled, rec.Settings.MusicEnabled

	assistantsData, err := json.Marshal(assistants)
	if err != nil {
		return nil, fmt.Errorf("encode assistants: %w", err)
	}
	challengesData, err := json.Marshal(challenges)
	if err != nil {
		return nil, fmt.Errorf("encode challenges: %w", err)
	}
	settingsData, err := json.Marshal(settingsJSON{SoundEnabled: &sound, MusicEnabled: &music})
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}

	training := rec.PlayerInfo.TrainingCount
	settings := string(settingsData)

	return &model.StoredRecord{
		ExternalID:      rec.ExternalID,
		SchemaVersion:   CurrentVersion,
		PlayerLevel:     rec.PlayerInfo.PlayerLevel,
		Money:           rec.PlayerInfo.Money,
		ClickRewardBase: rec.PlayerInfo.ClickRewardBase,
		ClickMultiplier: rec.PlayerInfo.ClickMultiplier,
		UpgradeCost:     rec.PlayerInfo.UpgradeCost,
		TrainingCount:   &training,
		AssistantsData:  string(assistantsData),
		ChallengesData:  string(challengesData),
		SettingsData:    &settings,
		CreateTime:      rec.CreateTime,
		LastUpdateTime:  rec.LastUpdateTime,
	}, nil
}

// blank reports whether a blob carries no value at all
func blank(data string) bool {
	t := strings.TrimSpace(data)
	return t == "" || t == "null"
}

func decodeStrict(data string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON value")
	}
	return nil
}

func decodeAssistants(data string) ([]model.Assistant, error) {
	if blank(data) {
		return nil, errEmpty
	}
	var wire []assistantJSON
	if err := decodeStrict(data, &wire); err != nil {
		return nil, fmt.Errorf("decode assistants: %w", err)
	}
	out := make([]model.Assistant, 0, len(wire))
	for _, a := range wire {
		out = append(out, model.Assistant{ID: a.ID, Unlocked: a.Unlocked, Level: a.Level})
	}
	return out, nil
}

func decodeChallenges(data string) ([]model.Challenge, error) {
	if blank(data) {
		return nil, errEmpty
	}
	var wire []challengeJSON
	if err := decodeStrict(data, &wire); err != nil {
		return nil, fmt.Errorf("decode challenges: %w", err)
	}
	out := make([]model.Challenge, 0, len(wire))
	for _, c := range wire {
		out = append(out, model.Challenge{ID: c.ID, Completed: c.Completed})
	}
	return out, nil
}

func decodeSettings(data string) (model.Settings, error) {
	if blank(data) {
		return model.Settings{}, errEmpty
	}
	var wire settingsJSON
	if err := decodeStrict(data, &wire); err != nil {
		return model.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return SettingsFrom(wire.SoundEnabled, wire.MusicEnabled), nil
}
