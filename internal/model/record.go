package model

import "time"

// TimestampPrecision is the finest time resolution kept by every storage backend
const TimestampPrecision = time.Microsecond

// ExternalID is the stable user identifier assigned by an identity provider
type ExternalID string

// PlayerInfo holds the scalar progress values of a player
type PlayerInfo struct {
	PlayerLevel     int // 1..999
	Money           int64
	ClickRewardBase int64
	ClickMultiplier float64
	UpgradeCost     int64
	TrainingCount   int // schema v2
}

// Assistant is a helper the player can unlock and level up
type Assistant struct {
	ID       int
	Unlocked bool
	Level    int // 0..50
}

// Challenge is a one-off goal the player can complete
type Challenge struct {
	ID        int
	Completed bool
}

// Settings holds client preferences (schema v3)
type Settings struct {
	SoundEnabled bool
	MusicEnabled bool
}

// PlayerRecord is the full progress of one player, keyed by ExternalID.
// Records are created lazily on first read and replaced wholesale on save.
type PlayerRecord struct {
	ExternalID     ExternalID
	SchemaVersion  int
	PlayerInfo     PlayerInfo
	Assistants     []Assistant
	Challenges     []Challenge
	Settings       Settings
	CreateTime     time.Time
	LastUpdateTime time.Time
}

// StoredRecord is the persisted shape of a PlayerRecord.
// Sub-structures are kept as JSON text; fields added after the first
// schema version are nullable so older rows can be told apart.
type StoredRecord struct {
	ExternalID      ExternalID `json:"user_id"`
	SchemaVersion   int        `json:"schema_version"`
	PlayerLevel     int        `json:"player_level"`
	Money           int64      `json:"money"`
	ClickRewardBase int64      `json:"click_reward_base"`
	ClickMultiplier float64    `json:"click_multiplier"`
	UpgradeCost     int64      `json:"upgrade_cost"`
	TrainingCount   *int       `json:"training_count,omitempty"`
	AssistantsData  string     `json:"assistants_data"`
	ChallengesData  string     `json:"challenges_data"`
	SettingsData    *string    `json:"settings_data,omitempty"`
	CreateTime      time.Time  `json:"create_time"`
	LastUpdateTime  time.Time  `json:"last_update_time"`
}

// Clone returns a deep copy of the record
func (r *StoredRecord) Clone() *StoredRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.TrainingCount != nil {
		v := *r.TrainingCount
		c.TrainingCount = &v
	}
	if r.SettingsData != nil {
		v := *r.SettingsData
		c.SettingsData = &v
	}
	return &c
}
