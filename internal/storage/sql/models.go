package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/mcoot/clickgame-go/internal/model"
)

type playerRecordRow struct {
	bun.BaseModel `bun:"table:user_game_data,alias:ugd"`

	ID              int64     `bun:"id,pk,autoincrement"`
	UserID          string    `bun:"user_id,notnull"`
	SchemaVersion   int       `bun:"schema_version,notnull"`
	PlayerLevel     int       `bun:"player_level,notnull"`
	Money           int64     `bun:"money,notnull"`
	ClickRewardBase int64     `bun:"click_reward_base,notnull"`
	ClickMultiplier float64   `bun:"click_multiplier,notnull"`
	UpgradeCost     int64     `bun:"upgrade_cost,notnull"`
	TrainingCount   *int      `bun:"training_count"`
	AssistantsData  string    `bun:"assistants_data,notnull"`
	ChallengesData  string    `bun:"challenges_data,notnull"`
	SettingsData    *string   `bun:"settings_data"`
	LastUpdateTime  time.Time `bun:"last_update_time,notnull"`
	CreateTime      time.Time `bun:"create_time,notnull"`
}

func newPlayerRecordRow(rec *model.StoredRecord) *playerRecordRow {
	c := rec.Clone()
	return &playerRecordRow{
		UserID:          string(c.ExternalID),
		SchemaVersion:   c.SchemaVersion,
		PlayerLevel:     c.PlayerLevel,
		Money:           c.Money,
		ClickRewardBase: c.ClickRewardBase,
		ClickMultiplier: c.ClickMultiplier,
		UpgradeCost:     c.UpgradeCost,
		TrainingCount:   c.TrainingCount,
		AssistantsData:  c.AssistantsData,
		ChallengesData:  c.ChallengesData,
		SettingsData:    c.SettingsData,
		LastUpdateTime:  c.LastUpdateTime.UTC(),
		CreateTime:      c.CreateTime.UTC(),
	}
}

func (r *playerRecordRow) toDomain() *model.StoredRecord {
	return &model.StoredRecord{
		ExternalID:      model.ExternalID(r.UserID),
		SchemaVersion:   r.SchemaVersion,
		PlayerLevel:     r.PlayerLevel,
		Money:           r.Money,
		ClickRewardBase: r.ClickRewardBase,
		ClickMultiplier: r.ClickMultiplier,
		UpgradeCost:     r.UpgradeCost,
		TrainingCount:   r.TrainingCount,
		AssistantsData:  r.AssistantsData,
		ChallengesData:  r.ChallengesData,
		SettingsData:    r.SettingsData,
		LastUpdateTime:  r.LastUpdateTime.UTC(),
		CreateTime:      r.CreateTime.UTC(),
	}
}
