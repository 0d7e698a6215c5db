package response

import (
	"time"

	"github.com/mcoot/clickgame-go/internal/model"
)

// LoginResponse is returned by POST /api/game/wx-login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// PlayerInfo represents the scalar progress values
type PlayerInfo struct {
	PlayerLevel     int     `json:"playerLevel"`
	Money           int64   `json:"money"`
	ClickRewardBase int64   `json:"clickRewardBase"`
	ClickMultiplier float64 `json:"clickMultiplier"`
	UpgradeCost     int64   `json:"upgradeCost"`
	TrainingCount   int     `json:"trainingCount"`
}

// Assistant represents an assistant
type Assistant struct {
	ID       int  `json:"id"`
	Unlocked bool `json:"unlocked"`
	Level    int  `json:"level"`
}

// Challenge represents a challenge
type Challenge struct {
	ID        int  `json:"id"`
	Completed bool `json:"completed"`
}

// Settings represents client preferences
type Settings struct {
	SoundEnabled bool `json:"soundEnabled"`
	MusicEnabled bool `json:"musicEnabled"`
}

// UserData is returned by GET /api/game/user-data
type UserData struct {
	UserID         string      `json:"userId"`
	PlayerInfo     PlayerInfo  `json:"playerInfo"`
	Assistants     []Assistant `json:"assistants"`
	Challenges     []Challenge `json:"challenges"`
	Settings       Settings    `json:"settings"`
	LastUpdateTime time.Time   `json:"lastUpdateTime"`
}

// UserDataFromModel converts a model.PlayerRecord
func UserDataFromModel(rec model.PlayerRecord) UserData {
	assistants := make([]Assistant, 0, len(rec.Assistants))
	for _, a := range rec.Assistants {
		assistants = append(assistants, Assistant{ID: a.ID, Unlocked: a.Unlocked, Level: a.Level})
	}
	challenges := make([]Challenge, 0, len(rec.Challenges))
	for _, c := range rec.Challenges {
		challenges = append(challenges, Challenge{ID: c.ID, Completed: c.Completed})
	}

	return UserData{
		UserID: string(rec.ExternalID),
		PlayerInfo: PlayerInfo{
			PlayerLevel:     rec.PlayerInfo.PlayerLevel,
			Money:           rec.PlayerInfo.Money,
			ClickRewardBase: rec.PlayerInfo.ClickRewardBase,
			ClickMultiplier: rec.PlayerInfo.ClickMultiplier,
			UpgradeCost:     rec.PlayerInfo.UpgradeCost,
			TrainingCount:   rec.PlayerInfo.TrainingCount,
		},
		Assistants:     assistants,
		Challenges:     challenges,
		Settings:       Settings{SoundEnabled: rec.Settings.SoundEnabled, MusicEnabled: rec.Settings.MusicEnabled},
		LastUpdateTime: rec.LastUpdateTime,
	}
}

// SaveResponse is returned by POST /api/game/user-data
type SaveResponse struct {
	Success        bool      `json:"success"`
	LastUpdateTime time.Time `json:"lastUpdateTime"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status string `json:"status"`
}
