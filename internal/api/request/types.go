package request

import "github.com/mcoot/clickgame-go/internal/services/progress"

// LoginRequest is the body of POST /api/game/wx-login
type LoginRequest struct {
	Code string `json:"code"`
}

// PlayerInfo holds the scalar values of a save; null and absent are the same
type PlayerInfo struct {
	PlayerLevel     *int     `json:"playerLevel"`
	Money           *int64   `json:"money"`
	ClickRewardBase *int64   `json:"clickRewardBase"`
	ClickMultiplier *float64 `json:"clickMultiplier"`
	UpgradeCost     *int64   `json:"upgradeCost"`
	TrainingCount   *int     `json:"trainingCount"`
}

// Assistant is one entry of the assistants list
type Assistant struct {
	ID       *int  `json:"id"`
	Unlocked *bool `json:"unlocked"`
	Level    *int  `json:"level"`
}

// Challenge is one entry of the challenges list
type Challenge struct {
	ID        *int  `json:"id"`
	Completed *bool `json:"completed"`
}

// Settings holds client preferences
type Settings struct {
	SoundEnabled *bool `json:"soundEnabled"`
	MusicEnabled *bool `json:"musicEnabled"`
}

// SaveUserDataRequest is the body of POST /api/game/user-data.
// The user id comes from the session, never from the body.
type SaveUserDataRequest struct {
	PlayerInfo *PlayerInfo `json:"playerInfo"`
	Assistants []Assistant `json:"assistants"`
	Challenges []Challenge `json:"challenges"`
	Settings   *Settings   `json:"settings"`
}

// ToSaveRequest converts the body into a progress.SaveRequest for userID
func (r SaveUserDataRequest) ToSaveRequest(userID string) progress.SaveRequest {
	req := progress.SaveRequest{UserID: userID}

	if r.PlayerInfo != nil {
		req.PlayerInfo = &progress.PlayerInfoInput{
			PlayerLevel:     r.PlayerInfo.PlayerLevel,
			Money:           r.PlayerInfo.Money,
			ClickRewardBase: r.PlayerInfo.ClickRewardBase,
			ClickMultiplier: r.PlayerInfo.ClickMultiplier,
			UpgradeCost:     r.PlayerInfo.UpgradeCost,
			TrainingCount:   r.PlayerInfo.TrainingCount,
		}
	}
	for _, a := range r.Assistants {
		req.Assistants = append(req.Assistants, progress.AssistantInput{ID: a.ID, Unlocked: a.Unlocked, Level: a.Level})
	}
	for _, c := range r.Challenges {
		req.Challenges = append(req.Challenges, progress.ChallengeInput{ID: c.ID, Completed: c.Completed})
	}
	if r.Settings != nil {
		req.Settings = &progress.SettingsInput{
			SoundEnabled: r.Settings.SoundEnabled,
			MusicEnabled: r.Settings.MusicEnabled,
		}
	}

	return req
}
