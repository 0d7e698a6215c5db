package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		o.printLoginResult(v)
	case UserData:
		o.printUserData(v)
	case SaveResult:
		o.printSaveResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// LoginResult response type (matches API)
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// PlayerInfo response type
type PlayerInfo struct {
	PlayerLevel     int     `json:"playerLevel"`
	Money           int64   `json:"money"`
	ClickRewardBase int64   `json:"clickRewardBase"`
	ClickMultiplier float64 `json:"clickMultiplier"`
	UpgradeCost     int64   `json:"upgradeCost"`
	TrainingCount   int     `json:"trainingCount"`
}

// Assistant response type
type Assistant struct {
	ID       int  `json:"id"`
	Unlocked bool `json:"unlocked"`
	Level    int  `json:"level"`
}

// Challenge response type
type Challenge struct {
	ID        int  `json:"id"`
	Completed bool `json:"completed"`
}

// Settings response type
type Settings struct {
	SoundEnabled bool `json:"soundEnabled"`
	MusicEnabled bool `json:"musicEnabled"`
}

// UserData response type
type UserData struct {
	UserID         string      `json:"userId"`
	PlayerInfo     PlayerInfo  `json:"playerInfo"`
	Assistants     []Assistant `json:"assistants"`
	Challenges     []Challenge `json:"challenges"`
	Settings       Settings    `json:"settings"`
	LastUpdateTime time.Time   `json:"lastUpdateTime"`
}

// SaveResult response type
type SaveResult struct {
	Success        bool      `json:"success"`
	LastUpdateTime time.Time `json:"lastUpdateTime"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printLoginResult(l LoginResult) {
	fmt.Printf("Token: %s\n", l.Token)
	fmt.Printf("Expires in: %s\n", time.Duration(l.ExpiresIn)*time.Second)
}

func (o *Output) printUserData(d UserData) {
	p := d.PlayerInfo
	fmt.Printf("User: %s\n", d.UserID)
	fmt.Printf("Level: %d\n", p.PlayerLevel)
	fmt.Printf("Money: %d\n", p.Money)
	fmt.Printf("Click reward: %d x %.2f\n", p.ClickRewardBase, p.ClickMultiplier)
	fmt.Printf("Upgrade cost: %d\n", p.UpgradeCost)
	fmt.Printf("Training: %d\n", p.TrainingCount)

	fmt.Printf("Assistants (%d):\n", len(d.Assistants))
	for _, a := range d.Assistants {
		state := "locked"
		if a.Unlocked {
			state = fmt.Sprintf("level %d", a.Level)
		}
		fmt.Printf("  - #%d %s\n", a.ID, state)
	}

	done := 0
	for _, c := range d.Challenges {
		if c.Completed {
			done++
		}
	}
	fmt.Printf("Challenges: %d/%d completed\n", done, len(d.Challenges))
	fmt.Printf("Sound: %s, Music: %s\n", onOff(d.Settings.SoundEnabled), onOff(d.Settings.MusicEnabled))
	fmt.Printf("Last update: %s\n", d.LastUpdateTime.Format(time.RFC3339))
}

func (o *Output) printSaveResult(s SaveResult) {
	if s.Success {
		fmt.Printf("Saved at %s\n", s.LastUpdateTime.Format(time.RFC3339))
	} else {
		fmt.Println("Save failed")
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
