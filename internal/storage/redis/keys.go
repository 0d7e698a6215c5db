package redis

import (
	"fmt"

	"github.com/mcoot/clickgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "clickgame"

// playerRecordKey returns the Redis key for a player record
func playerRecordKey(id model.ExternalID) string {
	return fmt.Sprintf("%s:player_record:%s", keyPrefix, id)
}
