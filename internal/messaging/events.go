package messaging

import (
	"encoding/json"
	"log/slog"

	"github.com/pixil98/go-farm/internal/farm"
)

// Subscriber is the subscribe side of a message bus.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// SubscribeGame delivers decoded events for one game. Undecodable messages
// are logged and dropped.
func SubscribeGame(sub Subscriber, gameId string, handler func(farm.Event)) (func(), error) {
	return sub.Subscribe(farm.Subject(gameId), func(data []byte) {
		var ev farm.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Warn("dropping malformed farm event", "game", gameId, "error", err)
			return
		}
		handler(ev)
	})
}
