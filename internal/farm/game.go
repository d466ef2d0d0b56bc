package farm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Rules holds the tunable parameters of a farm.
type Rules struct {
	// WinThreshold is the inventory total that wins the game.
	WinThreshold int
	// SeedChance is the probability that a cell starts with a seedling.
	SeedChance float64
	// EraseClearsAutosave removes the autosave along with an erased slot.
	EraseClearsAutosave bool
}

func DefaultRules() Rules {
	return Rules{
		WinThreshold: 100,
		SeedChance:   0.02,
	}
}

// Publisher delivers encoded events to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Game is one player's farming session. It is not safe for concurrent use.
type Game struct {
	id      string
	history *History
	rules   Rules
	slot    int
	justWon bool

	rng       *rand.Rand
	store     Store
	publisher Publisher
	logger    *slog.Logger
}

type GameOpt func(*Game)

// WithID sets the session identifier used for event subjects and logs.
func WithID(id string) GameOpt {
	return func(g *Game) {
		g.id = id
	}
}

func WithRules(r Rules) GameOpt {
	return func(g *Game) {
		g.rules = r
	}
}

// WithSeed makes every random draw of the game reproducible.
func WithSeed(seed int64) GameOpt {
	return func(g *Game) {
		g.rng = seededRNG(seed)
	}
}

func WithRand(rng *rand.Rand) GameOpt {
	return func(g *Game) {
		g.rng = rng
	}
}

func WithStore(s Store) GameOpt {
	return func(g *Game) {
		g.store = s
	}
}

func WithPublisher(p Publisher) GameOpt {
	return func(g *Game) {
		g.publisher = p
	}
}

func WithLogger(l *slog.Logger) GameOpt {
	return func(g *Game) {
		g.logger = l
	}
}

// New creates a session holding a freshly generated farm. Nothing is saved
// until the first committed action; call Resume to continue an autosave.
func New(opts ...GameOpt) *Game {
	g := &Game{
		rules:  DefaultRules(),
		slot:   1,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.id == "" {
		g.id = uuid.New().String()
	}
	if g.rng == nil {
		g.rng = randomRNG()
	}

	g.history = NewHistory(g.generate())
	return g
}

// generate builds the starting state of a new farm.
func (g *Game) generate() *State {
	s := NewState()
	s.ForEachCell(func(c *Cell) {
		if g.rng.Float64() < g.rules.SeedChance {
			c.Plant = &Plant{Type: randomItem(g.rng, PlantTypes), Growth: GrowthSeedling}
		}
	})
	g.distributeNaturalResources(s)

	for _, t := range PlantTypes {
		s.Inventory.Add(t, 1)
	}
	return s
}

func (g *Game) Id() string {
	return g.id
}

// State returns the live state. Callers must not mutate it.
func (g *Game) State() *State {
	return g.history.Current()
}

func (g *Game) History() *History {
	return g.history
}

func (g *Game) Rules() Rules {
	return g.rules
}

// Slot returns the save slot used when a slot of zero is requested.
func (g *Game) Slot() int {
	return g.slot
}

func (g *Game) SetSlot(slot int) {
	if slot != 0 {
		g.slot = slot
	}
}

// Resume loads the autosave, if there is one.
func (g *Game) Resume(ctx context.Context) (bool, error) {
	return g.Load(ctx, AutosaveSlot)
}

// NewGame replaces the farm with a freshly generated one and forgets all
// history.
func (g *Game) NewGame(ctx context.Context) {
	g.history.Reset(g.generate())
	g.justWon = false
	g.autosave(ctx)
	g.logger.InfoContext(ctx, "new farm", "game", g.id)
}

func (g *Game) Undo(ctx context.Context) error {
	if err := g.history.Undo(); err != nil {
		return err
	}
	g.justWon = false
	g.autosave(ctx)
	return nil
}

func (g *Game) Redo(ctx context.Context) error {
	if err := g.history.Redo(); err != nil {
		return err
	}
	g.justWon = false
	g.autosave(ctx)
	return nil
}

// CanGrow reports whether the plant under the player will grow today.
func (g *Game) CanGrow() bool {
	s := g.State()
	return s.CanGrow(s.PlayerCell())
}

func (g *Game) Won() bool {
	return g.won(g.State())
}

// JustWon reports whether the last committed action crossed the win
// threshold.
func (g *Game) JustWon() bool {
	return g.justWon
}

func (g *Game) won(s *State) bool {
	return s != nil && s.Inventory.Total() >= g.rules.WinThreshold
}

// commit finishes a reversible action: autosave, then detect a win by
// comparing against the state the action started from.
func (g *Game) commit(ctx context.Context) {
	g.autosave(ctx)

	g.justWon = g.won(g.State()) && !g.won(g.history.Previous())
	if g.justWon {
		g.logger.InfoContext(ctx, "farm won", "game", g.id, "day", g.State().Day)
		g.publish(ctx, EventWon)
	}
}

type EventType string

const (
	EventDayAdvanced EventType = "day_advanced"
	EventWon         EventType = "won"
)

// Event is published to the game's subject after notable transitions.
type Event struct {
	Type    EventType `json:"type"`
	Game    string    `json:"game"`
	Day     int       `json:"day"`
	Weather Weather   `json:"weather"`
	Total   int       `json:"total"`
}

// Subject returns the messaging subject a game's events go to.
func Subject(gameId string) string {
	return fmt.Sprintf("farm.%s", gameId)
}

func (g *Game) publish(ctx context.Context, t EventType) {
	if g.publisher == nil {
		return
	}

	s := g.State()
	data, err := json.Marshal(Event{
		Type:    t,
		Game:    g.id,
		Day:     s.Day,
		Weather: s.Weather,
		Total:   s.Inventory.Total(),
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "encoding event", "game", g.id, "error", err)
		return
	}

	if err := g.publisher.Publish(Subject(g.id), data); err != nil {
		g.logger.WarnContext(ctx, "publishing event", "game", g.id, "type", t, "error", err)
	}
}
