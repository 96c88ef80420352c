package console

import (
	"fmt"
	"strings"
	"sync"

	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/save"
)

// Store is the slot storage a session saves to and loads from.
type Store interface {
	engine.Saver
	Load(slot int) (*engine.State, error)
	List() ([]save.Info, error)
}

// TurnObserver is told about every turn a session plays.
type TurnObserver func(g *engine.Game, r engine.TurnReport)

// Session serializes access to one game for every adapter driving it.
type Session struct {
	mu        sync.Mutex
	game      *engine.Game
	store     Store
	opts      engine.Options
	registry  *Registry
	observers []TurnObserver
}

// NewSession wraps g. opts are reused when a slot is loaded; its Saver is
// replaced by store.
func NewSession(g *engine.Game, store Store, opts engine.Options) *Session {
	if store != nil {
		opts.Saver = store
		g.SetSaver(store)
	}
	return &Session{game: g, store: store, opts: opts, registry: DefaultRegistry()}
}

// OnTurn registers an observer. Observers run with the session locked and
// must not call back into it.
func (s *Session) OnTurn(fn TurnObserver) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Registry returns the command set.
func (s *Session) Registry() *Registry { return s.registry }

// View runs fn with the current game while holding the session lock.
func (s *Session) View(fn func(g *engine.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

// Advance plays up to n turns, stopping early when the game ends.
func (s *Session) Advance(n int) []engine.TurnReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advance(n)
}

func (s *Session) advance(n int) []engine.TurnReport {
	var out []engine.TurnReport
	for i := 0; i < n; i++ {
		r := s.game.AdvanceTurn()
		for _, fn := range s.observers {
			fn(s.game, r)
		}
		out = append(out, r)
		if r.GameOver {
			break
		}
	}
	return out
}

// Save writes the game to slot.
func (s *Session) Save(slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(slot)
}

func (s *Session) save(slot int) error {
	if s.store == nil {
		return fmt.Errorf("kayıt deposu yok")
	}
	if err := s.store.Save(slot, s.game.State()); err != nil {
		return err
	}
	s.game.Slot = slot
	return nil
}

// Load replaces the game with the one in slot.
func (s *Session) Load(slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(slot)
}

func (s *Session) load(slot int) error {
	if s.store == nil {
		return fmt.Errorf("kayıt deposu yok")
	}
	st, err := s.store.Load(slot)
	if err != nil {
		return err
	}
	s.game = engine.FromState(st, s.opts)
	return nil
}

// Execute parses and runs one command line. The output includes any
// announcements the command produced.
func (s *Session) Execute(line string) (string, error) {
	words := Tokenise(line)
	if len(words) == 0 {
		return "", nil
	}
	cmd, err := s.registry.Lookup(words[0])
	if err != nil {
		return "", err
	}
	args := words[1:]
	if len(args) < cmd.MinArgs {
		return "", fmt.Errorf("%w: %s", ErrUsage, cmd.Usage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := cmd.Run(s, args)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(out)
	for _, a := range s.game.Drain() {
		writeAnnouncement(&b, a)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeAnnouncement(b *strings.Builder, a engine.Announcement) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
	switch a.Severity {
	case engine.Warning:
		b.WriteString("[!] ")
	case engine.Urgent:
		b.WriteString("[!!] ")
	default:
		b.WriteString("- ")
	}
	b.WriteString(a.Message)
	b.WriteByte('\n')
}

// Resolve answers the pending event with the choice at index.
func (s *Session) Resolve(index int) ([]engine.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.game.ResolveChoice(index); err != nil {
		return nil, err
	}
	return s.game.Drain(), nil
}

// Slots lists the save slots.
func (s *Session) Slots() ([]save.Info, error) {
	if s.store == nil {
		return nil, fmt.Errorf("kayıt deposu yok")
	}
	return s.store.List()
}
