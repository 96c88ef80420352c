// Package console turns typed Turkish commands into game actions. Commands
// and their arguments are matched loosely: a prefix or a word within two
// edits of a known name is accepted when it is unambiguous.
package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

var (
	ErrUnknownCommand = errors.New("bilinmeyen komut")
	ErrAmbiguous      = errors.New("belirsiz giriş")
	ErrUsage          = errors.New("eksik veya hatalı argüman")
)

// Handler runs a command against a session.
type Handler func(s *Session, args []string) (string, error)

// Command is one registered verb.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Help    string
	MinArgs int
	Run     Handler
}

// Registry holds the known commands.
type Registry struct {
	commands map[string]Command
	names    []string
	alias    map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		alias:    make(map[string]string),
	}
}

// Register adds c. Names and aliases are folded before storing.
func (r *Registry) Register(c Command) {
	c.Name = Fold(c.Name)
	if c.Name == "" {
		return
	}
	r.commands[c.Name] = c
	r.names = append(r.names, c.Name)
	r.alias[c.Name] = c.Name
	for _, a := range c.Aliases {
		if a = Fold(a); a != "" {
			r.alias[a] = c.Name
		}
	}
}

// Commands returns every command sorted by name.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, n := range r.names {
		out = append(out, r.commands[n])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup resolves a typed word to a command. Several aliases of the same
// command matching equally well are not ambiguous.
func (r *Registry) Lookup(word string) (Command, error) {
	keys := make([]string, 0, len(r.alias))
	for k := range r.alias {
		keys = append(keys, k)
	}
	hits := closest(word, keys)
	seen := make(map[string]bool)
	var names []string
	for _, h := range hits {
		if n := r.alias[h]; !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	switch len(names) {
	case 0:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, word)
	case 1:
		return r.commands[names[0]], nil
	default:
		sort.Strings(names)
		return Command{}, fmt.Errorf("%w: %s (%s)", ErrAmbiguous, word, strings.Join(names, ", "))
	}
}

// Match picks the candidate closest to token: an exact match first, then a
// unique prefix, then the unique nearest word within the edit limit.
// Candidates and token are compared folded.
func Match(token string, candidates []string) (string, error) {
	hits := closest(token, candidates)
	switch len(hits) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrUsage, token)
	case 1:
		return hits[0], nil
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrAmbiguous, token, strings.Join(hits, ", "))
	}
}

// closest returns the best-scoring candidates for token, sorted.
func closest(token string, candidates []string) []string {
	t := Fold(token)
	if t == "" {
		return nil
	}
	var exact, prefix, near []string
	bestDist := -1
	for _, c := range candidates {
		f := Fold(c)
		switch {
		case f == t:
			exact = append(exact, c)
		case len(t) >= 2 && strings.HasPrefix(f, t):
			prefix = append(prefix, c)
		case len(t) >= 3:
			d := levenshtein.ComputeDistance(t, f)
			if d > editLimit(len(f)) {
				continue
			}
			if bestDist < 0 || d < bestDist {
				near, bestDist = nil, d
			}
			if d == bestDist {
				near = append(near, c)
			}
		}
	}
	out := exact
	if len(out) == 0 {
		out = prefix
	}
	if len(out) == 0 {
		out = near
	}
	sort.Strings(out)
	return out
}

func editLimit(length int) int {
	if length <= 4 {
		return 1
	}
	return 2
}

var turkishFold = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u", "â", "a", "î", "i", "û", "u",
	"_", " ", "-", " ",
)

// Fold lowercases s with Turkish casing and strips its diacritics so that
// "Yeniçeri", "yeniceri" and "YENİÇERİ" compare equal.
func Fold(s string) string {
	s = strings.ToLowerSpecial(unicode.TurkishCase, strings.TrimSpace(s))
	return strings.Join(strings.Fields(turkishFold.Replace(s)), " ")
}

// Tokenise splits a command line into words, keeping quoted phrases
// together.
func Tokenise(line string) []string {
	var out []string
	var cur strings.Builder
	quoted := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			if quoted {
				flush()
			}
			quoted = !quoted
		case unicode.IsSpace(r) && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
