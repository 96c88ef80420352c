// Package workers manages named provincial workers assigned to task slots.
package workers

import (
	"errors"
	"fmt"

	"github.com/talgya/eyalet/internal/ledger"
)

var (
	ErrCapacity    = errors.New("maksimum işçi sayısına ulaşıldı")
	ErrNoWorker    = errors.New("böyle bir işçi yok")
	ErrUnknownType = errors.New("bilinmeyen işçi türü")
	ErrUnknownTask = errors.New("bilinmeyen görev")
)

// Type is a worker's trade.
type Type string

const (
	Farmer     Type = "farmer"
	Miner      Type = "miner"
	Lumberjack Type = "lumberjack"
	Craftsman  Type = "craftsman"
	Merchant   Type = "merchant"
	Envoy      Type = "envoy"
)

// Task is a slot a worker can fill.
type Task string

const (
	Idle         Task = "idle"
	Farming      Task = "farming"
	Mining       Task = "mining"
	Logging      Task = "logging"
	Construction Task = "construction"
	Trading      Task = "trading"
	Diplomacy    Task = "diplomacy"
)

var typeInfo = map[Type]struct {
	name string
	cost int
	task Task
}{
	Farmer:     {"Çiftçi", 100, Farming},
	Miner:      {"Madenci", 150, Mining},
	Lumberjack: {"Oduncu", 120, Logging},
	Craftsman:  {"Usta", 300, Construction},
	Merchant:   {"Tüccar", 250, Trading},
	Envoy:      {"Elçi", 400, Diplomacy},
}

var taskNames = map[Task]string{
	Idle: "Boşta", Farming: "Tarım", Mining: "Madencilik", Logging: "Kereste kesimi",
	Construction: "İnşaat", Trading: "Ticaret", Diplomacy: "Diplomasi",
}

var taskOutput = map[Task]struct {
	resource ledger.Resource
	base     int
}{
	Farming: {ledger.Food, 50},
	Mining:  {ledger.Iron, 30},
	Logging: {ledger.Wood, 40},
}

var names = []string{
	"Ahmet", "Mehmet", "Mustafa", "Ali", "Hüseyin", "Hasan", "Osman", "Yusuf", "İbrahim", "Mahmut",
	"Süleyman", "Halil", "Recep", "Kemal", "Cemal", "Davud", "Ömer", "Bayezid", "Murad", "Selim",
}

// Name returns the Turkish name of a worker type.
func (t Type) Name() string { return typeInfo[t].name }

// Name returns the Turkish name of a task.
func (t Task) Name() string { return taskNames[t] }

// HireCost is the gold cost of hiring t.
func HireCost(t Type) int { return typeInfo[t].cost }

// ParseType accepts a type key or its Turkish name.
func ParseType(s string) (Type, bool) {
	for t, info := range typeInfo {
		if string(t) == s || info.name == s {
			return t, true
		}
	}
	return "", false
}

// ParseTask accepts a task key or its Turkish name.
func ParseTask(s string) (Task, bool) {
	for t, n := range taskNames {
		if string(t) == s || n == s {
			return t, true
		}
	}
	return "", false
}

// Worker is one named agent.
type Worker struct {
	Name        string  `json:"name"`
	Type        Type    `json:"type"`
	Skill       int     `json:"skill"`
	Task        Task    `json:"task"`
	Efficiency  float64 `json:"efficiency"`
	TurnsOnTask int     `json:"turns"`
	Experience  int     `json:"experience"`
}

// fit halves the output of a worker outside their own trade.
func (w *Worker) fit() float64 {
	if typeInfo[w.Type].task == w.Task {
		return 1
	}
	return 0.5
}

// Production is the worker's per-turn output of their task's resource.
func (w *Worker) Production() int {
	out, ok := taskOutput[w.Task]
	if !ok {
		return 0
	}
	return int(float64(out.base*w.Skill) * w.Efficiency * (1 + float64(w.Experience)/400) * w.fit())
}

// Bonuses are the non-resource contributions of the workforce.
type Bonuses struct {
	ConstructionSpeed float64
	Trade             float64
	Diplomacy         float64
}

func (w *Worker) addBonus(b *Bonuses) {
	s := float64(w.Skill) * w.fit()
	switch w.Task {
	case Construction:
		b.ConstructionSpeed += 0.1 * s
	case Trading:
		b.Trade += 0.05 * s
	case Diplomacy:
		b.Diplomacy += 0.03 * s
	}
}

// Result summarizes a workforce turn.
type Result struct {
	Production ledger.Amounts
	Bonuses    Bonuses
	Promoted   []string
}

// Workers is the workforce subsystem.
type Workers struct {
	Workers    []*Worker `json:"workers"`
	MaxWorkers int       `json:"max_workers"`
	NameIndex  int       `json:"name_index"`
}

// New returns the starting workforce: four farmers, two miners, two
// lumberjacks, a craftsman and a merchant.
func New() *Workers {
	w := &Workers{MaxWorkers: 10}
	for _, t := range []Type{Farmer, Farmer, Farmer, Farmer, Miner, Miner, Lumberjack, Lumberjack, Craftsman, Merchant} {
		w.add(t)
	}
	return w
}

func (ws *Workers) add(t Type) *Worker {
	w := &Worker{
		Name:       names[ws.NameIndex%len(names)],
		Type:       t,
		Skill:      1,
		Task:       typeInfo[t].task,
		Efficiency: 1,
	}
	ws.NameIndex++
	ws.Workers = append(ws.Workers, w)
	return w
}

// UpdateCapacity sets the worker cap from population: one per thousand,
// between 10 and 100.
func (ws *Workers) UpdateCapacity(population int) {
	ws.MaxWorkers = max(10, min(100, population/1000))
}

// Hire recruits a worker of type t, charging the hire cost.
func (ws *Workers) Hire(t Type, l *ledger.Ledger) (*Worker, error) {
	info, ok := typeInfo[t]
	if !ok {
		return nil, ErrUnknownType
	}
	if len(ws.Workers) >= ws.MaxWorkers {
		return nil, ErrCapacity
	}
	if err := l.Spend(ledger.Amounts{ledger.Gold: info.cost}); err != nil {
		return nil, fmt.Errorf("işçi: %w", err)
	}
	return ws.add(t), nil
}

// Assign moves worker i to task, resetting their time on task.
func (ws *Workers) Assign(i int, task Task) error {
	if i < 0 || i >= len(ws.Workers) {
		return ErrNoWorker
	}
	if _, ok := taskNames[task]; !ok {
		return ErrUnknownTask
	}
	w := ws.Workers[i]
	w.Task = task
	w.TurnsOnTask = 0
	w.Efficiency = 1
	return nil
}

// Fire dismisses worker i.
func (ws *Workers) Fire(i int) (*Worker, error) {
	if i < 0 || i >= len(ws.Workers) {
		return nil, ErrNoWorker
	}
	w := ws.Workers[i]
	ws.Workers = append(ws.Workers[:i], ws.Workers[i+1:]...)
	return w, nil
}

// CurrentBonuses sums bonuses without advancing the turn.
func (ws *Workers) CurrentBonuses() Bonuses {
	var b Bonuses
	for _, w := range ws.Workers {
		w.addBonus(&b)
	}
	return b
}

// ProcessTurn accrues experience, promotes skills, and totals production.
func (ws *Workers) ProcessTurn() Result {
	var r Result
	for _, w := range ws.Workers {
		w.TurnsOnTask++
		if w.TurnsOnTask > 5 {
			w.Efficiency = min(1.5, 1+float64(w.TurnsOnTask-5)*0.05)
		}
		if w.Task != Idle && w.Experience < 100 {
			before := w.Experience / 20
			w.Experience++
			if w.Experience/20 > before && w.Experience < 100 && w.Skill < 5 {
				w.Skill++
				r.Promoted = append(r.Promoted, w.Name)
			}
		}
		if out, ok := taskOutput[w.Task]; ok {
			r.Production[out.resource] += w.Production()
		}
		w.addBonus(&r.Bonuses)
	}
	return r
}

// Count returns the number of workers on task.
func (ws *Workers) Count(task Task) int {
	n := 0
	for _, w := range ws.Workers {
		if w.Task == task {
			n++
		}
	}
	return n
}

// Sanitize drops workers with unknown types or tasks and clamps skills.
func (ws *Workers) Sanitize() {
	kept := ws.Workers[:0]
	for _, w := range ws.Workers {
		if w == nil {
			continue
		}
		if _, ok := typeInfo[w.Type]; !ok {
			continue
		}
		if _, ok := taskNames[w.Task]; !ok {
			w.Task = Idle
		}
		w.Skill = max(1, min(5, w.Skill))
		w.Experience = max(0, min(100, w.Experience))
		if w.Efficiency < 1 || w.Efficiency > 1.5 {
			w.Efficiency = 1
		}
		kept = append(kept, w)
	}
	ws.Workers = kept
	if ws.MaxWorkers < 10 {
		ws.MaxWorkers = 10
	}
}
