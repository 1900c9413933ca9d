// Package battle simulates turn-based battles between two creatures.
//
// A run is synchronous and owns all of its state: two participants, a log and
// a dice.Roller. Creature records and type relations must be fetched before
// Simulate is called.
package battle

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
)

// Defaults applied when a caller leaves level or max turns unset
const (
	DefaultLevel    = 50
	DefaultMaxTurns = 200
)

// MaxLevel is the highest level a battle is scaled to. Larger levels are
// clamped so the stat arithmetic stays well inside int range.
const MaxLevel = 1000

// Dice used for the random draws of a battle
const (
	paralysisDie  = 4    // 1 in 4 paralyzed actions are skipped
	scorchDie     = 20   // 1 in 20 scorch moves burn
	varianceSteps = 1501 // damage variance grid over [0.85, 1.0]
)

// FinishReason tells why the turn loop stopped
type FinishReason string

// Finish reasons
const (
	FinishFainted        FinishReason = "fainted"
	FinishTurnsExhausted FinishReason = "turns_exhausted"
)

// Config holds the dependencies for a Simulator
type Config struct {
	Roller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// Simulator runs battles with the configured roller. A Simulator is safe for
// concurrent use when its roller is.
type Simulator struct {
	roller dice.Roller
}

// NewSimulator creates a new battle simulator
func NewSimulator(cfg *Config) (*Simulator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Simulator{roller: cfg.Roller}, nil
}

// Input describes a single battle
type Input struct {
	P1        *entities.Pokemon
	P2        *entities.Pokemon
	Level     int
	MaxTurns  int
	TypeChart TypeChart
}

// Outcome is the result of a run
type Outcome struct {
	Winner     string
	Turns      int
	Log        []string
	FinalState entities.FinalState
	Reason     FinishReason
}

// RequiredTypes lists the move types whose relations a battle between the
// given records will look up
func RequiredTypes(records ...*entities.Pokemon) []string {
	seen := make(map[string]bool)
	var types []string
	for _, p := range records {
		if p == nil {
			continue
		}
		t := SelectMove(p.Moves).Type
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types
}

// Simulate runs a battle to completion
func (s *Simulator) Simulate(input *Input) (*Outcome, error) {
	if input == nil || input.P1 == nil || input.P2 == nil {
		return nil, errors.InvalidArgument("both participants are required")
	}

	level := input.Level
	if level <= 0 {
		level = DefaultLevel
	}
	level = min(level, MaxLevel)
	maxTurns := input.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	r := &run{
		p1:       newParticipant(input.P1, level),
		p2:       newParticipant(input.P2, level),
		level:    level,
		maxTurns: maxTurns,
		chart:    input.TypeChart,
		roller:   s.roller,
		caser:    cases.Title(language.English),
	}

	return r.execute()
}

// run is the state of one battle. Nothing in it is shared between runs.
type run struct {
	p1, p2   *participant
	level    int
	maxTurns int
	chart    TypeChart
	roller   dice.Roller
	caser    cases.Caser
	log      []string
	turn     int
}

func (r *run) execute() (*Outcome, error) {
	r.logf("Battle start : %s vs %s at level %d.", r.title(r.p1.name), r.title(r.p2.name), r.level)

	reason := FinishTurnsExhausted
	for r.turn = 1; r.turn <= r.maxTurns; r.turn++ {
		done, err := r.playTurn()
		if err != nil {
			return nil, err
		}
		if done {
			reason = FinishFainted
			break
		}
	}

	turns := min(r.turn, r.maxTurns)
	winner := r.winner()
	r.logf("Battle ended after %d turns. Winner: %s", turns, r.title(winner))

	return &Outcome{
		Winner: winner,
		Turns:  turns,
		Log:    r.log,
		FinalState: entities.FinalState{
			P1: entities.ParticipantSnapshot{Name: r.p1.name, HP: r.p1.hp},
			P2: entities.ParticipantSnapshot{Name: r.p2.name, HP: r.p2.hp},
		},
		Reason: reason,
	}, nil
}

// playTurn runs one turn and reports whether a participant fainted
func (r *run) playTurn() (bool, error) {
	r.logf("-- Turn %d --", r.turn)

	m1 := SelectMove(r.p1.moves)
	m2 := SelectMove(r.p2.moves)

	first, firstMove, second, secondMove := r.p1, m1, r.p2, m2
	if r.p2.effectiveSpeed() > r.p1.effectiveSpeed() {
		first, firstMove, second, secondMove = r.p2, m2, r.p1, m1
	}

	if err := r.resolveAttack(first, firstMove, second); err != nil {
		return false, err
	}
	if second.fainted() {
		r.logf("%s fainted!", r.title(second.name))
		return true, nil
	}

	if err := r.resolveAttack(second, secondMove, first); err != nil {
		return false, err
	}
	if first.fainted() {
		r.logf("%s fainted!", r.title(first.name))
		return true, nil
	}

	r.applyStatusDamage(r.p1)
	r.applyStatusDamage(r.p2)

	return r.p1.fainted() || r.p2.fainted(), nil
}

// resolveAttack performs att's move against def
func (r *run) resolveAttack(att *participant, move entities.Move, def *participant) error {
	if att.fainted() {
		return nil
	}

	if att.status == StatusParalysis {
		skip, err := r.oneIn(paralysisDie)
		if err != nil {
			return err
		}
		if skip {
			r.logf("%s is paralyzed and can't move!", r.title(att.name))
			return nil
		}
	}

	attack, defense := attackStats(move, att, def)
	mult := TypeMultiplier(move.Type, def.types, r.chart)
	variance, err := r.variance()
	if err != nil {
		return err
	}

	damage := CalculateDamage(DamageInput{
		Level:          r.level,
		Power:          movePower(move),
		Attack:         attack,
		Defense:        defense,
		STAB:           move.Type != "" && att.hasType(move.Type),
		TypeMultiplier: mult,
		Variance:       variance,
	})
	def.takeDamage(damage)

	effectiveness := effectivenessMessage(mult)
	if effectiveness != "" {
		effectiveness = " " + effectiveness
	}
	r.logf("%s used %s! %s lost %d HP.%s (HP left: %d/%d)",
		r.title(att.name), r.moveTitle(move.Name), r.title(def.name),
		damage, effectiveness, def.hp, def.stats.MaxHP)

	return r.checkBurn(move, def)
}

// checkBurn applies the burn rule: a move whose name contains "burn" always
// burns; one containing "scorch" burns on a 1 in 20 roll. The scorch roll is
// only drawn when the name does not contain "burn". The check runs after every
// attack, including one that knocks the defender out.
func (r *run) checkBurn(move entities.Move, def *participant) error {
	name := strings.ToLower(move.Name)
	burns := strings.Contains(name, "burn")
	if !burns && strings.Contains(name, "scorch") {
		hit, err := r.oneIn(scorchDie)
		if err != nil {
			return err
		}
		burns = hit
	}

	if burns && def.status == StatusNone {
		def.status = StatusBurn
		r.logf("%s was burned!", r.title(def.name))
	}
	return nil
}

// applyStatusDamage deals end-of-turn burn or poison damage
func (r *run) applyStatusDamage(p *participant) {
	if p.fainted() {
		return
	}

	switch p.status {
	case StatusBurn:
		dmg := max(1, p.stats.MaxHP/16)
		p.takeDamage(dmg)
		r.logf("%s is hurt by its burn and lost %d HP! (HP left: %d/%d)",
			r.title(p.name), dmg, p.hp, p.stats.MaxHP)
	case StatusPoison:
		dmg := max(1, p.stats.MaxHP/8)
		p.takeDamage(dmg)
		r.logf("%s is hurt by poison and lost %d HP! (HP left: %d/%d)",
			r.title(p.name), dmg, p.hp, p.stats.MaxHP)
	}
}

// winner decides the outcome once the loop has stopped
func (r *run) winner() string {
	switch {
	case r.p1.hp > 0 && r.p2.hp <= 0:
		return r.p1.name
	case r.p2.hp > 0 && r.p1.hp <= 0:
		return r.p2.name
	case r.p1.hp <= 0 && r.p2.hp <= 0:
		return entities.Draw
	case r.p1.hp > r.p2.hp:
		return r.p1.name
	case r.p2.hp > r.p1.hp:
		return r.p2.name
	default:
		return entities.Draw
	}
}

func (r *run) oneIn(size int) (bool, error) {
	v, err := r.roller.Roll(size)
	if err != nil {
		return false, errors.Wrapf(err, "failed to roll d%d", size)
	}
	return v == 1, nil
}

func (r *run) variance() (float64, error) {
	v, err := r.roller.Roll(varianceSteps)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll damage variance")
	}
	return minVariance + (maxVariance-minVariance)*float64(v-1)/float64(varianceSteps-1), nil
}

func (r *run) logf(format string, args ...any) {
	r.log = append(r.log, fmt.Sprintf(format, args...))
}

func (r *run) title(s string) string {
	return r.caser.String(s)
}

func (r *run) moveTitle(name string) string {
	return r.caser.String(strings.ReplaceAll(name, "-", " "))
}
