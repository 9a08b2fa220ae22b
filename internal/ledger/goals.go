package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"finpocket/internal/core"
)

// Palettes for goals created without an explicit icon or color. A new goal
// takes the entry at its creation sequence, wrapping around.
var (
	GoalIcons  = []string{"star", "trophy", "diamond", "rocket", "gift"}
	GoalColors = []string{"#3498db", "#e74c3c", "#2ecc71", "#f39c12", "#9b59b6"}
)

// oneUnit is the smallest target used as a divisor, so a goal with a zero
// target reports progress against one baht instead of dividing by zero.
var oneUnit = core.Money{Cents: 100}

type Progress struct {
	// Percentage is exact, in [0, 100].
	Percentage decimal.Decimal
	Remaining  core.Money
}

// Rounded is the whole-number percentage for display (half-up).
func (p Progress) Rounded() int64 {
	return p.Percentage.Round(0).IntPart()
}

// OneDecimal renders the percentage with one decimal, e.g. "46.3".
func (p Progress) OneDecimal() string {
	return p.Percentage.StringFixed(1)
}

// Reached reports whether the goal has been fully funded.
func (p Progress) Reached() bool {
	return p.Percentage.Equal(hundred)
}

func GoalProgress(g core.Goal) Progress {
	target := g.TargetAmount
	if target.Cents < oneUnit.Cents {
		target = oneUnit
	}

	pct := decimal.NewFromInt(g.CurrentAmount.Cents).
		Div(decimal.NewFromInt(target.Cents)).
		Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	if pct.IsNegative() {
		pct = decimal.Zero
	}

	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.Cents < 0 {
		remaining = core.Money{}
	}
	return Progress{Percentage: pct, Remaining: remaining}
}

// ApplyContribution returns a copy of g with amount added to the current
// amount. Over-funding is allowed; progress saturates at 100%. The saved
// total may not exceed core.MaxAmount.
func ApplyContribution(g core.Goal, amount core.Money) (core.Goal, error) {
	if err := amount.Validate(); err != nil {
		return g, core.Invalid("amount", err)
	}
	if g.CurrentAmount.Cents > core.MaxAmount.Cents-amount.Cents {
		return g, core.Invalid("amount", core.ErrInvalidAmount)
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	return g, nil
}

// NewGoal validates d and builds a goal with a zero current amount. seq is
// the number of goals created before this one and picks the default icon
// and color.
func NewGoal(d core.GoalDraft, id string, seq int) (core.Goal, error) {
	if err := d.Validate(); err != nil {
		return core.Goal{}, err
	}
	if seq < 0 {
		seq = 0
	}
	g := core.Goal{
		ID:           id,
		Title:        strings.TrimSpace(d.Title),
		TargetAmount: d.TargetAmount,
		Icon:         strings.TrimSpace(d.Icon),
		Color:        strings.TrimSpace(d.Color),
	}
	if g.Icon == "" {
		g.Icon = GoalIcons[seq%len(GoalIcons)]
	}
	if g.Color == "" {
		g.Color = GoalColors[seq%len(GoalColors)]
	}
	return g, nil
}
