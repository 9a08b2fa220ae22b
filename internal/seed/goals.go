package seed

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"finpocket/internal/core"
	"finpocket/internal/ledger"
)

// GoalsFile is the layout of goals.yaml.
type GoalsFile struct {
	Goals []GoalRecord `yaml:"goals"`
}

// GoalRecord holds amounts as strings so the file can use thousands
// separators ("100,000").
type GoalRecord struct {
	ID      string `yaml:"id,omitempty"`
	Title   string `yaml:"title"`
	Current string `yaml:"current,omitempty"`
	Target  string `yaml:"target"`
	Icon    string `yaml:"icon,omitempty"`
	Color   string `yaml:"color,omitempty"`
}

// ParseGoalsYAML decodes goals from r. Any invalid record fails the whole
// file, since goals carry balances that should not silently disappear. A
// repeated id counts as invalid.
func ParseGoalsYAML(r io.Reader, newID func() string) ([]core.Goal, error) {
	var f GoalsFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return []core.Goal{}, nil
		}
		return nil, fmt.Errorf("parsing goals: %w", err)
	}

	out := make([]core.Goal, 0, len(f.Goals))
	seen := make(map[string]struct{}, len(f.Goals))
	for i, rec := range f.Goals {
		g, err := rec.toGoal(i, newID)
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", i+1, err)
		}
		if _, dup := seen[g.ID]; dup {
			return nil, fmt.Errorf("goal %d: duplicate id %q", i+1, g.ID)
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	return out, nil
}

func (rec GoalRecord) toGoal(seq int, newID func() string) (core.Goal, error) {
	target, err := core.ParseAmount(rec.Target)
	if err != nil {
		return core.Goal{}, core.Invalid("target", err)
	}

	id := strings.TrimSpace(rec.ID)
	if id == "" {
		id = newID()
	}
	g, err := ledger.NewGoal(core.GoalDraft{
		Title:        rec.Title,
		TargetAmount: target,
		Icon:         rec.Icon,
		Color:        rec.Color,
	}, id, seq)
	if err != nil {
		return core.Goal{}, err
	}

	current := strings.TrimSpace(rec.Current)
	if current != "" && current != "0" {
		amount, err := core.ParseAmount(current)
		if err != nil {
			return core.Goal{}, core.Invalid("current", err)
		}
		if g, err = ledger.ApplyContribution(g, amount); err != nil {
			return core.Goal{}, err
		}
	}
	return g, nil
}

// WriteGoalsYAML encodes goals in the goals.yaml layout.
func WriteGoalsYAML(w io.Writer, goals []core.Goal) error {
	f := GoalsFile{Goals: make([]GoalRecord, 0, len(goals))}
	for _, g := range goals {
		f.Goals = append(f.Goals, GoalRecord{
			ID:      g.ID,
			Title:   g.Title,
			Current: formatAmount(g.CurrentAmount),
			Target:  formatAmount(g.TargetAmount),
			Icon:    g.Icon,
			Color:   g.Color,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding goals: %w", err)
	}
	return enc.Close()
}
