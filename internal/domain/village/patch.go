package village

import (
	"sort"
	"time"
)

type CitizenField string

const (
	FieldDwellingLevel CitizenField = "dwelling_level"
	FieldRank          CitizenField = "rank"
	FieldEnergy        CitizenField = "energy"
	FieldWellVisitedAt CitizenField = "well_visited_at"
)

// CitizenPatch is the closed set of citizen columns callers may update.
type CitizenPatch struct {
	values map[CitizenField]any
}

func (p CitizenPatch) set(f CitizenField, v any) CitizenPatch {
	next := make(map[CitizenField]any, len(p.values)+1)
	for k, old := range p.values {
		next[k] = old
	}
	next[f] = v
	return CitizenPatch{values: next}
}

func (p CitizenPatch) DwellingLevel(level int) CitizenPatch {
	return p.set(FieldDwellingLevel, level)
}

func (p CitizenPatch) Rank(rank int) CitizenPatch {
	return p.set(FieldRank, rank)
}

func (p CitizenPatch) Energy(energy int) CitizenPatch {
	return p.set(FieldEnergy, energy)
}

func (p CitizenPatch) WellVisitedAt(at time.Time) CitizenPatch {
	return p.set(FieldWellVisitedAt, at)
}

func (p CitizenPatch) Empty() bool {
	return len(p.values) == 0
}

func (p CitizenPatch) Fields() []CitizenField {
	out := make([]CitizenField, 0, len(p.values))
	for f := range p.values {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p CitizenPatch) Value(f CitizenField) (any, bool) {
	v, ok := p.values[f]
	return v, ok
}

func (p CitizenPatch) Validate() error {
	if p.Empty() {
		return ErrInvalidPatch
	}
	for f, v := range p.values {
		switch f {
		case FieldDwellingLevel:
			if n := v.(int); n < 0 || n > MaxDwellingLevel {
				return ErrInvalidPatch
			}
		case FieldRank, FieldEnergy:
			if n := v.(int); n < 0 {
				return ErrInvalidPatch
			}
		case FieldWellVisitedAt:
			if t := v.(time.Time); t.IsZero() {
				return ErrInvalidPatch
			}
		default:
			return ErrInvalidPatch
		}
	}
	return nil
}

// Apply copies the patched fields onto c.
func (p CitizenPatch) Apply(c *Citizen) {
	for f, v := range p.values {
		switch f {
		case FieldDwellingLevel:
			c.DwellingLevel = v.(int)
		case FieldRank:
			c.Rank = v.(int)
		case FieldEnergy:
			c.Energy = v.(int)
		case FieldWellVisitedAt:
			at := v.(time.Time)
			c.WellVisitedAt = &at
		}
	}
}
