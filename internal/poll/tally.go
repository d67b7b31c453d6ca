package poll

import (
	"cmp"
	"math"
	"slices"
)

// OptionTally is the count and share of one option. Percent is rounded to
// one decimal place.
type OptionTally struct {
	Option  Option
	Count   int
	Percent float64
}

func (t OptionTally) Label() string { return t.Option.Label() }
func (t OptionTally) Emoji() string { return t.Option.Emoji() }

type Tally struct {
	Total   int
	Options []OptionTally
}

// Get returns the tally row for o.
func (t Tally) Get(o Option) OptionTally {
	for _, row := range t.Options {
		if row.Option == o {
			return row
		}
	}
	return OptionTally{Option: o}
}

func computeTally(votes map[int64]Vote) Tally {
	counts := make(map[Option]int, len(Options))
	for _, v := range votes {
		counts[v.Option]++
	}

	t := Tally{Total: len(votes), Options: make([]OptionTally, 0, len(Options))}
	for _, o := range Options {
		row := OptionTally{Option: o, Count: counts[o]}
		if t.Total > 0 {
			row.Percent = roundPercent(float64(row.Count) / float64(t.Total) * 100)
		}
		t.Options = append(t.Options, row)
	}
	return t
}

func roundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}

// Voter is a vote together with the id of the user who cast it.
type Voter struct {
	UserID int64
	Vote
}

// VoterGroup is the list of voters who picked one option.
type VoterGroup struct {
	Option Option
	Voters []Voter
}

func (g VoterGroup) Label() string { return g.Option.Label() }
func (g VoterGroup) Emoji() string { return g.Option.Emoji() }

// groupVoters splits votes by option, each group ordered by vote time.
func groupVoters(votes map[int64]Vote) []VoterGroup {
	byOption := make(map[Option][]Voter, len(Options))
	for userID, v := range votes {
		byOption[v.Option] = append(byOption[v.Option], Voter{UserID: userID, Vote: v})
	}

	groups := make([]VoterGroup, 0, len(Options))
	for _, o := range Options {
		voters := byOption[o]
		slices.SortFunc(voters, func(a, b Voter) int {
			if c := a.CastAt.Compare(b.CastAt); c != 0 {
				return c
			}
			return cmp.Compare(a.UserID, b.UserID)
		})
		groups = append(groups, VoterGroup{Option: o, Voters: voters})
	}
	return groups
}
