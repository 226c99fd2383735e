// Package fuzzy ranks known names against one that was not found, using the
// fzf matching algorithm.
package fuzzy

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var initScheme sync.Once

// Option represents a candidate name
type Option struct {
	Value       string
	Description string
}

// Match is an option that matched a pattern
type Match struct {
	Option
	Score int
}

// Finder represents a fuzzy finder instance
type Finder struct {
	options []Option
}

// New creates an empty fuzzy finder
func New() *Finder {
	initScheme.Do(func() {
		algo.Init("default")
	})

	return &Finder{
		options: make([]Option, 0),
	}
}

// NewFromValues creates a finder holding values without descriptions
func NewFromValues(values []string) *Finder {
	f := New()
	for _, value := range values {
		f.AddOption(value, "")
	}
	return f
}

// AddOption adds an option to the fuzzy finder
func (f *Finder) AddOption(value, description string) {
	f.options = append(f.options, Option{
		Value:       value,
		Description: description,
	})
}

// Match returns the options matching pattern, best first. Ties keep the
// shorter value first and then insertion order.
func (f *Finder) Match(pattern string) []Match {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil
	}

	runes := []rune(pattern)
	slab := util.MakeSlab(100*1024, 2048)

	var matches []Match
	for _, option := range f.options {
		score := -1
		for _, text := range []string{option.Value, option.Description} {
			if text == "" {
				continue
			}
			chars := util.ToChars([]byte(text))
			result, _ := algo.FuzzyMatchV2(false, true, true, &chars, runes, false, slab)
			if result.Start >= 0 && result.Score > score {
				score = result.Score
			}
		}
		if score >= 0 {
			matches = append(matches, Match{Option: option, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return len(matches[i].Value) < len(matches[j].Value)
	})

	return matches
}

// Suggest returns up to limit values that best match pattern
func (f *Finder) Suggest(pattern string, limit int) []string {
	matches := f.Match(pattern)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	values := make([]string, 0, len(matches))
	for _, match := range matches {
		values = append(values, match.Value)
	}
	return values
}
