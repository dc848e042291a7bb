// Package moderation censors forbidden words in relayed text.
// Matching runs on a normalized view of the input (lower-cased, leet-speak
// folded, punctuation stripped) while the replacement is applied to the
// original runes, so spacing and casing around a hit are preserved.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	machine *goahocorasick.Machine
	mask    rune
}

// NewModerator builds the Aho-Corasick automaton over the normalized word list.
func NewModerator(words []string, mask rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if norm := normalize([]rune(w)); len(norm) > 0 {
			patterns = append(patterns, norm)
		}
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: machine, mask: mask}, nil
}

// Censor masks every forbidden word in text and returns the censored text
// together with the normalized words that were found. Text without hits is
// returned unchanged.
//
// A hit only counts when it sits on a word boundary in the original text:
// the runes adjacent to the hit must not be letters. Without that check the
// space-stripped normalized view matches blocked words inside ordinary ones
// ("hell" in "hello") and across word boundaries.
func (m *Moderator) Censor(text string) (string, []string) {
	original := []rune(text)
	normalized, originIdx := normalizeMapped(original)
	if len(normalized) == 0 {
		return text, nil
	}

	hits := m.machine.MultiPatternSearch(normalized, false)
	if len(hits) == 0 {
		return text, nil
	}

	var found []string
	for _, hit := range hits {
		start := hit.Pos
		end := start + len(hit.Word)
		if start < 0 || end > len(originIdx) {
			continue
		}

		startOrig := originIdx[start]
		endOrig := originIdx[end-1]
		if startOrig > 0 && isWordRune(original[startOrig-1]) {
			continue
		}
		if endOrig+1 < len(original) && isWordRune(original[endOrig+1]) {
			continue
		}
		found = append(found, string(hit.Word))

		for i := startOrig; i <= endOrig; i++ {
			original[i] = m.mask
		}
	}
	if len(found) == 0 {
		return text, nil
	}
	return string(original), found
}

// normalizeMapped produces the searchable view of the input plus, for every
// normalized rune, the index of the original rune it came from.
func normalizeMapped(input []rune) ([]rune, []int) {
	norm := make([]rune, 0, len(input))
	idx := make([]int, 0, len(input))
	for i, r := range input {
		folded := foldLeet(r)
		if skippable(folded) {
			continue
		}
		norm = append(norm, unicode.ToLower(folded))
		idx = append(idx, i)
	}
	return norm, idx
}

func normalize(input []rune) []rune {
	norm, _ := normalizeMapped(input)
	return norm
}

// foldLeet maps common leet-speak substitutions back to letters.
func foldLeet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	case '7':
		return 't'
	default:
		return r
	}
}

func skippable(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// isWordRune reports whether r is part of a word once leet folding applies.
func isWordRune(r rune) bool {
	return unicode.IsLetter(foldLeet(r))
}
