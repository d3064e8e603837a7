// Package wallet implements the client-side payment orchestration core:
// the node connect lifecycle, destination classification, the two-phase
// send protocol, receive offers, and event reconciliation.
package wallet

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"

	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

var (
	// whitespaceRegex matches one or more whitespace characters.
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// numberedListRegex matches numbered list prefixes like "1." "2)" "3:"
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)

	// bulletListRegex matches bullet prefixes like "- " "* " "• "
	bulletListRegex = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// GenerateMnemonic creates a new BIP39 mnemonic phrase.
// wordCount must be 12 (128 bits entropy) or 24 (256 bits entropy).
func GenerateMnemonic(wordCount int) (string, error) {
	var bitSize int
	switch wordCount {
	case 12:
		bitSize = 128
	case 24:
		bitSize = 256
	default:
		return "", walleterr.WithDetails(walleterr.ErrInvalidMnemonic,
			map[string]string{"word_count": strconv.Itoa(wordCount)})
	}

	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", err
	}

	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic checks if a mnemonic phrase is valid according to BIP39.
// It verifies word count, word validity, and checksum.
func ValidateMnemonic(mnemonic string) error {
	if mnemonic == "" {
		return walleterr.ErrInvalidMnemonic
	}

	normalized := NormalizeMnemonicInput(mnemonic)

	// Early exit: fast word count check before checksum validation.
	// Only 12 or 24-word phrases are accepted.
	words := strings.Fields(normalized)
	wordCount := len(words)
	if wordCount != 12 && wordCount != 24 {
		return walleterr.WithDetails(walleterr.ErrInvalidMnemonic,
			map[string]string{"word_count": strconv.Itoa(wordCount)})
	}

	if !bip39.IsMnemonicValid(normalized) {
		if hint := FormatTypoSuggestions(DetectTypos(normalized)); hint != "" {
			return walleterr.WithSuggestion(walleterr.ErrInvalidMnemonic, hint)
		}
		return walleterr.ErrInvalidMnemonic
	}

	return nil
}

// NormalizeMnemonicInput cleans and normalizes mnemonic input by:
// - Converting to lowercase
// - Removing numbered list prefixes (1. 2) 3: etc.)
// - Removing bullet prefixes (- * •)
// - Replacing commas with spaces
// - Collapsing whitespace runs to single spaces and trimming
func NormalizeMnemonicInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// IsValidWord checks if a word is in the BIP39 word list.
func IsValidWord(word string) bool {
	word = strings.ToLower(word)
	for _, w := range bip39.GetWordList() {
		if w == word {
			return true
		}
	}
	return false
}

// MaxTypoDistance is the maximum Levenshtein distance to consider a suggestion.
// Words with distance > 2 are considered too different to suggest.
const MaxTypoDistance = 2

// TypoInfo contains information about a detected typo and its suggestion.
type TypoInfo struct {
	// Index is the word position in the mnemonic (0-based).
	Index int
	// Word is the original (possibly misspelled) word.
	Word string
	// Suggestion is the closest BIP39 word, or empty if none found.
	Suggestion string
	// Distance is the Levenshtein distance to the suggestion.
	Distance int
}

// SuggestWord finds the closest BIP39 word to the input using Levenshtein distance.
// Returns empty string if no word is close enough (distance > MaxTypoDistance).
func SuggestWord(input string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string

	for _, word := range bip39.GetWordList() {
		dist := levenshtein.ComputeDistance(input, word)
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
		// Early exit for exact match
		if dist == 0 {
			return word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos scans a mnemonic phrase and returns information about detected
// typos: words outside the BIP39 list, each with its closest suggestion.
func DetectTypos(mnemonic string) []TypoInfo {
	if mnemonic == "" {
		return nil
	}

	normalized := NormalizeMnemonicInput(mnemonic)
	var typos []TypoInfo

	for i, word := range strings.Fields(normalized) {
		if !IsValidWord(word) {
			suggestion := SuggestWord(word)
			distance := 0
			if suggestion != "" {
				distance = levenshtein.ComputeDistance(word, suggestion)
			}
			typos = append(typos, TypoInfo{
				Index:      i,
				Word:       word,
				Suggestion: suggestion,
				Distance:   distance,
			})
		}
	}

	return typos
}

// FormatTypoSuggestions formats typo information into human-readable suggestions.
func FormatTypoSuggestions(typos []TypoInfo) string {
	if len(typos) == 0 {
		return ""
	}

	var b strings.Builder
	for i, typo := range typos {
		if i > 0 {
			b.WriteByte('\n')
		}
		// Word position is 1-indexed for human readability
		b.WriteString("Word ")
		b.WriteString(strconv.Itoa(typo.Index + 1))
		b.WriteString(": '")
		b.WriteString(typo.Word)
		b.WriteByte('\'')
		if typo.Suggestion != "" {
			b.WriteString(" - did you mean '")
			b.WriteString(typo.Suggestion)
			b.WriteString("'?")
		} else {
			b.WriteString(" is not a valid BIP39 word")
		}
	}
	return b.String()
}

