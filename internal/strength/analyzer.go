// Package strength scores passwords on the 0-4 scale used across the app and
// produces indicator/suggestion output for the UI. All functions are pure and
// total over any string input.
package strength

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/vrushal09/passnext/internal/model"
)

// Charset sizes accumulated per present character class.
const (
	lowerSize  = 26
	upperSize  = 26
	digitSize  = 10
	symbolSize = 32
)

// Score thresholds on estimated log10(guesses).
const (
	threshWeak   = 3  // below: very-weak
	threshFair   = 6  // below: weak
	threshGood   = 8  // below: fair
	threshStrong = 10 // below: good, at or above: strong
)

// minContextLen is the shortest context token that counts against a password.
const minContextLen = 3

var indicatorTable = [5]struct {
	level model.StrengthLevel
	color string
}{
	{model.LevelVeryWeak, "#D32F2F"},
	{model.LevelWeak, "#F57C00"},
	{model.LevelFair, "#FBC02D"},
	{model.LevelGood, "#7CB342"},
	{model.LevelStrong, "#388E3C"},
}

// keyboardRows cover adjacent-key runs; matched forward and reversed.
var keyboardRows = []string{
	"`1234567890-=",
	"qwertyuiop[]",
	"asdfghjkl;'",
	"zxcvbnm,./",
	"abcdefghijklmnopqrstuvwxyz",
}

// commonSequences are the short fragments flagged by the suggestion rules.
var commonSequences = []string{"123", "abc", "qwe", "asd", "zxc"}

// Analyze estimates guessability of password given context tokens (service
// name, account name) that must be treated as known to an attacker.
func Analyze(password string, context []string) model.StrengthResult {
	score, warning := score(password, context)
	return model.StrengthResult{
		Score:       score,
		Warning:     warning,
		Suggestions: Suggestions(password, context),
		EntropyBits: EntropyBits(password),
	}
}

// Indicator maps the score to the fixed five-level presentation table.
func Indicator(password string, context []string) model.StrengthIndicator {
	s, _ := score(password, context)
	return model.StrengthIndicator{
		Score:      s,
		Level:      indicatorTable[s].level,
		Color:      indicatorTable[s].color,
		Percentage: s * 20,
	}
}

// MeetsMinimum reports the boolean policy gate: length >= 8 and all four
// character classes present. Independent of the probabilistic score.
func MeetsMinimum(password string) model.MinimumCheck {
	c := detectClasses(password)
	req := model.Requirements{
		Length:    len([]rune(password)) >= 8,
		Uppercase: c.upper,
		Lowercase: c.lower,
		Numbers:   c.digit,
		Symbols:   c.symbol,
	}
	meets := req.Length && req.Uppercase && req.Lowercase && req.Numbers && req.Symbols
	return model.MinimumCheck{Meets: meets, Requirements: req}
}

// EntropyBits returns log2(charsetSize^length). This is a coarse upper bound
// that deliberately ignores patterns; it may disagree with the 0-4 score and
// both are exposed.
func EntropyBits(password string) float64 {
	n := len([]rune(password))
	if n == 0 {
		return 0
	}
	size := detectClasses(password).charsetSize()
	if size == 0 {
		return 0
	}
	return float64(n) * math.Log2(float64(size))
}

// Suggestions returns a deduplicated, ordered improvement list: model-derived
// hints first, then the deterministic rule checks.
func Suggestions(password string, context []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	lower := strings.ToLower(password)
	if _, ok := commonPasswordRank[lower]; ok {
		add("avoid commonly used passwords")
	}
	if tok := matchedContextToken(lower, context); tok != "" {
		add("avoid using the service or account name")
	}

	n := len([]rune(password))
	if n < 8 {
		add("use at least 8 characters")
	}
	if n < 12 {
		add("use 12+ characters for better security")
	}
	c := detectClasses(password)
	if !c.upper {
		add("add uppercase letters")
	}
	if !c.lower {
		add("add lowercase letters")
	}
	if !c.digit {
		add("add numbers")
	}
	if !c.symbol {
		add("add symbols")
	}
	if longestRepeatRun(password) >= 3 {
		add("avoid repeating characters")
	}
	for _, seq := range commonSequences {
		if strings.Contains(lower, seq) {
			add("avoid common sequences")
			break
		}
	}
	return out
}

// score estimates log10(guesses) and maps it onto 0..4. Penalties only ever
// lower the estimate, so adding context tokens can never raise a score.
func score(password string, context []string) (int, string) {
	if password == "" {
		return 0, "empty password"
	}

	lower := strings.ToLower(password)
	n := float64(len([]rune(password)))
	size := detectClasses(password).charsetSize()
	log10Guesses := n * math.Log10(float64(size))
	warning := ""

	if rank, ok := commonPasswordRank[lower]; ok {
		log10Guesses = math.Min(log10Guesses, math.Log10(float64(rank)+1))
		warning = "this is a commonly used password"
	}

	if tok := matchedContextToken(lower, context); tok != "" {
		if lower == tok {
			// a known token costs an attacker a handful of guesses
			log10Guesses = math.Min(log10Guesses, 1)
		} else {
			log10Guesses -= float64(len(tok)) * math.Log10(lowerSize)
		}
		if warning == "" {
			warning = "contains the service or account name"
		}
	}

	if excess := repeatExcess(password); excess > 0 {
		log10Guesses -= float64(excess) * math.Log10(float64(size))
		if warning == "" {
			warning = fmt.Sprintf("repeated characters add little (%d redundant)", excess)
		}
	}

	if runLen := longestKeyboardRun(lower); runLen >= 4 {
		// a keyboard walk is close to one guess per starting key
		log10Guesses -= float64(runLen-1) * math.Log10(lowerSize) * 0.5
		if warning == "" {
			warning = "contains a keyboard sequence"
		}
	}

	if containsDatePattern(password) {
		log10Guesses -= 3
		if warning == "" {
			warning = "dates are easy to guess"
		}
	}

	if log10Guesses < 0 {
		log10Guesses = 0
	}

	switch {
	case log10Guesses < threshWeak:
		return 0, warning
	case log10Guesses < threshFair:
		return 1, warning
	case log10Guesses < threshGood:
		return 2, warning
	case log10Guesses < threshStrong:
		return 3, warning
	default:
		return 4, warning
	}
}

type classSet struct {
	lower, upper, digit, symbol bool
}

func (c classSet) charsetSize() int {
	size := 0
	if c.lower {
		size += lowerSize
	}
	if c.upper {
		size += upperSize
	}
	if c.digit {
		size += digitSize
	}
	if c.symbol {
		size += symbolSize
	}
	return size
}

func detectClasses(password string) classSet {
	var c classSet
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsDigit(r):
			c.digit = true
		default:
			c.symbol = true
		}
	}
	return c
}

// matchedContextToken returns the longest context token (>= minContextLen)
// contained in the lowercased password, or "".
func matchedContextToken(lowerPassword string, context []string) string {
	best := ""
	for _, tok := range context {
		t := strings.ToLower(strings.TrimSpace(tok))
		if len(t) < minContextLen {
			continue
		}
		if strings.Contains(lowerPassword, t) && len(t) > len(best) {
			best = t
		}
	}
	return best
}

// longestRepeatRun returns the length of the longest run of one character.
func longestRepeatRun(password string) int {
	runes := []rune(password)
	longest, run := 0, 0
	for i := range runes {
		if i > 0 && runes[i] == runes[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// repeatExcess counts characters beyond the first in every run of length >= 3.
func repeatExcess(password string) int {
	runes := []rune(password)
	excess, run := 0, 1
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && runes[i] == runes[i-1] {
			run++
			continue
		}
		if run >= 3 {
			excess += run - 1
		}
		run = 1
	}
	return excess
}

// longestKeyboardRun finds the longest substring of the password that is a
// contiguous run (either direction) on a keyboard row.
func longestKeyboardRun(lowerPassword string) int {
	longest := 0
	for _, row := range keyboardRows {
		rows := []string{row, reverse(row)}
		for _, r := range rows {
			for i := 0; i < len(r); i++ {
				for j := i + 4; j <= len(r); j++ {
					if strings.Contains(lowerPassword, r[i:j]) && j-i > longest {
						longest = j - i
					}
				}
			}
		}
	}
	return longest
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// containsDatePattern reports 4-digit years and dd?mm?yyyy-style fragments.
func containsDatePattern(password string) bool {
	digits := 0
	for i := 0; i < len(password); i++ {
		if password[i] >= '0' && password[i] <= '9' {
			digits++
			if digits == 4 {
				if year(password[i-3 : i+1]) {
					return true
				}
			}
			if digits >= 6 {
				return true
			}
		} else if password[i] != '/' && password[i] != '-' && password[i] != '.' {
			digits = 0
		}
	}
	return false
}

func year(s string) bool {
	return strings.HasPrefix(s, "19") || strings.HasPrefix(s, "20")
}
