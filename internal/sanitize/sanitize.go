// Package sanitize normalizes Farsi and Arabic text so that visually equivalent
// labels from different survey workbooks collapse to the same string.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const zwnj = '\u200c'

// arabicToFarsi maps Arabic-script variants to their Farsi-script forms.
var arabicToFarsi = map[rune]rune{
	'ي': 'ی', // ي -> ی
	'ئ': 'ی', // ئ -> ی
	'ى': 'ی', // ى -> ی
	'أ': 'ا', // أ -> ا
	'إ': 'ا', // إ -> ا
	'ؤ': 'و', // ؤ -> و
	'ك': 'ک', // ك -> ک
	'ۀ': 'ه', // ۀ -> ه
	'ة': 'ه', // ة -> ه
}

// invisible lists zero-width and bidi control characters that carry no text.
var invisible = []rune{
	'\u200b', // zero width space
	'\u00ad', // soft hyphen
	'\u200f', // right-to-left mark
	'\u202b', // right-to-left embedding
	'\u202c', // pop directional formatting
	'\u202a', // left-to-right embedding
	'\ufeff', // byte order mark
}

// unwanted lists punctuation and control characters dropped from labels.
var unwanted = []rune{
	'\n', '\r', '\t',
	'…', 'ـ', '•', '*', '`',
	'"', '\'', '«', '»',
	'.', ',', ';', ':',
}

// headerExtra is removed from header cells on top of Text.
var headerExtra = []rune{'(', ')', '،'}

var (
	textRemove    = runeSet(invisible, unwanted)
	numericRemove = runeSet(invisible, without(unwanted, '.'))
	headerRemove  = runeSet(headerExtra)

	numericRe = regexp.MustCompile(`^[-+]?[0-9۰-۹٠-٩]+(\.[0-9۰-۹٠-٩]+)?([eE][-+]?[0-9]+)?$`)
	dotZeroRe = regexp.MustCompile(`(\.0)+$`)
)

// Text cleans a label: Arabic variants become Farsi, ZWNJ becomes a space,
// invisible and unwanted symbols are deleted, whitespace runs collapse to
// one space, and the result is trimmed. The empty string is a valid result.
func Text(s string) string {
	return clean(s, textRemove)
}

// Numeric cleans a numeric cell. It keeps the decimal point and drops a
// trailing ".0" left behind by integers that went through a float.
func Numeric(s string) string {
	return dotZeroRe.ReplaceAllString(clean(s, numericRemove), "")
}

// Cell cleans a spreadsheet cell of unknown type. Cells that look like
// numbers take the Numeric path so their decimals survive, and exponent
// forms such as "1.23456789012E+11" are written out in full; everything
// else takes the Text path.
func Cell(s string) string {
	n := Numeric(s)
	if !numericRe.MatchString(n) {
		return Text(s)
	}
	if strings.ContainsAny(n, "eE") {
		if v, err := strconv.ParseFloat(n, 64); err == nil {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return n
}

// Header cleans a table header cell. On top of Text it removes all
// whitespace, parentheses and the Arabic comma.
func Header(s string) string {
	s = Text(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || headerRemove.Contains(r) {
			return -1
		}
		return r
	}, s)
}

// Row applies Cell to every value in place and returns the row.
func Row(row []string) []string {
	for i, v := range row {
		row[i] = Cell(v)
	}
	return row
}

func clean(s string, remove runes.Set) string {
	t := transform.Chain(
		runes.Map(mapRune),
		runes.Remove(remove),
	)
	// runes transformers only fail on writer errors, which transform.String cannot produce.
	out, _, _ := transform.String(t, s)
	return strings.Join(strings.Fields(out), " ")
}

func mapRune(r rune) rune {
	if r == zwnj {
		return ' '
	}
	if f, ok := arabicToFarsi[r]; ok {
		return f
	}
	return r
}

type set map[rune]struct{}

func (s set) Contains(r rune) bool {
	_, ok := s[r]
	return ok
}

func runeSet(groups ...[]rune) set {
	s := make(set)
	for _, g := range groups {
		for _, r := range g {
			s[r] = struct{}{}
		}
	}
	return s
}

func without(rs []rune, drop rune) []rune {
	out := make([]rune, 0, len(rs))
	for _, r := range rs {
		if r != drop {
			out = append(out, r)
		}
	}
	return out
}
