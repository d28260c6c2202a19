// Package tabular holds the nullable cell types and flat-file I/O shared by
// the extraction and comparison stages.
package tabular

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Float is a nullable float64. The zero value is null.
type Float struct {
	V     float64
	Valid bool
}

// Some returns a non-null Float. NaN and infinities are stored as null.
func Some(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Float{}
	}
	return Float{V: v, Valid: true}
}

// Null returns a null Float.
func Null() Float { return Float{} }

// String renders the value the way it is written to CSV; null is empty.
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.V, 'f', -1, 64)
}

// MarshalText implements encoding.TextMarshaler.
func (f Float) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input is null.
func (f *Float) UnmarshalText(b []byte) error {
	v, err := ParseFloat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// digitFolder maps Persian and Arabic-Indic digits and separators to ASCII.
var digitFolder = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".", "٬", "",
)

// ParseFloat parses a cell as a nullable float. Blank cells are null;
// anything else that is not a number is an error.
func ParseFloat(s string) (Float, error) {
	s = strings.TrimSpace(digitFolder.Replace(s))
	if s == "" {
		return Null(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null(), eris.Wrapf(err, "tabular: parse float %q", s)
	}
	return Some(v), nil
}

// ParseInt parses a cell as an integer. Blank cells report ok=false.
// Integral floats such as "1399.0" are accepted.
func ParseInt(s string) (v int, ok bool, err error) {
	f, err := ParseFloat(s)
	if err != nil || !f.Valid {
		return 0, false, err
	}
	if f.V != math.Trunc(f.V) {
		return 0, false, eris.Errorf("tabular: %q is not an integer", s)
	}
	return int(f.V), true, nil
}

// ParseBool parses 0/1 and true/false style flags. Blank cells are null.
func ParseBool(s string) (v bool, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, false, eris.Wrapf(err, "tabular: parse bool %q", s)
	}
	return b, true, nil
}

// Bit is a boolean written as 1/0.
type Bit bool

// MarshalText implements encoding.TextMarshaler.
func (b Bit) MarshalText() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Blank input is false.
func (b *Bit) UnmarshalText(text []byte) error {
	v, _, err := ParseBool(string(text))
	if err != nil {
		return err
	}
	*b = Bit(v)
	return nil
}
