package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Weight is a non-negative decimal with two fractional digits, stored in hundredths.
type Weight int64

// MaxWeight is the largest weight the exercise_log.weight column accepts (NUMERIC(6,2)).
const MaxWeight Weight = 999999

var (
	errWeightFormat    = errors.New("must be a number")
	errWeightPrecision = errors.New("must have at most 2 decimal places")
)

// ParseWeight parses a plain decimal such as "82.5" or "-3". Exponents and more
// than two fractional digits are rejected.
func ParseWeight(s string) (Weight, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errWeightFormat
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" && (!hasDot || fracPart == "") {
		return 0, errWeightFormat
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return 0, errWeightFormat
	}
	if len(fracPart) > 2 {
		trimmed := strings.TrimRight(fracPart[2:], "0")
		if trimmed != "" {
			return 0, errWeightPrecision
		}
		fracPart = fracPart[:2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	outOfRange := func() error {
		if negative {
			return errors.New("must be at least 0")
		}
		return fmt.Errorf("must be at most %s", MaxWeight)
	}

	// more integer digits than MaxWeight has cannot fit and could overflow int64
	intPart = strings.TrimLeft(intPart, "0")
	if len(intPart) > len(strconv.FormatInt(int64(MaxWeight/100), 10)) {
		return 0, outOfRange()
	}
	var whole int64
	if intPart != "" {
		whole, _ = strconv.ParseInt(intPart, 10, 64)
	}
	frac, _ := strconv.ParseInt(fracPart, 10, 64)

	w := Weight(whole*100 + frac)
	if w > MaxWeight {
		return 0, outOfRange()
	}
	if negative {
		w = -w
	}
	return w, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Kilos returns w as a float, for display and charting only.
func (w Weight) Kilos() float64 {
	return float64(w) / 100
}

func (w Weight) String() string {
	sign := ""
	v := int64(w)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (w Weight) MarshalJSON() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Weight) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := ParseWeight(raw)
	if err != nil {
		return fmt.Errorf("weight %s: %w", raw, err)
	}
	*w = parsed
	return nil
}

// EstimateOneRM returns the Epley one-rep max for the given weight and reps,
// rounded half-to-even at two decimals. A single rep returns the weight itself.
func EstimateOneRM(w Weight, reps int) Weight {
	if reps <= 1 {
		return w
	}

	// w * (1 + reps/30) == w * (30 + reps) / 30, computed on hundredths
	num := int64(w) * int64(30+reps)
	q, r := num/30, num%30
	switch {
	case 2*r > 30:
		q++
	case 2*r == 30 && q%2 != 0:
		q++
	}
	return Weight(q)
}
