package resistor

import (
	"errors"
	"math"
)

var (
	// ErrEmptyTable is a configuration error: there is nothing to match against.
	ErrEmptyTable = errors.New("standard value table is empty")
	// ErrUnsortedTable is returned for tables that are not strictly ascending or hold non-positive values.
	ErrUnsortedTable = errors.New("standard value table must be strictly ascending and positive")
	// ErrOutOfRange is returned when a non-finite estimate reaches the matcher.
	ErrOutOfRange = errors.New("value out of range")
)

// Table is an immutable, ascending list of standard resistor values in ohms.
type Table []float64

// E24 holds the E24 values stocked by the instrument, 510 Ω to 100 kΩ.
var E24 = Table{
	510, 560, 620, 680, 750, 820, 910,
	1000, 1100, 1200, 1300, 1500, 1600, 1800, 2000, 2200, 2400, 2700,
	3000, 3300, 3600, 3900, 4300, 4700, 5100, 5600, 6200, 6800, 7500, 8200, 9100,
	10000, 11000, 12000, 13000, 15000, 16000, 18000, 20000, 22000, 24000, 27000,
	30000, 33000, 36000, 39000, 43000, 47000, 51000, 56000, 62000, 68000, 75000,
	82000, 91000, 100000,
}

// Match is the table entry closest to an estimate.
type Match struct {
	Value float64 // Standard value (Ω)
	Index int     // Position in the table
}

// NewTable validates values and returns a private copy as a Table.
func NewTable(values []float64) (Table, error) {
	if len(values) == 0 {
		return nil, ErrEmptyTable
	}
	for i, v := range values {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrUnsortedTable
		}
		if i > 0 && v <= values[i-1] {
			return nil, ErrUnsortedTable
		}
	}
	t := make(Table, len(values))
	copy(t, values)
	return t, nil
}

// Nearest returns the entry with the smallest absolute difference to v.
// The table is scanned in ascending order and the first minimum wins, so on
// a tie the lower value is chosen.
func (t Table) Nearest(v float64) (Match, error) {
	if len(t) == 0 {
		return Match{}, ErrEmptyTable
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Match{}, ErrOutOfRange
	}

	best := Match{Value: t[0], Index: 0}
	bestDiff := math.Abs(v - t[0])
	for i := 1; i < len(t); i++ {
		diff := math.Abs(v - t[i])
		if diff < bestDiff {
			bestDiff = diff
			best = Match{Value: t[i], Index: i}
		}
	}
	return best, nil
}

// Min returns the smallest value in the table.
func (t Table) Min() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[0]
}

// Max returns the largest value in the table.
func (t Table) Max() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1]
}
