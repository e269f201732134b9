package resistor

import "math"

// Digits are the two significant digits and decade multiplier of a value.
type Digits struct {
	First      int
	Second     int
	Multiplier int // Power of ten
}

// Decode extracts the colour-code digits from a standard value.
//
// The first digit is the leading digit of the rounded value. The second digit
// is what is left in the units place after the value has been divided by ten
// until it is below 100; every division bumps the multiplier.
// Values below 100 keep multiplier 0.
func Decode(matched float64) Digits {
	v := int(math.Round(matched))

	first := v
	for first >= 10 {
		first /= 10
	}

	second := v
	multiplier := 0
	for second >= 100 {
		second /= 10
		multiplier++
	}

	return Digits{
		First:      first,
		Second:     second % 10,
		Multiplier: multiplier,
	}
}

// Value reconstructs the resistance encoded by the digits.
func (d Digits) Value() float64 {
	v := float64(d.First*10 + d.Second)
	for range d.Multiplier {
		v *= 10
	}
	return v
}
