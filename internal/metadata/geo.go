package metadata

import (
	"fmt"
	"math"
)

// secondsDenominator keeps sub-second-of-arc precision in the stored seconds
// value without a floating point representation.
const secondsDenominator = 10000

// Rational is an unsigned numerator/denominator pair as stored in EXIF.
type Rational struct {
	Numerator   uint32
	Denominator uint32
}

// DMS is the unsigned degree/minute/second encoding of one coordinate axis.
// Hemisphere carries the sign; EXIF stores it separately as a reference
// letter.
type DMS struct {
	Degrees Rational
	Minutes Rational
	Seconds Rational
}

// EncodeDMS splits a signed decimal-degree value into hemisphere sign and
// rational degree/minute/second triple. Degrees and minutes truncate; only
// the scaled seconds term rounds. Changing that order changes the encoded
// bytes, so keep it.
func EncodeDMS(value float64) (positive bool, dms DMS) {
	positive = value >= 0
	deg := math.Abs(value)
	d := math.Floor(deg)
	minFloat := (deg - d) * 60
	m := math.Floor(minFloat)
	s := math.Round((minFloat - m) * 60 * secondsDenominator)
	return positive, DMS{
		Degrees: Rational{Numerator: uint32(d), Denominator: 1},
		Minutes: Rational{Numerator: uint32(m), Denominator: 1},
		Seconds: Rational{Numerator: uint32(s), Denominator: secondsDenominator},
	}
}

// Decimal reconstructs the unsigned decimal-degree value of a triple.
func (d DMS) Decimal() float64 {
	return float64(d.Degrees.Numerator)/float64(d.Degrees.Denominator) +
		float64(d.Minutes.Numerator)/float64(d.Minutes.Denominator)/60 +
		float64(d.Seconds.Numerator)/float64(d.Seconds.Denominator)/3600
}

// LatitudeRef returns the EXIF hemisphere letter for a latitude sign.
func LatitudeRef(positive bool) string {
	if positive {
		return "N"
	}
	return "S"
}

// LongitudeRef returns the EXIF hemisphere letter for a longitude sign.
func LongitudeRef(positive bool) string {
	if positive {
		return "E"
	}
	return "W"
}

// ISO6709 renders the coordinate in the compact signed form QuickTime stores,
// e.g. "+37.123456-122.654321/".
func (c Coordinate) ISO6709() string {
	return fmt.Sprintf("%+.6f%+.6f/", c.Latitude, c.Longitude)
}
