package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidInput marks malformed request parameters. Handlers check for
// it with errors.Is to map the failure to a client error instead of a
// server error.
var ErrInvalidInput = errors.New("invalid input")

// Point is an MNI coordinate: a 3-D point in the standard brain
// reference space, in mm.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ParsePoint parses the "x_y_z" path-segment form of a coordinate.
// Anything other than exactly three float components wraps
// ErrInvalidInput.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return Point{}, fmt.Errorf("%w: coordinates %q must have form x_y_z", ErrInvalidInput, s)
	}
	var vals [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return Point{}, fmt.Errorf("%w: coordinate component %q is not a number", ErrInvalidInput, part)
		}
		vals[i] = v
	}
	return Point{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
