// Package scheme names the time-integration schemes the sub-integrators
// select between. The choice is made once at configuration time.
package scheme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod indicates an unrecognized integration method string.
var ErrUnknownMethod = errors.New("scheme: unknown method")

// Scheme is the closed set of integration schemes.
type Scheme int

const (
	// RK4 is the classical 4th-order Runge-Kutta scheme.
	RK4 Scheme = iota
	// Euler is a single explicit evaluation.
	Euler
)

// Parse resolves a configuration string into a Scheme.
func Parse(s string) (Scheme, error) {
	switch strings.ToUpper(s) {
	case "RK4":
		return RK4, nil
	case "EULER":
		return Euler, nil
	default:
		return 0, fmt.Errorf("%w: %q (want RK4 or Euler)", ErrUnknownMethod, s)
	}
}

func (s Scheme) String() string {
	switch s {
	case RK4:
		return "RK4"
	case Euler:
		return "Euler"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}
