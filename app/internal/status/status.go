package status

import "strings"

// Status is the health state of a monitor at a point in time.
type Status string

const (
	Up       Status = "UP"
	Down     Status = "DOWN"
	Degraded Status = "DEGRADED"
)

// Parse normalizes a status label. Unknown labels return ok=false.
func Parse(s string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP", "OK":
		return Up, true
	case "DOWN":
		return Down, true
	case "DEGRADED":
		return Degraded, true
	}
	return "", false
}

// Severity orders statuses for impact resolution: DOWN > DEGRADED > UP.
func Severity(s Status) int {
	switch s {
	case Down:
		return 2
	case Degraded:
		return 1
	default:
		return 0
	}
}

// Worse returns the higher-severity of two statuses.
func Worse(a, b Status) Status {
	if Severity(b) > Severity(a) {
		return b
	}
	return a
}

// Valid reports whether s is one of the canonical values.
func Valid(s Status) bool {
	return s == Up || s == Down || s == Degraded
}
