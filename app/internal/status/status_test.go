package status

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"up", Up, true},
		{"UP", Up, true},
		{"ok", Up, true},
		{" Down ", Down, true},
		{"degraded", Degraded, true},
		{"", "", false},
		{"exploded", "", false},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Parse(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestWorse(t *testing.T) {
	if got := Worse(Up, Degraded); got != Degraded {
		t.Errorf("Worse(UP, DEGRADED) = %s", got)
	}
	if got := Worse(Down, Degraded); got != Down {
		t.Errorf("Worse(DOWN, DEGRADED) = %s", got)
	}
	if got := Worse(Up, Up); got != Up {
		t.Errorf("Worse(UP, UP) = %s", got)
	}
	// Ties keep the first argument.
	if got := Worse(Degraded, Degraded); got != Degraded {
		t.Errorf("Worse(DEGRADED, DEGRADED) = %s", got)
	}
}

func TestValid(t *testing.T) {
	for _, s := range []Status{Up, Down, Degraded} {
		if !Valid(s) {
			t.Errorf("Valid(%s) = false", s)
		}
	}
	if Valid(Status("up")) {
		t.Error("lowercase label should not be valid")
	}
	if Valid(Status("")) {
		t.Error("empty status should not be valid")
	}
}
