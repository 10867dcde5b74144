package network

import "testing"

func TestEvalSignal(t *testing.T) {
	tests := []struct {
		dbm   int
		want  Quality
		label string
	}{
		{-95, Unusable, "Unusable"},
		{-90, Unusable, "Unusable"},
		{-89, NotGood, "Not good"},
		{-80, NotGood, "Not good"},
		{-79, Okay, "Okay"},
		{-70, Okay, "Okay"},
		{-69, VeryGood, "Very Good"},
		{-67, VeryGood, "Very Good"},
		{-65, Amazing, "Amazing"},
		{-30, Amazing, "Amazing"},
	}

	for _, tt := range tests {
		got := EvalSignal(tt.dbm)
		if got != tt.want {
			t.Errorf("EvalSignal(%d) = %v, want %v", tt.dbm, got, tt.want)
		}
		if got.String() != tt.label {
			t.Errorf("EvalSignal(%d).String() = %q, want %q", tt.dbm, got.String(), tt.label)
		}
	}
}

func TestEvalSignal_Monotonic(t *testing.T) {
	previous := EvalSignal(-200)

	for dbm := -199; dbm <= 0; dbm++ {
		q := EvalSignal(dbm)
		if q < previous {
			t.Fatalf("quality dropped from %v to %v at %d dBm", previous, q, dbm)
		}
		previous = q
	}
}
