package network

import (
	"math/rand"
	"testing"
)

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name  string
		known []KnownNetwork
		scan  []*Wifi
		want  *Candidate
	}{
		{
			name:  "single known network in range",
			known: []KnownNetwork{{Ssid: "Home", Psk: "pw1"}},
			scan:  []*Wifi{{Ssid: "Home", Signal: -65}},
			want:  &Candidate{Ssid: "Home", Psk: "pw1", Signal: -65},
		},
		{
			name:  "only unknown networks in range",
			known: []KnownNetwork{{Ssid: "Home", Psk: "pw1"}},
			scan:  []*Wifi{{Ssid: "Other", Signal: -40}},
			want:  nil,
		},
		{
			name:  "higher signal wins",
			known: []KnownNetwork{{Ssid: "A", Psk: "p"}, {Ssid: "B", Psk: "q"}},
			scan:  []*Wifi{{Ssid: "A", Signal: -80}, {Ssid: "B", Signal: -60}},
			want:  &Candidate{Ssid: "B", Psk: "q", Signal: -60},
		},
		{
			name:  "empty scan",
			known: []KnownNetwork{{Ssid: "A", Psk: "p"}},
			scan:  nil,
			want:  nil,
		},
		{
			name:  "no known networks",
			known: nil,
			scan:  []*Wifi{{Ssid: "A", Signal: -30}},
			want:  nil,
		},
		{
			name:  "equal signals keep the first scanned entry",
			known: []KnownNetwork{{Ssid: "A", Psk: "p"}, {Ssid: "B", Psk: "q"}},
			scan:  []*Wifi{{Ssid: "B", Signal: -70}, {Ssid: "A", Signal: -70}},
			want:  &Candidate{Ssid: "B", Psk: "q", Signal: -70},
		},
		{
			name:  "duplicate known names use the first registered credential",
			known: []KnownNetwork{{Ssid: "A", Psk: "first"}, {Ssid: "A", Psk: "second"}},
			scan:  []*Wifi{{Ssid: "A", Signal: -50}},
			want:  &Candidate{Ssid: "A", Psk: "first", Signal: -50},
		},
		{
			name:  "signal at the floor is never selected",
			known: []KnownNetwork{{Ssid: "A", Psk: "p"}},
			scan:  []*Wifi{{Ssid: "A", Signal: -127}},
			want:  nil,
		},
		{
			name:  "numeric names do not influence selection",
			known: []KnownNetwork{{Ssid: "100", Psk: "p"}, {Ssid: "5", Psk: "q"}},
			scan:  []*Wifi{{Ssid: "100", Signal: -80}, {Ssid: "5", Signal: -50}},
			want:  &Candidate{Ssid: "5", Psk: "q", Signal: -50},
		},
		{
			name:  "nil entries are skipped",
			known: []KnownNetwork{{Ssid: "A", Psk: "p"}},
			scan:  []*Wifi{nil, {Ssid: "A", Signal: -60}},
			want:  &Candidate{Ssid: "A", Psk: "p", Signal: -60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectBest(tt.known, tt.scan)

			if tt.want == nil {
				if got != nil {
					t.Fatalf("Expected no candidate, got %+v", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Expected candidate %+v, got none", tt.want)
			}

			if *got != *tt.want {
				t.Errorf("Expected candidate %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSelectBest_Properties(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	rng := rand.New(rand.NewSource(1))

	for round := 0; round < 500; round++ {
		var known []KnownNetwork
		for _, name := range names[:rng.Intn(len(names))] {
			known = append(known, KnownNetwork{Ssid: name, Psk: "psk-" + name})
		}

		var scan []*Wifi
		for i := 0; i < rng.Intn(8); i++ {
			scan = append(scan, &Wifi{
				Ssid:   names[rng.Intn(len(names))],
				Signal: -30 - rng.Intn(80),
			})
		}

		got := SelectBest(known, scan)

		bestIndex := -1
		for i, wifi := range scan {
			if indexOfSsid(known, wifi.Ssid) < 0 {
				continue
			}
			if bestIndex < 0 || wifi.Signal > scan[bestIndex].Signal {
				bestIndex = i
			}
		}

		if bestIndex < 0 {
			if got != nil {
				t.Fatalf("round %d: expected no candidate, got %+v", round, got)
			}
			continue
		}

		if got == nil {
			t.Fatalf("round %d: expected a candidate, got none", round)
		}

		if got.Ssid != scan[bestIndex].Ssid || got.Signal != scan[bestIndex].Signal {
			t.Fatalf("round %d: expected %v at %d dBm, got %v at %d dBm",
				round, scan[bestIndex].Ssid, scan[bestIndex].Signal, got.Ssid, got.Signal)
		}

		if got.Psk != "psk-"+got.Ssid {
			t.Fatalf("round %d: expected credential of %v, got %v", round, got.Ssid, got.Psk)
		}
	}
}
