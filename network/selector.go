package network

// SelectBest picks the known network with the strongest signal in scan.
//
// Each scan entry is matched against the first known network with an equal
// SSID. A later entry only replaces the current best when its signal is
// strictly greater, so ties go to the entry scanned first. It returns nil
// when nothing in scan is known.
func SelectBest(known []KnownNetwork, scan []*Wifi) *Candidate {
	var best *Candidate
	bestSignal := floorSignal

	for _, wifi := range scan {
		if wifi == nil {
			continue
		}

		index := indexOfSsid(known, wifi.Ssid)
		if index < 0 {
			continue
		}

		if wifi.Signal > bestSignal {
			best = &Candidate{
				Ssid:   known[index].Ssid,
				Psk:    known[index].Psk,
				Signal: wifi.Signal,

				Encryption: wifi.Encryption,
			}
			bestSignal = wifi.Signal
		}
	}

	return best
}

func indexOfSsid(known []KnownNetwork, ssid string) int {
	for i, k := range known {
		if k.Ssid == ssid {
			return i
		}
	}

	return -1
}
