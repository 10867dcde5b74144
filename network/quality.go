package network

// Quality is a human readable grade of a signal level.
type Quality int

const (
	Unusable Quality = iota
	NotGood
	Okay
	VeryGood
	Amazing
)

// Inclusive upper bounds in dBm for each grade below Amazing.
const (
	unusableSignal = -90
	notGoodSignal  = -80
	okaySignal     = -70
	veryGoodSignal = -67
)

// floorSignal is the weakest level a radio reports.
const floorSignal = -127

func (q Quality) String() string {
	switch q {
	case Unusable:
		return "Unusable"
	case NotGood:
		return "Not good"
	case Okay:
		return "Okay"
	case VeryGood:
		return "Very Good"
	case Amazing:
		return "Amazing"
	default:
		return "Unknown"
	}
}

// EvalSignal grades a signal level given in dBm.
func EvalSignal(dbm int) Quality {
	switch {
	case dbm <= unusableSignal:
		return Unusable
	case dbm <= notGoodSignal:
		return NotGood
	case dbm <= okaySignal:
		return Okay
	case dbm <= veryGoodSignal:
		return VeryGood
	default:
		return Amazing
	}
}
