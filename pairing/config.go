package pairing

type Config struct {
	Logger Logger
	// AdapterId is the bluetooth adapter, e.g. hci0.
	AdapterId string
	Board     Board
}
