package machine

// Machine is the board hardware signalling connectivity to people nearby.
type Machine interface {
	Start() error
	Stop() error
	// ToggleIndicator switches the status LED, which is lit while connected.
	ToggleIndicator(on bool)
	// DiagnosticBlink signals a successful startup.
	DiagnosticBlink()
}
