package announce

import "testing"

func TestNew(t *testing.T) {
	a := New(&Config{Port: 9000})

	if a.service != DefaultService {
		t.Errorf("Expected service %v, got %v", DefaultService, a.service)
	}

	custom := New(&Config{Service: "_custom._tcp", Port: 80})
	if custom.service != "_custom._tcp" {
		t.Errorf("Expected service _custom._tcp, got %v", custom.service)
	}
}

func TestWithdrawWithoutAnnouncement(t *testing.T) {
	a := New(&Config{Port: 9000})

	a.Withdraw()

	if a.Name() != "" {
		t.Errorf("Expected no announced name, got %q", a.Name())
	}
}
