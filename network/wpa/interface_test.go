package wpa

import "testing"

func TestScanDoneResult(t *testing.T) {
	tests := []struct {
		name        string
		body        []interface{}
		wantSuccess bool
		wantOk      bool
	}{
		{"successful scan", []interface{}{true}, true, true},
		{"failed scan", []interface{}{false}, false, true},
		{"empty body", nil, false, false},
		{"unexpected type", []interface{}{"yes"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			success, ok := scanDoneResult(tt.body)
			if success != tt.wantSuccess || ok != tt.wantOk {
				t.Errorf("scanDoneResult(%v) = %v, %v, want %v, %v", tt.body, success, ok, tt.wantSuccess, tt.wantOk)
			}
		})
	}
}
