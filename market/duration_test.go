package market

import (
	"errors"
	"testing"
)

func TestParseETA(t *testing.T) {
	tests := []struct {
		input   string
		wantMs  int64
		wantErr bool
	}{
		{"30s", 30_000, false},
		{"45m", 2_700_000, false},
		{"2h", 7_200_000, false},
		{"1d", 86_400_000, false},
		{"0s", 0, false},
		{"12h", 43_200_000, false},
		{"", 0, true},
		{"h", 0, true},
		{"2w", 0, true},
		{"2.5h", 0, true},
		{"-1h", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseETA(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseETA(%q): expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseETA(%q): unexpected error %v", tt.input, err)
			continue
		}
		if got != tt.wantMs {
			t.Errorf("ParseETA(%q) = %d, want %d", tt.input, got, tt.wantMs)
		}
	}
}

func TestParseETA_ErrorType(t *testing.T) {
	_, err := ParseETA("nonsense")
	var parseErr *ETAParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ETAParseError, got %T", err)
	}
	if parseErr.Input != "nonsense" {
		t.Errorf("error should carry the offending input, got %q", parseErr.Input)
	}
}
