package models

import "testing"

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1K"},
		{1_234, "1.2K"},
		{9_950, "10K"},
		{100_000, "100K"},
		{999_949, "999.9K"},
		{1_000_000, "1M"},
		{3_400_000, "3.4M"},
		{1_000_000_000, "1B"},
		{2_500_000_000, "2.5B"},
	}

	for _, tt := range tests {
		if got := FormatCompact(tt.n); got != tt.want {
			t.Errorf("FormatCompact(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestNewStatValue(t *testing.T) {
	v := NewStatValue(1_234)
	if v.Count != 1_234 || v.Label != "1.2K" {
		t.Errorf("unexpected stat value %+v", v)
	}
}
