package transcript

import "testing"

func TestClock(t *testing.T) {
	tests := []struct {
		in        float64
		want      string
		wantShort string
	}{
		{0, "00:00:00", "00:00"},
		{-4, "00:00:00", "00:00"},
		{59.6, "00:01:00", "01:00"},
		{310, "00:05:10", "05:10"},
		{3725.2, "01:02:05", "01:02:05"},
	}

	for _, tt := range tests {
		if got := Clock(tt.in); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.in, got, tt.want)
		}
		if got := ShortClock(tt.in); got != tt.wantShort {
			t.Errorf("ShortClock(%v) = %q, want %q", tt.in, got, tt.wantShort)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00:00", 0, false},
		{"01:02:05", 3725, false},
		{"05:10", 310, false},
		{"7", 7, false},
		{"aa:bb:cc", 0, true},
		{"1:2:3:4", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
