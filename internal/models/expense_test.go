package models

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-01-01", want: want},
		{in: "2024-01-01T00:00:00Z", want: want},
		{in: "2024-01-01T18:30:00Z", want: want},
		{in: "2024-01-01T23:30:00-02:00", want: want.AddDate(0, 0, 1)},
		{in: "01/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHabitFrequency_Valid(t *testing.T) {
	for _, f := range []HabitFrequency{HabitFrequencyDaily, HabitFrequencyWeekly, HabitFrequencyMonthly} {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}
	for _, f := range []HabitFrequency{"", "hourly", "Daily"} {
		if f.Valid() {
			t.Errorf("%q should be invalid", f)
		}
	}
}
