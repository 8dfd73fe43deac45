package util

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		part  int64
		total int64
		want  float64
	}{
		{"half", 50, 100, 50},
		{"third rounds to one decimal", 1, 3, 33.3},
		{"two thirds rounds up", 2, 3, 66.7},
		{"zero total", 5, 0, 0},
		{"zero part", 0, 10, 0},
		{"full", 10, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.part, tt.total); got != tt.want {
				t.Fatalf("Percentage(%d, %d) = %v, want %v", tt.part, tt.total, got, tt.want)
			}
		})
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(1); got != "January" {
		t.Fatalf("MonthName(1) = %q, want January", got)
	}
	if got := MonthName(12); got != "December" {
		t.Fatalf("MonthName(12) = %q, want December", got)
	}
	if got := MonthName(0); got != "" {
		t.Fatalf("MonthName(0) = %q, want empty", got)
	}
	if got := MonthName(13); got != "" {
		t.Fatalf("MonthName(13) = %q, want empty", got)
	}
}

func TestDayOfWeekName(t *testing.T) {
	if got := DayOfWeekName(0); got != "Sunday" {
		t.Fatalf("DayOfWeekName(0) = %q, want Sunday", got)
	}
	if got := DayOfWeekName(6); got != "Saturday" {
		t.Fatalf("DayOfWeekName(6) = %q, want Saturday", got)
	}
	if got := DayOfWeekName(7); got != "" {
		t.Fatalf("DayOfWeekName(7) = %q, want empty", got)
	}
}

func TestDayOfWeekOrder(t *testing.T) {
	// Monday renders first, Sunday last.
	if got := DayOfWeekOrder(1); got != 0 {
		t.Fatalf("DayOfWeekOrder(1) = %d, want 0", got)
	}
	if got := DayOfWeekOrder(0); got != 6 {
		t.Fatalf("DayOfWeekOrder(0) = %d, want 6", got)
	}
	if got := DayOfWeekOrder(3); got >= DayOfWeekOrder(0) {
		t.Fatalf("Wednesday should render before Sunday")
	}
}
