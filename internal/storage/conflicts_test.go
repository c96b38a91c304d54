package storage

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{name: "disjoint before", aStart: at(0), aEnd: at(2), bStart: at(3), bEnd: at(5), want: false},
		{name: "disjoint after", aStart: at(3), aEnd: at(5), bStart: at(0), bEnd: at(2), want: false},
		{name: "touching endpoints", aStart: at(0), aEnd: at(2), bStart: at(2), bEnd: at(4), want: false},
		{name: "partial overlap", aStart: at(0), aEnd: at(3), bStart: at(2), bEnd: at(5), want: true},
		{name: "contained", aStart: at(0), aEnd: at(8), bStart: at(2), bEnd: at(4), want: true},
		{name: "identical", aStart: at(0), aEnd: at(2), bStart: at(0), bEnd: at(2), want: true},
		{name: "one minute overlap", aStart: at(0), aEnd: at(2).Add(time.Minute), bStart: at(2), bEnd: at(4), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Fatalf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Fatalf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}
