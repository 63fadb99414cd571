package timer

import "testing"

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "25", want: 25, wantOK: true},
		{in: "  7 ", want: 7, wantOK: true},
		{in: "0", want: 0, wantOK: true},
		{in: "-4", want: -4, wantOK: true},
		{in: "90m", want: 90, wantOK: true},
		{in: "1h30m", want: 90, wantOK: true},
		{in: "59s", want: 0, wantOK: true},
		{in: "", wantOK: false},
		{in: "abc", wantOK: false},
		{in: "2.5", wantOK: false},
		{in: "25 minutes", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseMinutes(tt.in)
		if ok != tt.wantOK {
			t.Fatalf("ParseMinutes(%q) ok=%v, want %v", tt.in, ok, tt.wantOK)
		}
		if ok && got != tt.want {
			t.Fatalf("ParseMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
