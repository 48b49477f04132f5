package todo

import (
	"strings"
	"testing"
	"time"
)

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		priority Priority
		want     int
	}{
		{PriorityHigh, 1},
		{PriorityMedium, 2},
		{PriorityLow, 3},
		{"", 4},
		{"urgent", 4},
	}
	for _, tt := range tests {
		if got := tt.priority.Rank(); got != tt.want {
			t.Errorf("Rank(%q): got %d, want %d", tt.priority, got, tt.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{"high", PriorityHigh, false},
		{" LOW ", PriorityLow, false},
		{"", PriorityMedium, false},
		{"urgent", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriority(%q) error: got %v, want error %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	tests := []struct {
		input   string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{input: "", wantNil: true},
		{input: "2024-03-05", want: time.Date(2024, 3, 5, 0, 0, 0, 0, loc)},
		{input: "2024-03-05T23:00", want: time.Date(2024, 3, 5, 23, 0, 0, 0, loc)},
		{input: "2024-03-05 07:15", want: time.Date(2024, 3, 5, 7, 15, 0, 0, loc)},
		{input: "2024-03-05T07:15:30", want: time.Date(2024, 3, 5, 7, 15, 30, 0, loc)},
		{input: "2024-03-05T07:15:30.000", want: time.Date(2024, 3, 5, 7, 15, 30, 0, loc)},
		{input: "2024-03-05T14:00:00.000Z", want: time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)},
		{input: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, want error %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if got == nil || !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidText(t *testing.T) {
	if !ValidText("fifteen chars!!") {
		t.Error("15 characters should be valid")
	}
	if ValidText("sixteen chars!!!") {
		t.Error("16 characters should be invalid")
	}
	if ValidText(" ") {
		t.Error("blank text should be invalid")
	}
	if !ValidText(strings.Repeat("é", MaxTextLength)) {
		t.Errorf("%d runes should be valid", MaxTextLength)
	}
	if ValidText(strings.Repeat("é", MaxTextLength+1)) {
		t.Errorf("%d runes should be invalid", MaxTextLength+1)
	}
}
