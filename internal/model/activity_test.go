package model

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"sleep", KindSleep, false},
		{"feeding", KindFeeding, false},
		{"Sleep", "", true},
		{"", "", true},
		{"diaper", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestProfilePatch_Apply はnilフィールドが既存値を保持することを検証する。
func TestProfilePatch_Apply(t *testing.T) {
	base := BabyProfile{Name: "はな", AgeMonths: 3, BirthDate: "2026-07-01"}
	age := 4

	got := ProfilePatch{AgeMonths: &age}.Apply(base)

	want := BabyProfile{Name: "はな", AgeMonths: 4, BirthDate: "2026-07-01"}
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}
}

func TestActivity_ClosedAndElapsed(t *testing.T) {
	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	a := Activity{ID: "a1", Kind: KindSleep, StartTime: start}

	if a.Closed() {
		t.Error("open activity reported as closed")
	}
	if got := a.Elapsed(start.Add(90 * time.Second)); got != 90*time.Second {
		t.Errorf("Elapsed() = %v, want 90s", got)
	}
	if got := a.Elapsed(start.Add(-time.Second)); got != 0 {
		t.Errorf("Elapsed() before start = %v, want 0", got)
	}

	end := start.Add(time.Minute)
	d := int64(60)
	a.EndTime, a.Duration = &end, &d
	if !a.Closed() || a.DurationSeconds() != 60 {
		t.Errorf("closed activity = %+v", a)
	}
}
