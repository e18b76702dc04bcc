package task

import (
	"testing"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

func TestParseState(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    State
		wantErr bool
	}{
		{"Doing", StateDoing, false},
		{"DONE", StateDone, false},
		{"dead", StateDead, false},
		{"doing", StateDoing, false},
		{"Paused", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseState(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tbErr := tberrors.AsTaskbookError(err); tbErr == nil || tbErr.Code != tberrors.CodeStateUnknown {
					t.Errorf("expected STATE_UNKNOWN, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseState(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStateScan(t *testing.T) {
	t.Parallel()

	var s State
	if err := s.Scan("Done"); err != nil || s != StateDone {
		t.Errorf("Scan(string) = %q, %v", s, err)
	}
	if err := s.Scan([]byte("DOING")); err != nil || s != StateDoing {
		t.Errorf("Scan([]byte) = %q, %v", s, err)
	}
	if err := s.Scan(nil); err == nil {
		t.Error("Scan(nil) should fail")
	}
	if err := s.Scan(int64(3)); err == nil {
		t.Error("Scan(int64) should fail")
	}
}

func TestStateValue(t *testing.T) {
	t.Parallel()

	v, err := StateDead.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "Dead" {
		t.Errorf("Value() = %v, want Dead", v)
	}

	if _, err := State("bogus").Value(); err == nil {
		t.Error("Value() of invalid state should fail")
	}
	if _, err := State("bogus").MarshalText(); err == nil {
		t.Error("MarshalText() of invalid state should fail")
	}
}
