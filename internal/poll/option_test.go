package poll

import (
	"errors"
	"testing"
)

func TestOption_Label(t *testing.T) {
	tests := []struct {
		opt  Option
		want string
	}{
		{OptionArriveFirst, "К 1"},
		{OptionArriveSecond, "Ко 2"},
		{OptionNotArriving, "Не прихожу"},
		{Option("9"), "неизвестно"},
	}
	for _, tt := range tests {
		if got := tt.opt.Label(); got != tt.want {
			t.Errorf("Option(%q).Label() = %q, want %q", tt.opt, got, tt.want)
		}
	}
}

func TestOption_IsAttending(t *testing.T) {
	if !OptionArriveFirst.IsAttending() || !OptionArriveSecond.IsAttending() {
		t.Error("expected arrive options to be attending")
	}
	if OptionNotArriving.IsAttending() {
		t.Error("expected not arriving to be non-attending")
	}
}

func TestParseOption(t *testing.T) {
	for _, code := range []string{"1", "2", "3"} {
		if _, err := ParseOption(code); err != nil {
			t.Errorf("ParseOption(%q) unexpected error: %v", code, err)
		}
	}
	for _, code := range []string{"", "0", "4", "ARRIVE_FIRST"} {
		if _, err := ParseOption(code); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("ParseOption(%q) error = %v, want ErrInvalidOption", code, err)
		}
	}
}

func TestOptions_Order(t *testing.T) {
	if len(Options) != 3 {
		t.Fatalf("Options has %d entries, want 3", len(Options))
	}
	if Options[0] != OptionArriveFirst || Options[2] != OptionNotArriving {
		t.Errorf("unexpected option order: %v", Options)
	}
}
