package poll

import "fmt"

// Option is one of the three fixed attendance answers. The values are the
// codes stored in the data file and carried in button callbacks.
type Option string

const (
	OptionArriveFirst  Option = "1"
	OptionArriveSecond Option = "2"
	OptionNotArriving  Option = "3"
)

// Options lists every option in display order.
var Options = []Option{OptionArriveFirst, OptionArriveSecond, OptionNotArriving}

var optionLabels = map[Option]string{
	OptionArriveFirst:  "К 1",
	OptionArriveSecond: "Ко 2",
	OptionNotArriving:  "Не прихожу",
}

var optionEmoji = map[Option]string{
	OptionArriveFirst:  "✅",
	OptionArriveSecond: "⏰",
	OptionNotArriving:  "❌",
}

// ParseOption validates an option code.
func ParseOption(code string) (Option, error) {
	o := Option(code)
	if !o.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOption, code)
	}
	return o, nil
}

func (o Option) Valid() bool {
	_, ok := optionLabels[o]
	return ok
}

func (o Option) Label() string {
	if label, ok := optionLabels[o]; ok {
		return label
	}
	return "неизвестно"
}

func (o Option) Emoji() string {
	return optionEmoji[o]
}

// IsAttending reports whether the option means the voter will come.
func (o Option) IsAttending() bool {
	return o == OptionArriveFirst || o == OptionArriveSecond
}
