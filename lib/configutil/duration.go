package configutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that can be written in a config file either as a
// duration string ("15m", "1h30m") or as a plain number of seconds.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func unquote(text string) (string, bool) {
	if len(text) < 2 {
		return text, false
	}
	first, last := text[0], text[len(text)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return text[1 : len(text)-1], true
	}
	return text, false
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		return nil
	}

	text, quoted := unquote(text)
	text = strings.TrimSpace(text)

	if seconds, err := strconv.ParseFloat(text, 64); err == nil {
		*d = Duration(seconds * float64(time.Second))
		return nil
	}
	if !quoted {
		return fmt.Errorf("invalid duration %s", string(data))
	}

	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %s: %w", string(data), err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}
