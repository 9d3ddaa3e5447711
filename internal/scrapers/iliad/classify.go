package iliad

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the usage category a highlighted value belongs to.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryVoice
	CategoryData
	CategorySms
	CategoryMms
)

func (c Category) String() string {
	switch c {
	case CategoryVoice:
		return "voice"
	case CategoryData:
		return "data"
	case CategorySms:
		return "sms"
	case CategoryMms:
		return "mms"
	default:
		return "unknown"
	}
}

type suffixRule struct {
	suffix   string
	category Category
}

// checked in order, the first matching suffix wins. "s" is checked first so
// that anything ending with a lowercase s is voice, no matter what precedes it.
var suffixRules = []suffixRule{
	{suffix: "s", category: CategoryVoice},
	{suffix: "GB", category: CategoryData},
	{suffix: "SMS", category: CategorySms},
	{suffix: "MMS", category: CategoryMms},
}

// Classify returns the category of a trimmed amount text by looking at its
// trailing characters, or CategoryUnknown if no suffix matches.
func Classify(text string) Category {
	for _, rule := range suffixRules {
		if strings.HasSuffix(text, rule.suffix) {
			return rule.category
		}
	}
	return CategoryUnknown
}

// ParseError is returned when an amount has a known suffix but its number
// cannot be parsed.
type ParseError struct {
	Category Category
	Text     string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s amount %q: %s", e.Category, e.Text, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Amount is a parsed amount, Int is set for voice, SMS and MMS while Float is
// set for data.
type Amount struct {
	Category Category
	Int      int
	Float    float64
}

// ParseAmount classifies `text` and parses its number. ok is false when the
// suffix is not recognized, in which case the text should be ignored.
func ParseAmount(text string) (amount Amount, ok bool, err error) {
	category := Classify(text)

	switch category {
	case CategoryVoice:
		number := strings.TrimSuffix(text, "s")
		value, err := strconv.Atoi(number)
		if err != nil {
			return Amount{}, true, &ParseError{Category: category, Text: text, Err: err}
		}
		return Amount{Category: category, Int: value}, true, nil
	case CategoryData:
		number := strings.TrimSpace(strings.TrimSuffix(text, "GB"))
		number = strings.ReplaceAll(number, ",", ".")
		value, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return Amount{}, true, &ParseError{Category: category, Text: text, Err: err}
		}
		return Amount{Category: category, Float: value}, true, nil
	case CategorySms, CategoryMms:
		suffix := "SMS"
		if category == CategoryMms {
			suffix = "MMS"
		}
		number := strings.TrimSpace(strings.TrimSuffix(text, suffix))
		value, err := strconv.Atoi(number)
		if err != nil {
			return Amount{}, true, &ParseError{Category: category, Text: text, Err: err}
		}
		return Amount{Category: category, Int: value}, true, nil
	}

	return Amount{}, false, nil
}

func (a Amount) applyTo(record *CreditRecord) {
	switch a.Category {
	case CategoryVoice:
		record.VoiceSeconds = a.Int
	case CategoryData:
		record.DataGB = a.Float
	case CategorySms:
		record.Sms = a.Int
	case CategoryMms:
		record.Mms = a.Int
	}
}

func (a Amount) applyMaxTo(record *CreditRecord) {
	switch a.Category {
	case CategoryVoice:
		value := a.Int
		record.VoiceSecondsMax = &value
	case CategoryData:
		value := a.Float
		record.DataGBMax = &value
	case CategorySms:
		value := a.Int
		record.SmsMax = &value
	case CategoryMms:
		value := a.Int
		record.MmsMax = &value
	}
}
