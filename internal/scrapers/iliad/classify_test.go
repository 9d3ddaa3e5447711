package iliad

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		text     string
		expected Category
	}{
		{text: "120s", expected: CategoryVoice},
		{text: "2,5GB", expected: CategoryData},
		{text: "45 SMS", expected: CategorySms},
		{text: "3 MMS", expected: CategoryMms},
		// voice is checked first, anything ending with a lowercase s is voice
		{text: "10 GBs", expected: CategoryVoice},
		{text: "3 sms", expected: CategoryVoice},
		{text: "10 Gb", expected: CategoryUnknown},
		{text: "unlimited", expected: CategoryUnknown},
		{text: "", expected: CategoryUnknown},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Classify(test.text), test.text)
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		text     string
		expected Amount
		ok       bool
		fails    bool
	}{
		{text: "120s", expected: Amount{Category: CategoryVoice, Int: 120}, ok: true},
		{text: "0s", expected: Amount{Category: CategoryVoice}, ok: true},
		{text: "2,5GB", expected: Amount{Category: CategoryData, Float: 2.5}, ok: true},
		{text: "10 GB", expected: Amount{Category: CategoryData, Float: 10}, ok: true},
		{text: "0,25GB", expected: Amount{Category: CategoryData, Float: 0.25}, ok: true},
		{text: "45 SMS", expected: Amount{Category: CategorySms, Int: 45}, ok: true},
		{text: "3MMS", expected: Amount{Category: CategoryMms, Int: 3}, ok: true},
		{text: "unlimited", ok: false},
		// voice does not tolerate whitespace before its suffix
		{text: "120 s", ok: true, fails: true},
		{text: "1.000 SMS", ok: true, fails: true},
		{text: "GB", ok: true, fails: true},
	}

	for _, test := range testCases {
		amount, ok, err := ParseAmount(test.text)
		require.Equal(t, test.ok, ok, test.text)
		if test.fails {
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), test.text)
			require.Equal(t, test.text, parseErr.Text)
			continue
		}
		require.NoError(t, err, test.text)
		require.Equal(t, test.expected, amount, test.text)
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	_, _, err := ParseAmount("x SMS")
	require.ErrorIs(t, err, strconv.ErrSyntax)
	require.Contains(t, err.Error(), `parse sms amount "x SMS"`)
}

func TestApplyMax(t *testing.T) {
	var record CreditRecord
	Amount{Category: CategoryVoice, Int: 300}.applyMaxTo(&record)
	Amount{Category: CategoryData, Float: 10}.applyMaxTo(&record)
	Amount{Category: CategorySms, Int: 100}.applyMaxTo(&record)
	Amount{Category: CategoryMms, Int: 50}.applyMaxTo(&record)

	require.Equal(t, 300, *record.VoiceSecondsMax)
	require.Equal(t, 10.0, *record.DataGBMax)
	require.Equal(t, 100, *record.SmsMax)
	require.Equal(t, 50, *record.MmsMax)
}

func TestRecordValues(t *testing.T) {
	record := CreditRecord{VoiceSeconds: 5, DataGB: 1.5, Renew: strPtr("soon")}
	values := record.Values()

	require.Len(t, values, len(Fields))
	for i, v := range values {
		require.Equal(t, Fields[i], v.Field)
	}
	require.Equal(t, 5, values[0].Value)
	require.Nil(t, values[1].Value)
	require.Equal(t, 1.5, values[6].Value)
	require.Nil(t, values[7].Value)
	require.Equal(t, "soon", values[8].Value)
}

func TestRecordClone(t *testing.T) {
	original := CreditRecord{SmsMax: intPtr(100), Renew: strPtr("soon")}
	clone := original.Clone()
	*clone.SmsMax = 1
	*clone.Renew = "later"

	require.Equal(t, 100, *original.SmsMax)
	require.Equal(t, "soon", *original.Renew)
}
