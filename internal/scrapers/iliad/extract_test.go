package iliad

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const fullPage = `<!DOCTYPE html>
<html>
<body>
	<div class="page">
		<div class="end_offerta">
			Rinnovo offerta: 01/11/2026
		</div>
		<div class="conso">
			<div class="conso__text"><span class="red">120s</span> /300s</div>
			<div class="conso__text"><span class="red">45 SMS</span> / 100 SMS</div>
			<div class="conso__text"><span class="red">3 MMS</span>/50 MMS</div>
			<div class="conso__text">
				Consumed
				<span class="red">2,5GB</span>
				/10GB
			</div>
		</div>
	</div>
</body>
</html>`

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func extract(t testing.TB, body string, record *CreditRecord) {
	err := Extract([]byte(body), record)
	if err != nil {
		t.Fatal(err)
	}
}

func TestExtractFullPage(t *testing.T) {
	var record CreditRecord
	extract(t, fullPage, &record)

	expected := CreditRecord{
		VoiceSeconds:    120,
		VoiceSecondsMax: intPtr(300),
		Sms:             45,
		SmsMax:          intPtr(100),
		Mms:             3,
		MmsMax:          intPtr(50),
		DataGB:          2.5,
		DataGBMax:       floatPtr(10),
		Renew:           strPtr("Rinnovo offerta: 01/11/2026"),
	}
	if diff := cmp.Diff(expected, record); diff != "" {
		t.Fatal("unexpected record (-want +got)", diff)
	}

	for _, v := range record.Values() {
		require.NotNil(t, v.Value, v.Field)
	}
}

func TestExtractDecimalComma(t *testing.T) {
	var record CreditRecord
	extract(t, `<div class="conso__text"><span class="red">2,5GB</span>/10GB</div>`, &record)

	require.Equal(t, 2.5, record.DataGB)
	require.NotNil(t, record.DataGBMax)
	require.Equal(t, 10.0, *record.DataGBMax)
}

func TestExtractPartialUpdate(t *testing.T) {
	record := CreditRecord{
		Sms:       1,
		SmsMax:    intPtr(200),
		Renew:     strPtr("previous"),
		DataGBMax: floatPtr(50),
	}
	extract(t, `<div class="conso__text"><span class="red">45 SMS</span></div>`, &record)

	expected := CreditRecord{
		Sms:       45,
		SmsMax:    intPtr(200),
		Renew:     strPtr("previous"),
		DataGBMax: floatPtr(50),
	}
	if diff := cmp.Diff(expected, record); diff != "" {
		t.Fatal("unexpected record (-want +got)", diff)
	}
}

func TestExtractRenewAmbiguity(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "no marker",
			body:     `<div class="other">01/11/2026</div>`,
			expected: "previous",
		},
		{
			name:     "multiple markers",
			body:     `<div class="end_offerta">01/11/2026</div><div class="end_offerta">01/12/2026</div>`,
			expected: "previous",
		},
		{
			name:     "class token is not a substring match",
			body:     `<div class="end_offerta_old">01/11/2026</div>`,
			expected: "previous",
		},
		{
			name:     "single marker among other classes",
			body:     `<div class="box end_offerta">  01/11/2026 </div>`,
			expected: "01/11/2026",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			record := CreditRecord{Renew: strPtr("previous")}
			extract(t, test.body, &record)
			require.NotNil(t, record.Renew)
			require.Equal(t, test.expected, *record.Renew)
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	var first CreditRecord
	extract(t, fullPage, &first)
	second := first.Clone()
	extract(t, fullPage, &second)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatal("extracting twice changed the record (-first +second)", diff)
	}
}

func TestExtractMalformedNumber(t *testing.T) {
	record := CreditRecord{
		VoiceSeconds: 10,
		Sms:          2,
	}
	before := record.Clone()

	body := `
	<div class="end_offerta">01/11/2026</div>
	<div class="conso__text"><span class="red">99s</span>/300s</div>
	<div class="conso__text"><span class="red">many SMS</span></div>`
	err := Extract([]byte(body), &record)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "expected a *ParseError, got %v", err)
	require.Equal(t, CategorySms, parseErr.Category)
	require.Equal(t, "many SMS", parseErr.Text)

	if diff := cmp.Diff(before, record); diff != "" {
		t.Fatal("record was modified by a failed extraction (-want +got)", diff)
	}
}

func TestExtractIgnoresUnknown(t *testing.T) {
	record := CreditRecord{VoiceSeconds: 7}
	body := `
	<div class="conso__text"><span class="red">unlimited</span>/300s</div>
	<div class="conso__text"><span class="red">12 min</span></div>
	<div class="conso__text"><span>30s</span>/60s</div>`
	extract(t, body, &record)

	if diff := cmp.Diff(CreditRecord{VoiceSeconds: 7}, record); diff != "" {
		t.Fatal("unexpected record (-want +got)", diff)
	}
}

func TestExtractMaxCategoryMismatch(t *testing.T) {
	record := CreditRecord{SmsMax: intPtr(100)}
	extract(t, `<div class="conso__text"><span class="red">45 SMS</span>/10GB</div>`, &record)

	require.Equal(t, 45, record.Sms)
	require.Equal(t, 100, *record.SmsMax)
	require.Nil(t, record.DataGBMax)
}

func TestExtractMaxFromBlockNotSpan(t *testing.T) {
	var record CreditRecord
	body := `<div class="conso__text"><span class="red">5s</span><p>/1000s</p></div>`
	extract(t, body, &record)

	require.Equal(t, 5, record.VoiceSeconds)
	require.Nil(t, record.VoiceSecondsMax)
}
