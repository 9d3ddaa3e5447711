package iliad

// CreditRecord holds the usage figures scraped from the account page. Fields
// ending with Max are nil until the page discloses an allowance.
type CreditRecord struct {
	VoiceSeconds    int
	VoiceSecondsMax *int
	Sms             int
	SmsMax          *int
	Mms             int
	MmsMax          *int
	DataGB          float64
	DataGBMax       *float64
	Renew           *string
}

// Field is the name of a CreditRecord field as it appears in published state keys.
type Field string

const (
	FieldVoiceSeconds    Field = "voice_seconds"
	FieldVoiceSecondsMax Field = "voice_seconds_max"
	FieldSms             Field = "sms"
	FieldSmsMax          Field = "sms_max"
	FieldMms             Field = "mms"
	FieldMmsMax          Field = "mms_max"
	FieldDataGB          Field = "data_GB"
	FieldDataGBMax       Field = "data_GB_max"
	FieldRenew           Field = "renew"
)

// Fields lists every field in publication order.
var Fields = []Field{
	FieldVoiceSeconds,
	FieldVoiceSecondsMax,
	FieldSms,
	FieldSmsMax,
	FieldMms,
	FieldMmsMax,
	FieldDataGB,
	FieldDataGBMax,
	FieldRenew,
}

// FieldValue is a field paired with its current value, the value is nil when unset.
type FieldValue struct {
	Field Field
	Value any
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// Values returns every field of the record in the order of Fields.
func (r CreditRecord) Values() []FieldValue {
	return []FieldValue{
		{Field: FieldVoiceSeconds, Value: r.VoiceSeconds},
		{Field: FieldVoiceSecondsMax, Value: intOrNil(r.VoiceSecondsMax)},
		{Field: FieldSms, Value: r.Sms},
		{Field: FieldSmsMax, Value: intOrNil(r.SmsMax)},
		{Field: FieldMms, Value: r.Mms},
		{Field: FieldMmsMax, Value: intOrNil(r.MmsMax)},
		{Field: FieldDataGB, Value: r.DataGB},
		{Field: FieldDataGBMax, Value: floatOrNil(r.DataGBMax)},
		{Field: FieldRenew, Value: stringOrNil(r.Renew)},
	}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// Clone returns a deep copy of the record.
func (r CreditRecord) Clone() CreditRecord {
	return CreditRecord{
		VoiceSeconds:    r.VoiceSeconds,
		VoiceSecondsMax: cloneInt(r.VoiceSecondsMax),
		Sms:             r.Sms,
		SmsMax:          cloneInt(r.SmsMax),
		Mms:             r.Mms,
		MmsMax:          cloneInt(r.MmsMax),
		DataGB:          r.DataGB,
		DataGBMax:       cloneFloat(r.DataGBMax),
		Renew:           cloneString(r.Renew),
	}
}
