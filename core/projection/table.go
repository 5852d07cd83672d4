package projection

import (
	"regexp"
	"strings"
	"time"

	"opsboard/core/timegap"
	"opsboard/core/utils"
)

// Kind is the type of a logical field.
type Kind int

const (
	// String is free text.
	String Kind = iota
	// Int is an integer.
	Int
	// Bool is a flag.
	Bool
	// Date is a calendar day, held as YYYY-MM-DD and stored as a date-time.
	Date
	// DateTime is an instant, held as RFC 3339 in UTC.
	DateTime
	// Time is a clock time or duration, held as [-]HH:MM:SS.
	Time
	// Enum is a string restricted to Field.Enum.
	Enum
)

// OrderLast is the default for ordering fields so unordered records sort last.
const OrderLast = 999

// Field declares one logical field of a record.
type Field struct {
	// Name is the logical name, resolved per list by the schema binding.
	Name string
	Kind Kind
	// Default replaces missing or malformed remote values. Nil means the kind's zero.
	Default any
	// Enum lists the accepted values of an Enum field.
	Enum []string
	// ReadOnly fields are decoded but never written.
	ReadOnly bool
}

// Table is the declarative shape of one record variant.
type Table struct {
	Fields []Field
}

// Field returns the declaration of name.
func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Binder resolves logical names against one list's schema.
type Binder interface {
	Field(logical string) string
	Writable(field string) bool
}

// Values holds decoded logical values keyed by logical name.
type Values map[string]any

// String returns the string value of name.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the integer value of name.
func (v Values) Int(name string) int {
	i, _ := v[name].(int)
	return i
}

// Bool returns the boolean value of name.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe   = regexp.MustCompile(`^-?\d{1,2}:\d{2}(:\d{2})?$`)
)

// Codec decodes and encodes records. Location is the operation's timezone,
// used to turn stored instants into calendar days and back.
type Codec struct {
	Location *time.Location
}

func (c Codec) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Decode reads every field of t from raw, applying defaults.
func (c Codec) Decode(t Table, raw map[string]any, b Binder) Values {
	out := make(Values, len(t.Fields))
	for _, f := range t.Fields {
		out[f.Name] = c.DecodeValue(f, raw[b.Field(f.Name)])
	}
	return out
}

// DecodeValue converts one raw value, returning the field default when it is missing or malformed.
func (c Codec) DecodeValue(f Field, raw any) any {
	if v, ok := c.convert(f, raw); ok {
		return v
	}
	return defaultFor(f)
}

func (c Codec) convert(f Field, raw any) (any, bool) {
	switch f.Kind {
	case Int:
		return utils.AsInt(raw)
	case Bool:
		return utils.AsBool(raw)
	case Date:
		s, ok := utils.AsString(raw)
		if !ok {
			return nil, false
		}
		d := c.day(s)
		return d, d != ""
	case DateTime:
		s, ok := utils.AsString(raw)
		if !ok {
			return nil, false
		}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
		if err != nil {
			return nil, false
		}
		return ts.UTC().Format(time.RFC3339), true
	case Time:
		s, ok := utils.AsString(raw)
		if !ok || !clockRe.MatchString(strings.TrimSpace(s)) {
			return nil, false
		}
		return timegap.Normalize(s), true
	case Enum:
		s, ok := utils.AsString(raw)
		if !ok {
			return nil, false
		}
		s = strings.TrimSpace(s)
		for _, e := range f.Enum {
			if strings.EqualFold(s, e) {
				return e, true
			}
		}
		return nil, false
	default:
		s, ok := utils.AsString(raw)
		if !ok {
			return nil, false
		}
		return strings.TrimSpace(s), true
	}
}

// day reads YYYY-MM-DD or an RFC 3339 instant as a calendar day in the codec location.
func (c Codec) day(s string) string {
	s = strings.TrimSpace(s)
	if isoDateRe.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return ""
		}
		return s
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ""
	}
	return ts.In(c.loc()).Format("2006-01-02")
}

func defaultFor(f Field) any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Kind {
	case Int:
		return 0
	case Bool:
		return false
	case Time:
		return timegap.ZeroTime
	case Enum:
		if len(f.Enum) > 0 {
			return f.Enum[0]
		}
		return ""
	default:
		return ""
	}
}

// Encode builds a write payload from every writable field of t present in v.
func (c Codec) Encode(t Table, v Values, b Binder) map[string]any {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	return c.EncodeFields(t, v, b, names...)
}

// EncodeFields builds a write payload restricted to the named logical fields.
// Read-only declarations, fields the list does not know and fields it marks
// read-only are dropped, except the title field which is always writable.
func (c Codec) EncodeFields(t Table, v Values, b Binder, names ...string) map[string]any {
	payload := make(map[string]any, len(names))
	for _, name := range names {
		f, ok := t.Field(name)
		if !ok || f.ReadOnly {
			continue
		}
		val, present := v[name]
		if !present {
			continue
		}
		actual := b.Field(name)
		if !b.Writable(actual) {
			continue
		}
		if enc, ok := c.encodeValue(f, val); ok {
			payload[actual] = enc
		}
	}
	return payload
}

func (c Codec) encodeValue(f Field, val any) (any, bool) {
	switch f.Kind {
	case Date:
		s, _ := val.(string)
		if !isoDateRe.MatchString(s) {
			return nil, false
		}
		d, err := time.ParseInLocation("2006-01-02", s, c.loc())
		if err != nil {
			return nil, false
		}
		return d.UTC().Format(time.RFC3339), true
	case DateTime:
		switch ts := val.(type) {
		case time.Time:
			return ts.UTC().Format(time.RFC3339), true
		case string:
			return ts, ts != ""
		}
		return nil, false
	case Time:
		s, _ := val.(string)
		return timegap.Normalize(s), true
	default:
		return val, true
	}
}

// DecodeCollection reads one value per code, each code naming its own field
// (e.g. one status column per operation code).
func (c Codec) DecodeCollection(f Field, codes []string, raw map[string]any, b Binder) map[string]string {
	out := make(map[string]string, len(codes))
	for _, code := range codes {
		out[code] = utils.ToString(c.DecodeValue(f, raw[b.Field(code)]))
	}
	return out
}

// EncodeCollection writes one value per code into payload, skipping codes the list cannot store.
func (c Codec) EncodeCollection(f Field, values map[string]string, b Binder, payload map[string]any) {
	for code, val := range values {
		actual := b.Field(code)
		if !b.Writable(actual) {
			continue
		}
		if enc, ok := c.encodeValue(f, val); ok {
			payload[actual] = enc
		}
	}
}

// DayWindow returns the first and last second of day in the codec location, as UTC RFC 3339.
func (c Codec) DayWindow(day string) (string, string, bool) {
	d, err := time.ParseInLocation("2006-01-02", day, c.loc())
	if err != nil {
		return "", "", false
	}
	end := d.AddDate(0, 0, 1).Add(-time.Second)
	return d.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), true
}

// Today returns the current calendar day in the codec location.
func (c Codec) Today(now time.Time) string {
	return now.In(c.loc()).Format("2006-01-02")
}
