package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Field describes one profile field. Overlay, export and field editing are
// driven by the Schema table instead of by reflection.
type Field struct {
	Key string
	// Exportable is false for secrets and per-installation runtime flags that
	// must never leave the machine in a template.
	Exportable bool
	// OAuth marks the OAuth sub-configuration, dropped from exports when
	// OAuth is disabled.
	OAuth bool

	get func(*Profile) any
	set func(*Profile, json.RawMessage) error
}

// Value returns the field's current value on p.
func (f Field) Value(p *Profile) any {
	return f.get(p)
}

// Decode assigns raw to the field on p. A JSON null is a mismatch for every
// field and leaves p unchanged.
func (f Field) Decode(p *Profile, raw json.RawMessage) error {
	if isNull(raw) {
		return &FieldError{Key: f.Key, Err: errNullValue}
	}
	if err := f.set(p, raw); err != nil {
		return &FieldError{Key: f.Key, Err: err}
	}
	return nil
}

// Schema lists every profile field in wire order.
var Schema = []Field{
	stringField("url", false, func(p *Profile) *string { return &p.URL }),
	stringField("apiSecret", false, func(p *Profile) *string { return &p.APISecret }),
	stringField("deviceIdentifier", false, func(p *Profile) *string { return &p.DeviceIdentifier }),
	boolField("webhook_enabled", false, func(p *Profile) *bool { return &p.Enabled }),
	intField("event_cooldown", func(p *Profile) *int { return &p.EventCooldown }),

	boolField("eventPrintStarted", false, func(p *Profile) *bool { return &p.EventPrintStarted }),
	boolField("eventPrintDone", false, func(p *Profile) *bool { return &p.EventPrintDone }),
	boolField("eventPrintFailed", false, func(p *Profile) *bool { return &p.EventPrintFailed }),
	boolField("eventPrintPaused", false, func(p *Profile) *bool { return &p.EventPrintPaused }),
	boolField("eventUserActionNeeded", false, func(p *Profile) *bool { return &p.EventUserActionNeeded }),
	boolField("eventError", false, func(p *Profile) *bool { return &p.EventError }),
	boolField("event_print_progress", false, func(p *Profile) *bool { return &p.EventPrintProgress }),
	numericStringField("event_print_progress_interval", func(p *Profile) *string { return &p.PrintProgressInterval }),

	stringField("eventPrintStartedMessage", true, func(p *Profile) *string { return &p.PrintStartedMessage }),
	stringField("eventPrintDoneMessage", true, func(p *Profile) *string { return &p.PrintDoneMessage }),
	stringField("eventPrintFailedMessage", true, func(p *Profile) *string { return &p.PrintFailedMessage }),
	stringField("eventPrintPausedMessage", true, func(p *Profile) *string { return &p.PrintPausedMessage }),
	stringField("eventUserActionNeededMessage", true, func(p *Profile) *string { return &p.UserActionNeededMessage }),
	stringField("eventPrintProgressMessage", true, func(p *Profile) *string { return &p.PrintProgressMessage }),
	stringField("eventErrorMessage", true, func(p *Profile) *string { return &p.ErrorMessage }),

	{
		Key:        "customEvents",
		Exportable: true,
		get: func(p *Profile) any {
			out := make([]CustomEvent, len(p.CustomEvents))
			copy(out, p.CustomEvents)
			return out
		},
		set: func(p *Profile, raw json.RawMessage) error {
			var events []CustomEvent
			if err := json.Unmarshal(raw, &events); err != nil {
				return err
			}
			if events == nil {
				events = []CustomEvent{}
			}
			p.CustomEvents = events
			return nil
		},
	},

	boolField("verify_ssl", true, func(p *Profile) *bool { return &p.VerifySSL }),
	stringField("headers", true, func(p *Profile) *string { return &p.Headers }),
	stringField("data", true, func(p *Profile) *string { return &p.Data }),
	stringField("http_method", true, func(p *Profile) *string { return &p.HTTPMethod }),
	stringField("content_type", true, func(p *Profile) *string { return &p.ContentType }),

	boolField("oauth", true, func(p *Profile) *bool { return &p.OAuth }),
	oauth(stringField("oauth_url", true, func(p *Profile) *string { return &p.OAuthURL })),
	oauth(stringField("oauth_headers", true, func(p *Profile) *string { return &p.OAuthHeaders })),
	oauth(stringField("oauth_data", true, func(p *Profile) *string { return &p.OAuthData })),
	oauth(stringField("oauth_http_method", true, func(p *Profile) *string { return &p.OAuthHTTPMethod })),
	oauth(stringField("oauth_content_type", true, func(p *Profile) *string { return &p.OAuthContentType })),

	stringField("test_event", false, func(p *Profile) *string { return &p.TestEvent }),
}

var schemaIndex = func() map[string]Field {
	m := make(map[string]Field, len(Schema))
	for _, f := range Schema {
		m[f.Key] = f
	}
	return m
}()

// Lookup returns the schema field for key.
func Lookup(key string) (Field, bool) {
	f, ok := schemaIndex[key]
	return f, ok
}

// Keys returns every schema key in wire order.
func Keys() []string {
	keys := make([]string, len(Schema))
	for i, f := range Schema {
		keys[i] = f.Key
	}
	return keys
}

// SetField decodes raw JSON into the field named key.
func (p *Profile) SetField(key string, raw json.RawMessage) error {
	f, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return f.Decode(p, raw)
}

// Fields returns a snapshot of every field keyed by its wire name.
func (p *Profile) Fields() map[string]any {
	m := make(map[string]any, len(Schema))
	for _, f := range Schema {
		m[f.Key] = f.get(p)
	}
	return m
}

var errNullValue = errors.New("null is not a valid value")

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func oauth(f Field) Field {
	f.OAuth = true
	return f
}

func stringField(key string, exportable bool, ptr func(*Profile) *string) Field {
	return Field{
		Key:        key,
		Exportable: exportable,
		get:        func(p *Profile) any { return *ptr(p) },
		set: func(p *Profile, raw json.RawMessage) error {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			*ptr(p) = s
			return nil
		},
	}
}

func boolField(key string, exportable bool, ptr func(*Profile) *bool) Field {
	return Field{
		Key:        key,
		Exportable: exportable,
		get:        func(p *Profile) any { return *ptr(p) },
		set: func(p *Profile, raw json.RawMessage) error {
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return err
			}
			*ptr(p) = b
			return nil
		},
	}
}

// intField accepts a JSON number or a numeric string.
func intField(key string, ptr func(*Profile) *int) Field {
	return Field{
		Key:        key,
		Exportable: true,
		get:        func(p *Profile) any { return *ptr(p) },
		set: func(p *Profile, raw json.RawMessage) error {
			n, err := decodeNumber(raw)
			if err != nil {
				return err
			}
			v, err := strconv.Atoi(n)
			if err != nil {
				return err
			}
			*ptr(p) = v
			return nil
		},
	}
}

// numericStringField stores a number as text, the host keeps the progress
// interval as a string.
func numericStringField(key string, ptr func(*Profile) *string) Field {
	return Field{
		Key:        key,
		Exportable: true,
		get:        func(p *Profile) any { return *ptr(p) },
		set: func(p *Profile, raw json.RawMessage) error {
			n, err := decodeNumber(raw)
			if err != nil {
				return err
			}
			*ptr(p) = n
			return nil
		},
	}
}

func decodeNumber(raw json.RawMessage) (string, error) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String(), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected number, got %s", string(raw))
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "", fmt.Errorf("expected numeric string, got %q", s)
	}
	return s, nil
}
