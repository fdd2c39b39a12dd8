package profile_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

func mustTemplate(t *testing.T, doc string) profile.Template {
	t.Helper()
	tmpl, err := profile.ParseTemplate([]byte(doc))
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	return tmpl
}

func TestApplyTemplate_OverwritesSharedKeysOnly(t *testing.T) {
	p := profile.NewProfile()
	p.URL = "https://hooks.example.com"
	p.APISecret = "s3cret"
	p.DeviceIdentifier = "printer-1"

	tmpl := mustTemplate(t, `{"_name":"X","_description":"Y","http_method":"GET"}`)
	before := p.Fields()

	res := profile.ApplyTemplate(p, tmpl)

	if p.HTTPMethod != "GET" {
		t.Errorf("expected http_method GET, got %q", p.HTTPMethod)
	}
	after := p.Fields()
	if _, ok := after["_name"]; ok {
		t.Error("profile gained _name")
	}
	if _, ok := after["_description"]; ok {
		t.Error("profile gained _description")
	}
	for k, v := range before {
		if k == "http_method" {
			continue
		}
		if !reflect.DeepEqual(after[k], v) {
			t.Errorf("field %s changed: %v -> %v", k, v, after[k])
		}
	}
	if !reflect.DeepEqual(res.Applied, []string{"http_method"}) {
		t.Errorf("applied = %v", res.Applied)
	}
	if !reflect.DeepEqual(res.Ignored, []string{"_description", "_name"}) {
		t.Errorf("ignored = %v", res.Ignored)
	}
}

func TestApplyTemplate_EveryIntersectingField(t *testing.T) {
	p := profile.NewProfile()
	tmpl := mustTemplate(t, `{
		"headers": "{}",
		"data": "{\"text\":\"@message\"}",
		"content_type": "FORM",
		"verify_ssl": false,
		"event_cooldown": 30,
		"event_print_progress_interval": 25,
		"customEvents": [{"name":"door","message":"open"}],
		"oauth": true,
		"oauth_url": "https://auth.example.com/token"
	}`)

	profile.ApplyTemplate(p, tmpl)

	fields := p.Fields()
	for _, k := range tmpl.Keys() {
		var want any
		if err := json.Unmarshal(tmpl[k], &want); err != nil {
			t.Fatal(err)
		}
		got, _ := json.Marshal(fields[k])
		var gotAny any
		_ = json.Unmarshal(got, &gotAny)
		if k == "event_print_progress_interval" {
			if p.PrintProgressInterval != "25" {
				t.Errorf("interval = %q", p.PrintProgressInterval)
			}
			continue
		}
		if !reflect.DeepEqual(gotAny, want) {
			t.Errorf("%s = %v, want %v", k, gotAny, want)
		}
	}
}

func TestApplyTemplate_SkipsMismatchedValues(t *testing.T) {
	p := profile.NewProfile()
	tmpl := mustTemplate(t, `{"verify_ssl":"nope","http_method":"PUT","customEvents":"bad"}`)

	res := profile.ApplyTemplate(p, tmpl)

	if !p.VerifySSL {
		t.Error("verify_ssl should be untouched")
	}
	if p.HTTPMethod != "PUT" {
		t.Errorf("http_method = %q, want PUT", p.HTTPMethod)
	}
	if len(res.Skipped) != 2 {
		t.Errorf("expected 2 skipped keys, got %v", res.Skipped)
	}
}

func TestApplyTemplate_SkipsNullValues(t *testing.T) {
	p := profile.NewProfile()
	p.CustomEvents = []profile.CustomEvent{{Name: "Homed"}}
	tmpl := mustTemplate(t, `{"http_method":null,"verify_ssl":null,"customEvents":null,"event_cooldown":null,"content_type":"XML"}`)

	res := profile.ApplyTemplate(p, tmpl)

	if p.HTTPMethod != "POST" || !p.VerifySSL || p.EventCooldown != 0 || len(p.CustomEvents) != 1 {
		t.Errorf("null values changed the profile: %+v", p)
	}
	if p.ContentType != "XML" {
		t.Errorf("content_type = %q, want XML", p.ContentType)
	}
	want := []string{"event_cooldown", "customEvents", "verify_ssl", "http_method"}
	if !reflect.DeepEqual(res.Skipped, want) {
		t.Errorf("skipped = %v, want %v", res.Skipped, want)
	}
	if !reflect.DeepEqual(res.Applied, []string{"content_type"}) {
		t.Errorf("applied = %v", res.Applied)
	}
}

func TestApplyTemplate_KeepsIdentity(t *testing.T) {
	c := profile.NewCollection()
	p := c.Add()
	profile.ApplyTemplate(p, mustTemplate(t, `{"http_method":"GET"}`))
	if c.Current() != p || c.Current().HTTPMethod != "GET" {
		t.Error("overlay should update the profile in place")
	}
}

func TestExportTemplate_Denylist(t *testing.T) {
	p := profile.NewProfile()
	p.URL = "https://hooks.example.com"
	p.APISecret = "s3cret"
	p.DeviceIdentifier = "printer-1"

	tmpl, err := profile.ExportTemplate(p)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	denied := []string{
		"url", "apiSecret", "deviceIdentifier", "webhook_enabled",
		"eventPrintStarted", "eventPrintDone", "eventPrintFailed", "eventPrintPaused",
		"eventUserActionNeeded", "eventError", "event_print_progress", "test_event",
	}
	for _, k := range denied {
		if tmpl.Has(k) {
			t.Errorf("export contains %s", k)
		}
	}
	for _, k := range tmpl.Keys() {
		if strings.HasPrefix(k, "oauth_") {
			t.Errorf("export contains %s while oauth is disabled", k)
		}
	}
	if !tmpl.Has("oauth") || !tmpl.Has("http_method") || !tmpl.Has("customEvents") {
		t.Error("export is missing shareable fields")
	}
	if !strings.HasPrefix(tmpl.Name(), "TODO") || !strings.HasPrefix(tmpl.Description(), "TODO") {
		t.Error("export should carry placeholder metadata")
	}
}

func TestExportTemplate_KeepsOAuthWhenEnabled(t *testing.T) {
	p := profile.NewProfile()
	p.OAuth = true
	p.OAuthURL = "https://auth.example.com/token"

	tmpl, err := profile.ExportTemplate(p)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, k := range []string{"oauth_url", "oauth_headers", "oauth_data", "oauth_http_method", "oauth_content_type"} {
		if !tmpl.Has(k) {
			t.Errorf("export is missing %s", k)
		}
	}
}

func TestExportThenApply(t *testing.T) {
	src := profile.NewProfile()
	src.HTTPMethod = "PUT"
	src.Data = `{"text":"@message"}`
	tmpl, err := profile.ExportTemplate(src)
	if err != nil {
		t.Fatal(err)
	}

	dst := profile.NewProfile()
	dst.URL = "https://mine.example.com"
	profile.ApplyTemplate(dst, tmpl)

	if dst.HTTPMethod != "PUT" || dst.Data != src.Data {
		t.Error("exported values were not applied")
	}
	if dst.URL != "https://mine.example.com" {
		t.Error("identifier fields must survive an overlay of an exported template")
	}
}

func TestTemplate_DataURI(t *testing.T) {
	tmpl, err := profile.ExportTemplate(profile.NewProfile())
	if err != nil {
		t.Fatal(err)
	}
	uri, err := tmpl.DataURI()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(uri, "data:application/json;charset=utf-8,") {
		t.Fatalf("unexpected prefix: %.40s", uri)
	}
	if strings.ContainsAny(uri[len("data:application/json;charset=utf-8,"):], " \n\"{}") {
		t.Error("data URI body is not percent-encoded")
	}
	back, err := profile.ParseDataURI(uri)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if back.Name() != tmpl.Name() || len(back) != len(tmpl) {
		t.Error("data URI did not decode to the same template")
	}
}

func TestParseTemplate_RejectsNonObject(t *testing.T) {
	for _, doc := range []string{`[]`, `"x"`, `null`, `{`} {
		if _, err := profile.ParseTemplate([]byte(doc)); err == nil {
			t.Errorf("expected error for %s", doc)
		}
	}
}
