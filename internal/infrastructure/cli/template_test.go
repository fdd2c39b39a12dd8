package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

func TestTemplateCommands_ListAndShow(t *testing.T) {
	isolateEnv(t, "")
	root := t.TempDir()

	out, err := runCLI(t, root, "template", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"simple", "slack", "oauth"} {
		if !strings.Contains(out, id) {
			t.Errorf("list missing %s:\n%s", id, out)
		}
	}
	if !strings.Contains(out, "* simple") {
		t.Errorf("expected simple to be the active template:\n%s", out)
	}

	out, err = runCLI(t, root, "template", "show", "slack")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Slack Message") {
		t.Errorf("show output:\n%s", out)
	}

	if _, err := runCLI(t, root, "template", "show", "missing"); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestTemplateCommands_ApplyOnlyTouchesTemplateFields(t *testing.T) {
	isolateEnv(t, "")
	root := t.TempDir()

	if _, err := runCLI(t, root, "profile", "set", "url", "https://hooks.slack.example/T1"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, root, "profile", "set", "http_method", "GET"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, root, "template", "apply", "slack"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	out, err := runCLI(t, root, "profile", "show", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"url": "https://hooks.slack.example/T1"`) {
		t.Errorf("url changed by template:\n%s", out)
	}
	if !strings.Contains(out, `"http_method": "POST"`) {
		t.Errorf("http_method not applied:\n%s", out)
	}

	out, _ = runCLI(t, root, "template", "list")
	if !strings.Contains(out, "* slack") {
		t.Errorf("expected slack to be active:\n%s", out)
	}
}

func TestTemplateCommands_ExportAndReapply(t *testing.T) {
	isolateEnv(t, "")
	root := t.TempDir()

	for _, args := range [][]string{
		{"profile", "set", "url", "https://private.example"},
		{"profile", "set", "apiSecret", "s3cret"},
		{"profile", "set", "http_method", "PUT"},
	} {
		if _, err := runCLI(t, root, args...); err != nil {
			t.Fatal(err)
		}
	}

	out, err := runCLI(t, root, "template", "export")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "private.example") || strings.Contains(out, "s3cret") {
		t.Fatalf("export leaked private fields:\n%s", out)
	}
	if strings.Contains(out, "oauth_url") {
		t.Errorf("export kept oauth fields with oauth off:\n%s", out)
	}

	out, err = runCLI(t, root, "template", "export", "--data-uri")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "data:application/json;charset=utf-8,") {
		t.Errorf("unexpected data uri: %q", out)
	}

	file := filepath.Join(t.TempDir(), "mine.txt")
	if err := os.WriteFile(file, []byte(out), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, root, "profile", "add"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, root, "template", "apply", "--file", file); err != nil {
		t.Fatalf("apply file: %v", err)
	}
	out, _ = runCLI(t, root, "profile", "show", "--json")
	if !strings.Contains(out, `"http_method": "PUT"`) || !strings.Contains(out, `"url": ""`) {
		t.Errorf("exported template not applied as expected:\n%s", out)
	}

	jsonFile := filepath.Join(t.TempDir(), "mine.json")
	if _, err := runCLI(t, root, "template", "export", "-o", jsonFile); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := profile.ParseTemplate(data)
	if err != nil {
		t.Fatalf("exported file is not a template: %v", err)
	}
	if tmpl.Has("url") || !tmpl.Has("http_method") {
		t.Errorf("unexpected keys %v", tmpl.Keys())
	}
}
