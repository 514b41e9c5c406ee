package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/emenda-labs/bccheck/core/changespec"
)

func sampleReport() changespec.Report {
	return changespec.Report{
		Repository:   "/src/acme",
		FromRevision: "1.2.0",
		ToRevision:   "HEAD",
		Changes: changespec.FromList(
			changespec.Added(`Method perimeter() was added to interface Acme\Shape`, true),
			changespec.Changed(`The parameter $factor of Acme\Circle#scale() changed from float to int`, false),
			changespec.Changed(`Class Acme\Circle became final`, true),
			changespec.Removed(`Class Acme\Legacy has been deleted`, true),
			changespec.Skipped(errors.New("unknown class: Vendor\\Missing")),
		),
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := NewConsole(&buf, false).WithoutColor().Write(sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := strings.Join([]string{
		`[BC] ADDED: Method perimeter() was added to interface Acme\Shape`,
		`     CHANGED: The parameter $factor of Acme\Circle#scale() changed from float to int`,
		`[BC] CHANGED: Class Acme\Circle became final`,
		`[BC] REMOVED: Class Acme\Legacy has been deleted`,
		`     SKIPPED: unknown class: Vendor\Missing`,
		`3 backwards-incompatible changes detected`,
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestConsoleWithoutBreaks(t *testing.T) {
	var buf bytes.Buffer
	if err := NewConsole(&buf, false).WithoutColor().Write(changespec.Report{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "No backwards-incompatible changes detected\n" {
		t.Errorf("got %q", got)
	}
}

func TestConsoleForcedColor(t *testing.T) {
	var buf bytes.Buffer
	report := changespec.Report{Changes: changespec.FromList(changespec.Removed("Class A has been deleted", true))}
	if err := NewConsole(&buf, true).Write(report); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[31m") {
		t.Errorf("expected red escape sequence, got %q", buf.String())
	}
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdown(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := `# Added
 - [BC] Method perimeter() was added to interface Acme\Shape

# Changed
 - The parameter $factor of Acme\Circle#scale() changed from float to int
 - [BC] Class Acme\Circle became final

# Removed
 - [BC] Class Acme\Legacy has been deleted

# Skipped
 - unknown class: Vendor\Missing
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestGitHubActions(t *testing.T) {
	var buf bytes.Buffer
	report := changespec.Report{Changes: changespec.FromList(
		changespec.Removed("Class A has been deleted", true),
		changespec.Changed("50% of\nsomething", false),
		changespec.Skipped(errors.New("unknown class: B")),
	)}
	if err := NewGitHubActions(&buf).Write(report); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "::error title=REMOVED::Class A has been deleted\n" +
		"::notice title=CHANGED::50%25 of%0Asomething\n" +
		"::warning title=SKIPPED::unknown class: B\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSON(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded changespec.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a report: %v", err)
	}
	if decoded.FromRevision != "1.2.0" || decoded.Changes.CountBreaks() != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"console", "markdown", "github-actions", "json"} {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestMulti(t *testing.T) {
	var a, b bytes.Buffer
	m := Multi{NewMarkdown(&a), NewJSON(&b)}
	if err := m.Write(sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("every formatter should receive the report")
	}
}
