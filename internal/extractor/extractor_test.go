package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanText(t *testing.T) {
	input := "\uFEFFThis   is \t a   heavily    spaced line\n" +
		"ab\n" +
		"42\n" +
		"123\n" +
		"1234 is kept because it is not a bare page number\n" +
		"line with a \x00 null byte\n"

	got := cleanText(input)

	want := "This is a heavily spaced line\n" +
		"1234 is kept because it is not a bare page number\n" +
		"line with a null byte"

	if got != want {
		t.Errorf("cleanText mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestCleanTextEmpty(t *testing.T) {
	if got := cleanText(""); got != "" {
		t.Errorf("expected empty output for empty input, got %q", got)
	}

	if got := cleanText("  \n \t \n"); got != "" {
		t.Errorf("expected empty output for whitespace input, got %q", got)
	}
}

func TestIsBarePageNumber(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"7", true},
		{"42", true},
		{"123", true},
		{"1234", false},
		{"12a", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := isBarePageNumber(tc.line); got != tc.want {
			t.Errorf("isBarePageNumber(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestPlainTextBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")

	content := "The standard deduction reduces taxable income.\n\nItemized deductions are an alternative.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	backend := &plainTextBackend{}

	doc, err := backend.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.SourceID != "notes.txt" {
		t.Errorf("expected source id notes.txt, got %s", doc.SourceID)
	}

	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 pseudo-page, got %d", len(doc.Pages))
	}

	if doc.Pages[0].CharCount != len(doc.Text) {
		t.Errorf("page char count %d does not match text length %d", doc.Pages[0].CharCount, len(doc.Text))
	}

	if doc.Pages[0].WordCount == 0 {
		t.Error("expected nonzero word count")
	}
}

func TestPlainTextBackendRejectsOtherExtensions(t *testing.T) {
	backend := &plainTextBackend{}

	if _, err := backend.Extract("document.pdf"); err == nil {
		t.Error("expected error for non-text extension")
	}
}

type fakeBackend struct {
	name string
	doc  *Document
	err  error
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Extract(string) (*Document, error) { return f.doc, f.err }

func TestExtractTriesBackendsInOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")

	if err := os.WriteFile(path, []byte("%PDF-stub"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	good := &Document{
		SourceID:    "doc.pdf",
		Text:        "usable text from the second backend",
		Backend:     "second",
		ExtractedAt: time.Now(),
	}

	e := NewWithBackends(
		&fakeBackend{name: "first", err: errors.New("corrupt xref")},
		&fakeBackend{name: "second", doc: good},
	)

	doc, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.Backend != "second" {
		t.Errorf("expected fallback backend to win, got %s", doc.Backend)
	}
}

func TestExtractSkipsEmptyResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")

	if err := os.WriteFile(path, []byte("%PDF-stub"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	e := NewWithBackends(
		&fakeBackend{name: "empty", doc: &Document{Text: "   "}},
		&fakeBackend{name: "good", doc: &Document{Text: "real content", Backend: "good"}},
	)

	doc, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.Backend != "good" {
		t.Errorf("expected empty result to be skipped, got backend %s", doc.Backend)
	}
}

func TestExtractAllBackendsFailed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")

	if err := os.WriteFile(path, []byte("%PDF-stub"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	e := NewWithBackends(
		&fakeBackend{name: "a", err: errors.New("failed a")},
		&fakeBackend{name: "b", err: errors.New("failed b")},
	)

	_, err := e.Extract(path)
	if !errors.Is(err, ErrAllBackendsFailed) {
		t.Errorf("expected ErrAllBackendsFailed, got %v", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	e := New()

	if _, err := e.Extract(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
