package chunker

import (
	"fmt"
	"strings"
	"testing"

	"codeberg.org/taxdesk/server/internal/extractor"
)

func testDocument(text string) *extractor.Document {
	return &extractor.Document{
		SourceID: "pub-501.pdf",
		Path:     "input/pub-501.pdf",
		Text:     text,
		Pages: []extractor.Page{
			{Number: 1, CharCount: len(text) / 3},
			{Number: 2, CharCount: len(text) / 3},
			{Number: 3, CharCount: len(text) / 3},
		},
	}
}

// builds roughly 900 characters of sentence-structured text in a
// single paragraph, so splitting happens on word boundaries and the
// overlap window carries between every adjacent chunk pair
func nineHundredChars() string {
	var sb strings.Builder

	for i := 0; sb.Len() < 900; i++ {
		fmt.Fprintf(&sb, "Sentence number %d explains one more detail about filing status and dependents. ", i)
	}

	return strings.TrimSpace(sb.String())
}

func TestSplitRespectsChunkSize(t *testing.T) {
	doc := testDocument(nineHundredChars())
	opts := Options{ChunkSize: 300, Overlap: 50}

	chunks, err := Split(doc, opts)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks from ~900 chars at size 300, got %d", len(chunks))
	}

	for _, c := range chunks {
		if c.CharCount > opts.ChunkSize {
			t.Errorf("chunk %d exceeds chunk size: %d > %d", c.Index, c.CharCount, opts.ChunkSize)
		}

		if c.CharCount != len(c.Text) {
			t.Errorf("chunk %d char count %d does not match text length %d", c.Index, c.CharCount, len(c.Text))
		}

		if c.TotalChunks != len(chunks) {
			t.Errorf("chunk %d reports %d total chunks, want %d", c.Index, c.TotalChunks, len(chunks))
		}

		if c.PageCount != 3 {
			t.Errorf("chunk %d page count = %d, want 3", c.Index, c.PageCount)
		}
	}
}

func TestSplitChunkIDsAreDeterministic(t *testing.T) {
	doc := testDocument(nineHundredChars())
	opts := Options{ChunkSize: 300, Overlap: 50}

	first, err := Split(doc, opts)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	second, err := Split(doc, opts)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("non-deterministic chunk count: %d vs %d", len(first), len(second))
	}

	for i := range first {
		if first[i].ID != second[i].ID || first[i].Text != second[i].Text {
			t.Errorf("chunk %d differs between runs", i)
		}

		wantID := fmt.Sprintf("pub-501.pdf_chunk_%d", i)
		if first[i].ID != wantID {
			t.Errorf("chunk ID = %q, want %q", first[i].ID, wantID)
		}
	}
}

// returns the largest k such that a ends with the first k bytes of b
func overlapLen(a, b string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}

	for k := max; k > 0; k-- {
		if strings.HasSuffix(a, b[:k]) {
			return k
		}
	}

	return 0
}

func TestSplitOverlapCarriesAcrossChunks(t *testing.T) {
	doc := testDocument(nineHundredChars())
	opts := Options{ChunkSize: 300, Overlap: 50}

	chunks, err := Split(doc, opts)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(chunks) < 2 {
		t.Fatal("need at least 2 chunks to check overlap")
	}

	for i := 1; i < len(chunks); i++ {
		shared := overlapLen(chunks[i-1].Text, chunks[i].Text)

		if shared == 0 {
			t.Errorf("chunks %d and %d share no overlap", i-1, i)
		}

		if shared > opts.Overlap {
			t.Errorf("chunks %d and %d share %d chars, more than the %d overlap budget", i-1, i, shared, opts.Overlap)
		}
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	paraA := strings.Repeat("alpha ", 16) + "end."  // ~100 chars
	paraB := strings.Repeat("bravo ", 16) + "end."  // ~100 chars
	paraC := strings.Repeat("charlie ", 12) + "end" // ~99 chars

	doc := testDocument(paraA + "\n\n" + paraB + "\n\n" + paraC)

	chunks, err := Split(doc, Options{ChunkSize: 150, Overlap: 20})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected one chunk per paragraph, got %d chunks", len(chunks))
	}

	for i, want := range []string{paraA, paraB, paraC} {
		if chunks[i].Text != strings.TrimSpace(want) {
			t.Errorf("chunk %d is not a whole paragraph:\ngot:  %q\nwant: %q", i, chunks[i].Text, want)
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		chunks, err := Split(testDocument(text), DefaultOptions())
		if err != nil {
			t.Fatalf("Split(%q) failed: %v", text, err)
		}

		if len(chunks) != 0 {
			t.Errorf("expected empty sequence for %q, got %d chunks", text, len(chunks))
		}
	}
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	text := "One short paragraph that fits in a single chunk."

	chunks, err := Split(testDocument(text), DefaultOptions())
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	if chunks[0].Text != text {
		t.Errorf("chunk text = %q, want %q", chunks[0].Text, text)
	}
}

func TestSplitUnbrokenText(t *testing.T) {
	// no paragraph breaks, line breaks, or spaces: forces the
	// raw character boundary fallback
	doc := testDocument(strings.Repeat("x", 1000))
	opts := Options{ChunkSize: 100, Overlap: 10}

	chunks, err := Split(doc, opts)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(chunks) < 10 {
		t.Errorf("expected at least 10 chunks, got %d", len(chunks))
	}

	for _, c := range chunks {
		if c.CharCount > opts.ChunkSize {
			t.Errorf("chunk %d exceeds chunk size: %d", c.Index, c.CharCount)
		}
	}
}

func TestSplitRejectsBadOptions(t *testing.T) {
	doc := testDocument("some text")

	if _, err := Split(doc, Options{ChunkSize: 0, Overlap: 0}); err == nil {
		t.Error("expected error for zero chunk size")
	}

	if _, err := Split(doc, Options{ChunkSize: 100, Overlap: 100}); err == nil {
		t.Error("expected error for overlap equal to chunk size")
	}
}

func TestComputeStats(t *testing.T) {
	doc := testDocument(nineHundredChars())

	chunks, err := Split(doc, Options{ChunkSize: 300, Overlap: 50})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	stats := ComputeStats(chunks)

	if stats.TotalChunks != len(chunks) {
		t.Errorf("stats total = %d, want %d", stats.TotalChunks, len(chunks))
	}

	if stats.UniqueSources != 1 {
		t.Errorf("unique sources = %d, want 1", stats.UniqueSources)
	}

	if stats.MaxChars > 300 {
		t.Errorf("max chars = %d, want <= 300", stats.MaxChars)
	}

	if stats.MinChars == 0 || stats.AvgChars == 0 {
		t.Error("expected nonzero min and avg chars")
	}

	if got := ComputeStats(nil); got.TotalChunks != 0 {
		t.Errorf("stats over empty input should be zero, got %+v", got)
	}
}
