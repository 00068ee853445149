package ingest

import (
	"strings"
	"testing"
)

func TestSplit_ShortContentSingleChunk(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "heading with content",
			content: "# Title\n\nSome actual content here.",
		},
		{
			name:    "plain paragraph",
			content: "Just a short paragraph without any headings.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.content)
			chunks := Split(doc, DefaultChunkConfig())

			if len(chunks) != 1 {
				t.Fatalf("Split() got %d chunks, want 1", len(chunks))
			}
			if chunks[0].Position != 0 {
				t.Errorf("chunk position = %d, want 0", chunks[0].Position)
			}
		})
	}
}

func TestSplit_SectionsCarryBreadcrumbs(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# Guide\n\n")
	sb.WriteString("## Setup\n\n")
	sb.WriteString(strings.Repeat("Setup instructions go here. ", 20))
	sb.WriteString("\n\n### Install\n\n")
	sb.WriteString(strings.Repeat("Run the installer and wait. ", 20))
	sb.WriteString("\n\n## Usage\n\n")
	sb.WriteString(strings.Repeat("Call the tool with a question. ", 20))

	doc := Parse(sb.String())
	chunks := Split(doc, DefaultChunkConfig())

	if len(chunks) < 3 {
		t.Fatalf("Split() got %d chunks, want at least 3", len(chunks))
	}

	sawInstall := false
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk.Text) == "" {
			t.Errorf("chunk[%d] is empty", i)
		}
		if chunk.Position != i {
			t.Errorf("chunk[%d] position = %d", i, chunk.Position)
		}
		if strings.Contains(chunk.Section, "### Install") {
			sawInstall = true
			if !strings.Contains(chunk.Section, "# Guide > ## Setup") {
				t.Errorf("install chunk lost its breadcrumb: %q", chunk.Section)
			}
		}
	}
	if !sawInstall {
		t.Error("no chunk carried the Install section path")
	}
}

func TestSplit_TinySectionMergesWithPredecessor(t *testing.T) {
	content := "# Doc\n\n## Big\n\n" +
		strings.Repeat("A sentence of filler content. ", 60) +
		"\n\n## Tiny\n\nShort.\n\n## Another Big\n\n" +
		strings.Repeat("More filler content for the test. ", 60)

	doc := Parse(content)
	chunks := Split(doc, DefaultChunkConfig())

	for _, chunk := range chunks {
		if strings.Contains(chunk.Section, "Tiny") {
			t.Errorf("tiny section should have merged, got standalone chunk %q", chunk.Section)
		}
	}

	merged := false
	for _, chunk := range chunks {
		if strings.Contains(chunk.Text, "Short.") {
			merged = true
		}
	}
	if !merged {
		t.Error("tiny section content was dropped entirely")
	}
}

func TestSplit_OversizedParagraphSplitsAtSentences(t *testing.T) {
	cfg := DefaultChunkConfig()
	para := strings.TrimSpace(strings.Repeat("This sentence pads the paragraph to a large size. ", 40))

	doc := Parse(para)
	chunks := Split(doc, cfg)

	if len(chunks) < 2 {
		t.Fatalf("Split() got %d chunks, want several", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Text) > cfg.MaxSize+cfg.Overlap {
			t.Errorf("chunk[%d] length %d exceeds max %d", i, len(chunk.Text), cfg.MaxSize+cfg.Overlap)
		}
	}
}

func TestApplyOverlap(t *testing.T) {
	chunks := []Chunk{
		{Text: "The quick brown fox jumps over the lazy dog", Position: 0},
		{Text: "Second chunk begins here", Position: 1},
	}

	result := applyOverlap(chunks, 10)

	if result[0].Text != chunks[0].Text {
		t.Errorf("first chunk must be unchanged")
	}
	if !strings.HasSuffix(result[1].Text, "Second chunk begins here") {
		t.Errorf("second chunk lost its content: %q", result[1].Text)
	}
	if !strings.Contains(result[1].Text, "dog Second") {
		t.Errorf("overlap not applied at word boundary: %q", result[1].Text)
	}
}

func TestApplyOverlap_NoopCases(t *testing.T) {
	single := []Chunk{{Text: "only one"}}
	if got := applyOverlap(single, 100); got[0].Text != "only one" {
		t.Errorf("single chunk must be unchanged, got %q", got[0].Text)
	}

	two := []Chunk{{Text: "a"}, {Text: "b"}}
	got := applyOverlap(two, 0)
	if got[1].Text != "b" {
		t.Errorf("zero overlap must be a no-op, got %q", got[1].Text)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First sentence. Second one! A question? Done.")
	if len(got) != 4 {
		t.Fatalf("splitSentences() got %d sentences, want 4: %q", len(got), got)
	}
}
