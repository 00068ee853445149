package ingest

import (
	"strings"
	"unicode"
)

// Chunk is one indexable piece of a document.
type Chunk struct {
	Text     string
	Position int
	Section  string // breadcrumb of the section the chunk came from
}

// ChunkConfig defines chunking parameters.
type ChunkConfig struct {
	// Threshold: only chunk if content exceeds this length
	Threshold int
	// TargetSize: ideal chunk size
	TargetSize int
	// MinSize: minimum chunk size (smaller chunks merge with neighbors)
	MinSize int
	// MaxSize: maximum chunk size (larger chunks split at sentences)
	MaxSize int
	// Overlap: character overlap between chunks
	Overlap int
}

// DefaultChunkConfig returns sensible defaults for embedding-sized chunks.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Threshold:  1500,
		TargetSize: 750,
		MinSize:    200,
		MaxSize:    1000,
		Overlap:    100,
	}
}

// Split breaks a document into chunks. Short documents become a single
// chunk; longer ones split at section boundaries first, then paragraphs,
// then sentences.
func Split(doc *Document, cfg ChunkConfig) []Chunk {
	if len(doc.Body) <= cfg.Threshold {
		return []Chunk{{Text: doc.Body, Position: 0}}
	}
	if len(doc.Sections) > 0 {
		return splitSections(doc.Sections, cfg)
	}
	return splitParagraphs(doc.Body, cfg)
}

func splitSections(sections []Section, cfg ChunkConfig) []Chunk {
	var chunks []Chunk
	position := 0

	for _, section := range sections {
		if strings.TrimSpace(section.Content) == "" {
			continue
		}
		if len(section.Content) <= cfg.MaxSize {
			if len(section.Content) >= cfg.MinSize || len(chunks) == 0 {
				chunks = append(chunks, Chunk{
					Text:     section.Content,
					Position: position,
					Section:  section.Path,
				})
				position++
			} else {
				// Merge a tiny section into its predecessor.
				last := &chunks[len(chunks)-1]
				last.Text += "\n\n" + section.Content
			}
			continue
		}

		for _, pc := range splitParagraphs(section.Content, cfg) {
			chunks = append(chunks, Chunk{
				Text:     pc.Text,
				Position: position,
				Section:  section.Path,
			})
			position++
		}
	}

	return applyOverlap(chunks, cfg.Overlap)
}

func splitParagraphs(content string, cfg ChunkConfig) []Chunk {
	paragraphs := strings.Split(content, "\n\n")

	var chunks []Chunk
	var current strings.Builder
	position := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, Chunk{
				Text:     strings.TrimSpace(current.String()),
				Position: position,
			})
			position++
			current.Reset()
		}
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if current.Len()+len(para) > cfg.MaxSize && current.Len() > 0 {
			flush()
		}

		// A single oversized paragraph splits at sentence boundaries.
		if len(para) > cfg.MaxSize {
			flush()
			for _, sentence := range splitSentenceRuns(para, cfg) {
				chunks = append(chunks, Chunk{Text: sentence, Position: position})
				position++
			}
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}

// splitSentenceRuns groups sentences into runs close to the target size.
func splitSentenceRuns(text string, cfg ChunkConfig) []string {
	var runs []string
	var current strings.Builder

	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if current.Len()+len(sentence) > cfg.TargetSize && current.Len() > 0 {
			runs = append(runs, strings.TrimSpace(current.String()))
			current.Reset()
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}

	if current.Len() > 0 {
		runs = append(runs, strings.TrimSpace(current.String()))
	}
	return runs
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				// Skip likely abbreviations like "Dr."
				if i > 1 && unicode.IsUpper(runes[i-1]) {
					continue
				}
				sentences = append(sentences, current.String())
				current.Reset()
			}
		}
	}

	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

// applyOverlap prepends the tail of each chunk to its successor so context
// survives chunk boundaries.
func applyOverlap(chunks []Chunk, overlap int) []Chunk {
	if overlap <= 0 || len(chunks) <= 1 {
		return chunks
	}

	result := make([]Chunk, len(chunks))
	copy(result, chunks)

	for i := 1; i < len(result); i++ {
		prev := result[i-1].Text
		if len(prev) <= overlap {
			continue
		}
		tail := prev[len(prev)-overlap:]
		// Snap to a word boundary.
		if idx := strings.LastIndex(tail, " "); idx > 0 {
			tail = tail[idx+1:]
		}
		result[i].Text = tail + " " + result[i].Text
	}

	return result
}
