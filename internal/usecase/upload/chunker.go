package upload

// Chunker splits text into overlapping windows for retrieval.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. overlap must be smaller than size.
func NewChunker(size, overlap int) Chunker {
	if size <= 0 {
		size = 500
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return Chunker{size: size, overlap: overlap}
}

// Split cuts text into chunks of at most size runes, each sharing overlap
// runes with its predecessor. Empty input yields no chunks.
func (c Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
