package chunking

import (
	"fmt"
	"strings"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

// Splitter cuts text into fixed-size overlapping chunks. Splitting is pure:
// identical input and config always yield the identical ordered sequence.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter validates the chunking config. Overlap must be strictly
// smaller than size, otherwise the window never advances.
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, domain.WrapError(domain.ErrConfiguration, "chunking",
			fmt.Errorf("chunk size must be positive, got %d", chunkSize))
	}
	if overlap < 0 {
		return nil, domain.WrapError(domain.ErrConfiguration, "chunking",
			fmt.Errorf("overlap must not be negative, got %d", overlap))
	}
	if overlap >= chunkSize {
		return nil, domain.WrapError(domain.ErrConfiguration, "chunking",
			fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, chunkSize))
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

func (s *Splitter) Split(text string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.chunkSize - s.overlap
	out := make([]domain.Chunk, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, domain.Chunk{
			Index:     len(out),
			Content:   string(runes[start:end]),
			ChunkType: chunkTypeFor(string(runes[start:end])),
		})
		if end == len(runes) {
			break
		}
	}
	return out
}

func chunkTypeFor(content string) string {
	if strings.Contains(content, "\n\n") {
		return "section"
	}
	return "paragraph"
}
