package textproc

import (
	"iter"
	"strings"
)

// Chunk splits text into substrings no longer than maxSize, each
// consecutive pair sharing exactly overlap characters. Splits prefer line
// boundaries when one exists far enough into the chunk to keep making
// progress. The returned sequence is lazy and restartable; dropping the
// first overlap characters of every chunk after the first and
// concatenating reconstructs the original text exactly.
//
// overlap must be smaller than maxSize; the config validator enforces
// this before a processor is ever built.
func Chunk(text string, maxSize, overlap int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}
		if maxSize <= 0 || len(text) <= maxSize {
			yield(text)
			return
		}
		if overlap < 0 || overlap >= maxSize {
			overlap = 0
		}

		start := 0
		for {
			end := start + maxSize
			if end >= len(text) {
				yield(text[start:])
				return
			}

			// Prefer ending on a newline, but only one past the overlap
			// region so every step advances.
			if idx := strings.LastIndexByte(text[start+overlap+1:end], '\n'); idx >= 0 {
				end = start + overlap + 1 + idx + 1
			}

			if !yield(text[start:end]) {
				return
			}
			start = end - overlap
		}
	}
}

// ChunkAll collects Chunk's sequence into a slice.
func ChunkAll(text string, maxSize, overlap int) []string {
	var chunks []string
	for chunk := range Chunk(text, maxSize, overlap) {
		chunks = append(chunks, chunk)
	}
	return chunks
}
