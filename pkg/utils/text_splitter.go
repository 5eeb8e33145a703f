package utils

import "unicode"

// SplitText splits a long string into chunks of at most chunkSize runes.
// Consecutive chunks share overlap runes to preserve context at boundaries.
// A chunk end is pulled back to the last whitespace in its final quarter so
// words are not cut in half when that is cheap to avoid.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if chunkSize <= 0 || totalLen <= chunkSize {
		return []string{text}
	}

	if overlap < 0 || overlap >= chunkSize {
		overlap = 0 // fallback if overlap >= chunkSize
	}

	var chunks []string
	for start := 0; start < totalLen; {
		end := start + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		for cut := end; cut > end-chunkSize/4 && cut > start+overlap; cut-- {
			if unicode.IsSpace(runes[cut-1]) {
				end = cut
				break
			}
		}

		chunks = append(chunks, string(runes[start:end]))
		start = end - overlap
	}

	return chunks
}
