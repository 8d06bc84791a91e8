package detect

import "strings"

// splitObjects cuts s into top-level brace-balanced chunks. Quoted text is
// skipped, separators (',' ';' and whitespace) between chunks are dropped,
// and a chunk ends as soon as its nesting depth drops back to zero or below.
// An unmatched closer with nothing before it is dropped rather than becoming
// an empty chunk. Text after the last closing brace forms a final chunk.
func splitObjects(s string) []string {
	var (
		chunks []string
		depth  int
		start  = -1
		quote  byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		if start < 0 {
			if c == ',' || c == ';' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				continue
			}
			start = i
			depth = 0
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth < 0 && strings.TrimSpace(s[start:i]) == "" {
				start = -1
				continue
			}
			if depth <= 0 {
				chunks = append(chunks, s[start:i+1])
				start = -1
			}
		}
	}
	if start >= 0 {
		if rest := strings.TrimSpace(s[start:]); rest != "" {
			chunks = append(chunks, rest)
		}
	}
	for i, c := range chunks {
		if !strings.HasPrefix(c, "{") {
			chunks[i] = "{" + c
		}
	}
	return chunks
}
