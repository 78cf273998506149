package llm

import (
	"errors"
	"strings"
)

// ErrNoJSON is returned when no JSON value is found in a text.
var ErrNoJSON = errors.New("no json object or array is found")

// ExtractJSON returns the first balanced JSON object or array in text.
//
// Markdown code fences and prose around the value are ignored.
// Brackets in JSON strings are not counted.
func ExtractJSON(text string) (string, error) {
	text = stripFence(text)

	start := strings.IndexAny(text, "{[")
	for start >= 0 {
		if end, ok := balanced(text[start:]); ok {
			return text[start : start+end], nil
		}
		next := strings.IndexAny(text[start+1:], "{[")
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSON
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}
	body := text[open+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// language tag, like ```json
		if tag := strings.TrimSpace(body[:nl]); !strings.ContainsAny(tag, "{[") {
			body = body[nl+1:]
		}
	}
	if close := strings.Index(body, "```"); close >= 0 {
		body = body[:close]
	}
	return strings.TrimSpace(body)
}

// balanced returns the length of the bracketed value at the head of s.
func balanced(s string) (int, bool) {
	stack := []byte{}
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
