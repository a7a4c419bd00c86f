package extract

import (
	"bytes"
	"encoding/json"
)

// findJSONArray returns the first well-formed JSON array in text that holds
// at least one object. Brackets inside string literals are ignored, so prose,
// code fences and quoted brackets do not confuse it. Arrays without objects,
// such as a "[1]" footnote or a wrapping "[[...]]", are skipped; if no array
// holds an object the first well-formed one is returned.
func findJSONArray(text string) (json.RawMessage, bool) {
	var fallback json.RawMessage
	for start := 0; start < len(text); start++ {
		if text[start] != '[' {
			continue
		}
		end, ok := matchBracket(text, start)
		if !ok {
			continue
		}
		candidate := json.RawMessage(text[start : end+1])
		if !json.Valid(candidate) {
			continue
		}
		if holdsObject(candidate) {
			return candidate, true
		}
		if fallback == nil {
			fallback = candidate
		}
	}
	return fallback, fallback != nil
}

func holdsObject(arr json.RawMessage) bool {
	var items []json.RawMessage
	if err := json.Unmarshal(arr, &items); err != nil {
		return false
	}
	for _, it := range items {
		if t := bytes.TrimSpace(it); len(t) > 0 && t[0] == '{' {
			return true
		}
	}
	return false
}

// matchBracket finds the index of the ']' closing the '[' at open.
func matchBracket(text string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(text); i++ {
		ch := text[i]
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
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				if ch != ']' {
					return 0, false
				}
				return i, true
			}
			if depth < 0 {
				return 0, false
			}
		}
	}
	return 0, false
}
