package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// This file is the single lenient structured decoder shared by every stage.
// The fallback ladder is fixed:
//
//  1. strict parse of the whole response
//  2. extraction from markdown code blocks or the first raw JSON value
//  3. brace-balancing repair of truncated JSON
//  4. heuristic line-based list reconstruction (SplitList)
//
// Stages never apply their own ad hoc leniency rules.

// codeBlockPattern matches markdown code blocks with optional language tag
// Captures: (1) optional language, (2) content
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// numericLinePattern matches lines that are nothing but digits, list
// markers, or punctuation and carry no content.
var numericLinePattern = regexp.MustCompile(`^[\d\s.)\-•*]+$`)

// listMarkerPattern strips leading numbered-list and bullet markers.
var listMarkerPattern = regexp.MustCompile(`^\s*(?:\d+[.)]|[-•*])\s*`)

// LenientJSON decodes an LLM response into a JSON object, walking the
// fallback ladder. Returns a parse error only when every rung fails.
func LenientJSON(response string) (map[string]any, error) {
	// Rung 1: the response is already a clean JSON object.
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &obj); err == nil {
		return obj, nil
	}

	// Rung 2: JSON wrapped in markdown or surrounded by prose.
	if jsonStr, found := extractJSON(response); found {
		if err := json.Unmarshal([]byte(jsonStr), &obj); err == nil {
			return obj, nil
		}
	}

	// Rung 3: truncated JSON, repair by balancing braces.
	if candidate, found := firstJSONFragment(response); found {
		repaired := RepairJSON(candidate)
		if err := json.Unmarshal([]byte(repaired), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, NewParseError("no JSON object found in response", nil)
}

// extractJSON finds a complete JSON value in a response that may be wrapped
// in markdown. Priority: code blocks tagged json (or untagged), then the
// first balanced raw JSON value.
func extractJSON(response string) (string, bool) {
	matches := codeBlockPattern.FindAllStringSubmatch(response, -1)
	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		// Skip blocks explicitly tagged as other languages.
		if lang != "" && lang != "json" {
			continue
		}

		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			if isValidJSON(content) {
				return content, true
			}
		}
	}

	if candidate, found := firstJSONFragment(response); found {
		if balanced := findMatchingBracket(candidate); balanced != "" && isValidJSON(balanced) {
			return balanced, true
		}
	}

	return "", false
}

// firstJSONFragment returns the response from the first { or [ onward.
func firstJSONFragment(response string) (string, bool) {
	startObj := strings.Index(response, "{")
	startArr := strings.Index(response, "[")

	start := -1
	if startObj >= 0 && (startArr < 0 || startObj < startArr) {
		start = startObj
	} else if startArr >= 0 {
		start = startArr
	}

	if start < 0 {
		return "", false
	}
	return response[start:], true
}

// findMatchingBracket finds the complete JSON value by matching brackets.
// Returns "" when the brackets never balance (truncated output).
func findMatchingBracket(s string) string {
	if len(s) == 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	return ""
}

// RepairJSON balances a truncated JSON fragment so it parses: it closes an
// unterminated string, trims a dangling comma or colon, and appends the
// missing closing brackets in stack order.
func RepairJSON(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString {
		s += `"`
	}

	trimmed := strings.TrimRight(s, " \t\n")
	for len(trimmed) > 0 {
		last := trimmed[len(trimmed)-1]
		if last == ',' || last == ':' {
			// A dangling colon loses its key as well.
			if last == ':' {
				if idx := strings.LastIndexByte(trimmed[:len(trimmed)-1], '"'); idx >= 0 {
					if open := strings.LastIndexByte(trimmed[:idx], '"'); open >= 0 {
						trimmed = strings.TrimRight(trimmed[:open], " \t\n,")
						continue
					}
				}
			}
			trimmed = strings.TrimRight(trimmed[:len(trimmed)-1], " \t\n")
			continue
		}
		break
	}
	s = trimmed

	for i := len(stack) - 1; i >= 0; i-- {
		s += string(stack[i])
	}

	return s
}

// SplitList reconstructs a string list from free text, splitting on
// semicolons, newlines, and numbered-list markers. Empty and pure-numeric
// lines are discarded.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ';'
	})

	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(listMarkerPattern.ReplaceAllString(part, ""))
		if item == "" || numericLinePattern.MatchString(item) {
			continue
		}
		items = append(items, item)
	}

	return items
}

// DecodeAs decodes a loosely typed output map into a typed value using
// weakly typed conversion, so "8" satisfies an int field and a single
// string satisfies a list field.
func DecodeAs[T any](input map[string]any) (T, error) {
	var result T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return result, NewParseError("failed to build output decoder", err)
	}

	if err := decoder.Decode(input); err != nil {
		return result, NewParseError("output did not match expected shape", err)
	}

	return result, nil
}

// isValidJSON checks if a string is valid JSON.
func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}
