// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// ParseBlInfo reads an add-on's __init__.py and extracts its bl_info metadata.
// Returns ErrBlInfoNotFound (wrapped) when the file has no bl_info assignment.
func ParseBlInfo(path string) (*BlInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	info, err := ParseBlInfoBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// ParseBlInfoBytes extracts bl_info metadata from Python source. The parser is
// a tolerant scanner over the dict literal: it understands string values
// (single or double quoted) and integer tuples, and skips anything else up to
// the next top-level comma. It does not execute Python and does not need to.
func ParseBlInfoBytes(src []byte) (*BlInfo, error) {
	body, err := extractDictBody(string(src))
	if err != nil {
		return nil, err
	}

	info := &BlInfo{}
	s := newScanner(body)
	for {
		s.skipSpaceAndComments()
		if s.done() || s.peek() == '}' {
			break
		}

		key, err := s.readString()
		if err != nil {
			return nil, fmt.Errorf("bl_info: bad key: %w", err)
		}
		s.skipSpaceAndComments()
		if !s.consume(':') {
			return nil, fmt.Errorf("bl_info: expected ':' after key %q", key)
		}
		s.skipSpaceAndComments()

		if err := s.readValueInto(info, key); err != nil {
			return nil, err
		}

		s.skipSpaceAndComments()
		s.consume(',')
	}

	if info.Name == "" {
		return nil, fmt.Errorf("bl_info has no \"name\" entry")
	}
	return info, nil
}

// extractDictBody locates the bl_info assignment and returns the text between
// its braces (exclusive), respecting nested braces and string literals.
func extractDictBody(src string) (string, error) {
	idx := findAssignment(src)
	if idx < 0 {
		return "", ErrBlInfoNotFound
	}

	open := strings.IndexByte(src[idx:], '{')
	if open < 0 {
		return "", fmt.Errorf("bl_info assignment has no dict literal")
	}
	start := idx + open + 1

	depth := 1
	i := start
	for i < len(src) {
		switch src[i] {
		case '\'', '"':
			end, err := skipPythonString(src, i)
			if err != nil {
				return "", err
			}
			i = end
			continue
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[start:i], nil
			}
		}
		i++
	}
	return "", fmt.Errorf("bl_info dict literal is not closed")
}

// findAssignment returns the index of a line-leading "bl_info" identifier,
// or -1. Matching at line start avoids false hits in strings or comments.
func findAssignment(src string) int {
	offset := 0
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "bl_info") {
			rest := strings.TrimLeft(trimmed[len("bl_info"):], " \t")
			if strings.HasPrefix(rest, "=") {
				return offset + (len(line) - len(trimmed))
			}
		}
		offset += len(line) + 1
	}
	return -1
}

// skipPythonString advances past the string literal starting at i and returns
// the index just after its closing quote. Handles backslash escapes.
func skipPythonString(src string, i int) (int, error) {
	quote := src[i]
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1, nil
		}
		i++
	}
	return 0, fmt.Errorf("unterminated string literal in bl_info")
}

type blScanner struct {
	src string
	pos int
}

func newScanner(src string) *blScanner {
	return &blScanner{src: src}
}

func (s *blScanner) done() bool {
	return s.pos >= len(s.src)
}

func (s *blScanner) peek() byte {
	return s.src[s.pos]
}

func (s *blScanner) consume(c byte) bool {
	if s.done() || s.src[s.pos] != c {
		return false
	}
	s.pos++
	return true
}

func (s *blScanner) skipSpaceAndComments() {
	for !s.done() {
		c := s.src[s.pos]
		switch {
		case unicode.IsSpace(rune(c)):
			s.pos++
		case c == '#':
			for !s.done() && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

// readString reads a quoted Python string, decoding common escapes.
func (s *blScanner) readString() (string, error) {
	if s.done() || (s.peek() != '\'' && s.peek() != '"') {
		return "", fmt.Errorf("expected string literal")
	}
	quote := s.src[s.pos]
	s.pos++

	var b strings.Builder
	for !s.done() {
		c := s.src[s.pos]
		switch c {
		case '\\':
			s.pos++
			if s.done() {
				return "", fmt.Errorf("unterminated string escape")
			}
			switch s.src[s.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s.src[s.pos])
			}
			s.pos++
		case quote:
			s.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return "", fmt.Errorf("unterminated string literal")
}

// readTuple reads an integer tuple like (1, 0, 0). Extra components beyond
// three are ignored; missing ones stay zero.
func (s *blScanner) readTuple() (Version, error) {
	var v Version
	if !s.consume('(') {
		return v, fmt.Errorf("expected '('")
	}

	for i := 0; ; i++ {
		s.skipSpaceAndComments()
		if s.consume(')') {
			return v, nil
		}

		start := s.pos
		for !s.done() && (s.peek() >= '0' && s.peek() <= '9' || s.peek() == '-') {
			s.pos++
		}
		if start == s.pos {
			return v, fmt.Errorf("expected integer in version tuple")
		}
		n, err := strconv.Atoi(s.src[start:s.pos])
		if err != nil {
			return v, fmt.Errorf("bad version component: %w", err)
		}
		if i < len(v) {
			v[i] = n
		}

		s.skipSpaceAndComments()
		s.consume(',')
	}
}

// skipValue advances past an unrecognized value up to the next top-level comma.
func (s *blScanner) skipValue() error {
	depth := 0
	for !s.done() {
		c := s.peek()
		switch c {
		case '\'', '"':
			if _, err := s.readString(); err != nil {
				return err
			}
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth <= 0 {
				return nil
			}
		}
		s.pos++
	}
	return nil
}

// readValueInto parses the value for a known bl_info key into info, or skips
// the value when the key is unrecognized.
func (s *blScanner) readValueInto(info *BlInfo, key string) error {
	switch key {
	case "name", "author", "location", "description", "category", "warning", "doc_url", "wiki_url":
		v, err := s.readString()
		if err != nil {
			return fmt.Errorf("bl_info[%q]: %w", key, err)
		}
		switch key {
		case "name":
			info.Name = v
		case "author":
			info.Author = v
		case "location":
			info.Location = v
		case "description":
			info.Description = v
		case "category":
			info.Category = v
		case "warning":
			info.Warning = v
		case "doc_url", "wiki_url":
			info.DocURL = v
		}
	case "version", "blender":
		v, err := s.readTuple()
		if err != nil {
			return fmt.Errorf("bl_info[%q]: %w", key, err)
		}
		if key == "version" {
			info.Version = v
		} else {
			info.Blender = v
		}
	default:
		if err := s.skipValue(); err != nil {
			return fmt.Errorf("bl_info[%q]: %w", key, err)
		}
	}
	return nil
}
