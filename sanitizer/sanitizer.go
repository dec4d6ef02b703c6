// FILE: lixenwraith/qlog/sanitizer/sanitizer.go

// Package sanitizer rewrites untrusted text before it is embedded in a log
// line. Rules pair a rune filter with a transform and are applied in order,
// first match wins. A Sanitizer is immutable once built and safe for
// concurrent use.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filter flags for rune matching
const (
	FilterNonPrintable uint64 = 1 << iota // runes strconv.IsPrint rejects
	FilterControl                         // unicode.IsControl
	FilterLineBreak                       // '\n', '\r', U+2028, U+2029
	FilterEscape                          // ESC, the start of ANSI sequences
)

// Transform flags
const (
	TransformStrip     uint64 = 1 << iota // drop the rune
	TransformHexEncode                    // "<0a>" style UTF-8 hex
	TransformEscape                       // backslash escape, e.g. "\n", "\x1b"
	TransformSpace                        // replace with a single space
)

// PolicyPreset names a pre-configured rule set.
type PolicyPreset string

const (
	PolicyRaw    PolicyPreset = "raw"    // passthrough
	PolicyTxt    PolicyPreset = "txt"    // hex-encode non-printables
	PolicyEscape PolicyPreset = "escape" // backslash-escape control runes
	PolicyFlat   PolicyPreset = "flat"   // line breaks become spaces, other controls stripped
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:    {},
	PolicyTxt:    {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyEscape: {{filter: FilterControl | FilterLineBreak, transform: TransformEscape}},
	PolicyFlat: {
		{filter: FilterLineBreak, transform: TransformSpace},
		{filter: FilterControl | FilterEscape, transform: TransformStrip},
	},
}

// Valid reports whether name is a known policy preset.
func Valid(name string) bool {
	_, ok := policyRules[PolicyPreset(name)]
	return ok
}

// Sanitizer holds an ordered rule list.
type Sanitizer struct {
	rules []rule
}

// New creates a passthrough Sanitizer.
func New() *Sanitizer {
	return &Sanitizer{}
}

// ForPolicy creates a Sanitizer for a preset. Unknown names yield passthrough.
func ForPolicy(preset PolicyPreset) *Sanitizer {
	return New().Policy(preset)
}

// Rule appends a custom rule and returns a new Sanitizer.
func (s *Sanitizer) Rule(filter, transform uint64) *Sanitizer {
	rules := append(append([]rule(nil), s.rules...), rule{filter: filter, transform: transform})
	return &Sanitizer{rules: rules}
}

// Policy appends a preset's rules and returns a new Sanitizer.
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	rules := append(append([]rule(nil), s.rules...), policyRules[preset]...)
	return &Sanitizer{rules: rules}
}

// Sanitize applies the rules to data. Input that no rule touches is
// returned without copying.
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}
	i := s.firstMatch(data)
	if i < 0 {
		return data
	}
	var b strings.Builder
	b.Grow(len(data) + 8)
	b.WriteString(data[:i])
	out := s.appendFrom(nil, data[i:])
	b.Write(out)
	return b.String()
}

// Append appends the sanitized form of data to dst.
func (s *Sanitizer) Append(dst []byte, data string) []byte {
	if len(s.rules) == 0 {
		return append(dst, data...)
	}
	return s.appendFrom(dst, data)
}

func (s *Sanitizer) firstMatch(data string) int {
	for i, r := range data {
		if s.match(r) >= 0 {
			return i
		}
	}
	return -1
}

func (s *Sanitizer) match(r rune) int {
	for i, rl := range s.rules {
		if matchesFilter(r, rl.filter) {
			return i
		}
	}
	return -1
}

func (s *Sanitizer) appendFrom(dst []byte, data string) []byte {
	for _, r := range data {
		if i := s.match(r); i >= 0 {
			dst = applyTransform(dst, r, s.rules[i].transform)
			continue
		}
		dst = utf8.AppendRune(dst, r)
	}
	return dst
}

func matchesFilter(r rune, mask uint64) bool {
	if mask&FilterNonPrintable != 0 && !strconv.IsPrint(r) {
		return true
	}
	if mask&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if mask&FilterLineBreak != 0 {
		switch r {
		case '\n', '\r', '\u2028', '\u2029':
			return true
		}
	}
	if mask&FilterEscape != 0 && r == 0x1b {
		return true
	}
	return false
}

func applyTransform(dst []byte, r rune, mask uint64) []byte {
	switch {
	case mask&TransformStrip != 0:
		return dst

	case mask&TransformSpace != 0:
		return append(dst, ' ')

	case mask&TransformHexEncode != 0:
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], r)
		dst = append(dst, '<')
		dst = hex.AppendEncode(dst, rb[:n])
		return append(dst, '>')

	case mask&TransformEscape != 0:
		switch r {
		case '\n':
			return append(dst, '\\', 'n')
		case '\r':
			return append(dst, '\\', 'r')
		case '\t':
			return append(dst, '\\', 't')
		}
		q := strconv.QuoteRuneToASCII(r)
		return append(dst, q[1:len(q)-1]...)
	}
	return utf8.AppendRune(dst, r)
}
