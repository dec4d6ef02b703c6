// FILE: lixenwraith/qlog/sanitizer/sanitizer_test.go
package sanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerPolicies(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		policy   PolicyPreset
		expected string
	}{
		{
			name:     "raw passes through",
			input:    "hello\x00world\n",
			policy:   PolicyRaw,
			expected: "hello\x00world\n",
		},
		{
			name:     "txt hex encodes newline",
			input:    "first\nsecond",
			policy:   PolicyTxt,
			expected: "first<0a>second",
		},
		{
			name:     "txt hex encodes control chars",
			input:    "bell\x07tab\x09form\x0c",
			policy:   PolicyTxt,
			expected: "bell<07>tab<09>form<0c>",
		},
		{
			name:     "txt multi-byte control",
			input:    "line1\u0085line2",
			policy:   PolicyTxt,
			expected: "line1<c285>line2",
		},
		{
			name:     "txt preserves UTF-8",
			input:    "Hello 世界 ✓",
			policy:   PolicyTxt,
			expected: "Hello 世界 ✓",
		},
		{
			name:     "escape common control chars",
			input:    "line1\nline2\ttab\rreturn",
			policy:   PolicyEscape,
			expected: `line1\nline2\ttab\rreturn`,
		},
		{
			name:     "escape ansi introducer",
			input:    "\x1b[31mred",
			policy:   PolicyEscape,
			expected: `\x1b[31mred`,
		},
		{
			name:     "flat turns line breaks into spaces",
			input:    "a\nb\r\nc\x1b[0m",
			policy:   PolicyFlat,
			expected: "a b  c[0m",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ForPolicy(tc.policy).Sanitize(tc.input)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSanitizerSingleLine(t *testing.T) {
	inputs := []string{
		"multi\nline\nmessage",
		"crlf\r\nending",
		"separator here",
		strings.Repeat("\n", 32),
	}
	for _, policy := range []PolicyPreset{PolicyTxt, PolicyEscape, PolicyFlat} {
		s := ForPolicy(policy)
		for _, in := range inputs {
			out := s.Sanitize(in)
			assert.NotContains(t, out, "\n", "policy %s", policy)
			assert.NotContains(t, out, "\r", "policy %s", policy)
		}
	}
}

func TestSanitizerAppend(t *testing.T) {
	s := ForPolicy(PolicyTxt)
	dst := []byte("prefix: ")
	dst = s.Append(dst, "a\nb")
	assert.Equal(t, "prefix: a<0a>b", string(dst))

	dst = New().Append(nil, "raw\n")
	assert.Equal(t, "raw\n", string(dst))
}

func TestSanitizerRuleChaining(t *testing.T) {
	base := New()
	strip := base.Rule(FilterControl, TransformStrip)

	assert.Equal(t, "a\tb", base.Sanitize("a\tb"), "base must stay passthrough")
	assert.Equal(t, "ab", strip.Sanitize("a\tb"))

	// First matching rule wins
	chained := New().
		Rule(FilterLineBreak, TransformSpace).
		Rule(FilterControl, TransformHexEncode)
	assert.Equal(t, "a b<09>c", chained.Sanitize("a\nb\tc"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("txt"))
	assert.True(t, Valid("raw"))
	assert.True(t, Valid("escape"))
	assert.True(t, Valid("flat"))
	assert.False(t, Valid("json"))
	assert.False(t, Valid(""))
}

func BenchmarkSanitizerClean(b *testing.B) {
	s := ForPolicy(PolicyTxt)
	input := strings.Repeat("clean text without control runes ", 8)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = s.Sanitize(input)
	}
}
