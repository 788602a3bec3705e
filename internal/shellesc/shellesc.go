package shellesc

import "strings"

// Escape prepares a value for embedding inside the double-quoted command
// string handed to a remote shell over ssh. Each double or single quote is
// prefixed with a backslash; every other character passes through untouched.
//
// Known limitation: shell metacharacters ($, backticks, ;) are NOT escaped.
// The generated command strings are an observable contract, so this keeps
// parity with what operators already see rather than hardening silently.
func Escape(s string) string {
	if !strings.ContainsAny(s, `"'`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if r == '"' || r == '\'' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
