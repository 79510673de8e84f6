package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var counterRe = regexp.MustCompile(`\{counter(?::(\d+))?\}`)

// DefaultTemplate is used when a tenant has no invoice_format configured.
const DefaultTemplate = "INV-{YYYY}-{counter:5}"

// Render formats a human-readable invoice number from a template, the
// tenant's monotonic counter value, and the issuance date.
//
// Date tokens: {YYYY} {YY} {MM} {DD}. Counter tokens: {counter} and
// {counter:N} (left-zero-padded to width N). Replacement is order
// independent and literal text is never altered.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func Render(template string, counter int64, now time.Time) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}

	out := template

	// Date tokens
	out = strings.ReplaceAll(out, "{YYYY}", now.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", now.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", now.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", now.Format("02"))

	// Counter tokens, single pass over every occurrence.
	replaced := false
	out = counterRe.ReplaceAllStringFunc(out, func(m string) string {
		replaced = true

		match := counterRe.FindStringSubmatch(m)
		width := 1
		if len(match) == 2 && match[1] != "" {
			parsed, err := strconv.Atoi(match[1])
			if err == nil && parsed >= 0 {
				width = parsed
			}
		}

		return fmt.Sprintf("%0*d", width, counter)
	})

	// A template without a counter token would silently collide, so the
	// counter is appended as a suffix instead.
	if !replaced {
		out = fmt.Sprintf("%s-%d", out, counter)
	}

	return out
}
