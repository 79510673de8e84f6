package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var march5 = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

func TestRenderDefaultTemplate(t *testing.T) {
	assert.Equal(t, "INV-2024-00007", Render("", 7, march5))
}

func TestRenderDateAndPaddedCounter(t *testing.T) {
	assert.Equal(t, "REF-2403-042", Render("REF-{YY}{MM}-{counter:3}", 42, march5))
}

func TestRenderAllDateTokens(t *testing.T) {
	assert.Equal(t, "2024-24-03-05-1", Render("{YYYY}-{YY}-{MM}-{DD}", 1, march5))
}

func TestRenderBareCounterHasNoPadding(t *testing.T) {
	assert.Equal(t, "A-9", Render("A-{counter}", 9, march5))
	assert.Equal(t, "A-1234", Render("A-{counter}", 1234, march5))
}

func TestRenderCounterWiderThanPadding(t *testing.T) {
	assert.Equal(t, "X-123456", Render("X-{counter:3}", 123456, march5))
}

func TestRenderEveryCounterOccurrenceRewritten(t *testing.T) {
	assert.Equal(t, "7/007", Render("{counter}/{counter:3}", 7, march5))
}

func TestRenderMissingCounterTokenAppendsSuffix(t *testing.T) {
	assert.Equal(t, "STATIC-3", Render("STATIC", 3, march5))
	assert.Equal(t, "INV-2024-12", Render("INV-{YYYY}", 12, march5))
}

func TestRenderLiteralTextUntouched(t *testing.T) {
	assert.Equal(t, "{nope}-001", Render("{nope}-{counter:3}", 1, march5))
}

func TestRenderDistinctCountersDistinctNumbers(t *testing.T) {
	seen := make(map[string]bool)
	for i := int64(1); i <= 50; i++ {
		n := Render("", i, march5)
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
}
