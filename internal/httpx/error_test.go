package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_TruncatesOnRuneBoundary(t *testing.T) {
	// "é" is two bytes, so a byte limit of 5 falls inside the third rune.
	got := sanitize("ééé", 5)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "éé", got)
}

func TestSanitize_FlattensNewlines(t *testing.T) {
	assert.Equal(t, "line one  line two", sanitize(" line one\r\nline two \n", 0))
}

func TestWriteError_LongMultibyteMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	msg := strings.Repeat("ü", 300)

	WriteError(context.Background(), rec, NewError("order_failed", msg, 0))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	message, _ := body["message"].(string)
	assert.Equal(t, strings.Repeat("ü", 256), message)
	assert.NotContains(t, body, "request_id")
}
