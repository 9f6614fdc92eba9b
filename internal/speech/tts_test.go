package speech

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

func TestSynthesize_TruncatesLongInputOnRuneBoundary(t *testing.T) {
	var gotInput string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotInput = payload.Input
		w.Write([]byte("RIFFwav"))
	}))
	t.Cleanup(server.Close)

	s := NewOpenAISynthesizer("key", server.URL, "", "")
	_, err := s.Synthesize(context.Background(), strings.Repeat("ü", 5000))
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(gotInput))
	assert.Equal(t, 4096, utf8.RuneCountInString(gotInput))
	assert.True(t, strings.HasSuffix(gotInput, "..."))
}

func TestSynthesize_ShortInputUntouched(t *testing.T) {
	var gotInput string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotInput = payload.Input
		w.Write([]byte("RIFFwav"))
	}))
	t.Cleanup(server.Close)

	s := NewOpenAISynthesizer("key", server.URL, "", "")
	_, err := s.Synthesize(context.Background(), "short message")
	require.NoError(t, err)
	assert.Equal(t, "short message", gotInput)
}
