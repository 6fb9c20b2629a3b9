package common

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPass(t *testing.T) {
	h1 := HashPass("secret", "12345678")
	h2 := HashPass("secret", "12345678")
	h3 := HashPass("secret", "87654321")

	assert.Equal(t, "12345678", string(h1[:SaltLen]))
	assert.True(t, bytes.Equal(h1, h2))
	assert.False(t, bytes.Equal(h1, h3))
}

func TestRandStringRunes(t *testing.T) {
	s := RandStringRunes(12)
	assert.Len(t, s, 12)
	for _, r := range s {
		assert.Contains(t, string(letterRunes), string(r))
	}
}

func TestWriteMsg(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMsg(w, "post not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"post not found"}`, w.Body.String())
}

func TestQueryInt(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"limit=5", 5},
		{"limit=abc", 20},
		{"limit=-3", 20},
		{"limit=500", 100},
	}
	for _, c := range cases {
		r := httptest.NewRequest("GET", "/api/posts?"+c.query, nil)
		assert.Equal(t, c.want, QueryInt(r, "limit", 20, 100), c.query)
	}
}
