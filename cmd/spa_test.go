package main

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>index</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	spa := spaHandler{staticPath: dir, indexPath: "index.html"}

	w := httptest.NewRecorder()
	spa.ServeHTTP(w, httptest.NewRequest("GET", "/app.js", nil))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")

	w = httptest.NewRecorder()
	spa.ServeHTTP(w, httptest.NewRequest("GET", "/profile/pike", nil))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "index")
}
