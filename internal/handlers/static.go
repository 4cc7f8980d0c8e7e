package handlers

import (
	"net/http"
	"os"
)

// Index serves the bundled web client page, or a plain-text error when the
// file is not on disk.
func Index(staticFile string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := os.ReadFile(staticFile)
		if err != nil {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte("Error: index.html not found."))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	}
}
