// Package site serves the embedded single-page benchmark browser.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded browser to the root of mux. More specific
// patterns registered on the same mux take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", http.FileServer(FS()))
}
