// Package site serves the embedded operator documentation pages.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("docs site serve failed")
)

// Register attaches the embedded documentation site routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("/docs/", http.StripPrefix("/docs/", files))
	mux.Handle("/docs", http.RedirectHandler("/docs/", http.StatusMovedPermanently))
}
