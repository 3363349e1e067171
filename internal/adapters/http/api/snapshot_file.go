package api

import (
	"net/http"
	"os"
)

// SnapshotFileHandler serves a generated snapshot file as-is.
type SnapshotFileHandler struct {
	path string
}

// NewSnapshotFileHandler serves path; an empty path always answers 404.
func NewSnapshotFileHandler(path string) *SnapshotFileHandler {
	return &SnapshotFileHandler{path: path}
}

// HandleSnapshot handles GET /evals.json. A 404 tells the UI to fall back to
// /api/evals.
func (h *SnapshotFileHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_snapshot"
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	if h.path == "" {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNoSnapshot))
		return
	}
	f, err := os.Open(h.path)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	http.ServeContent(w, r, "evals.json", info.ModTime(), f)
}
