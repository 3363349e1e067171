package api

import (
	"net/http"
	"strings"

	"github.com/okian/evalhub/internal/domain/query"
	"github.com/okian/evalhub/pkg/logger"
)

const detailPrefix = "/api/evals/"

// EvalsHandler serves the benchmark list and detail endpoints.
type EvalsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewEvalsHandler creates a new evals handler.
func NewEvalsHandler(deps Dependencies, l logger.Logger) *EvalsHandler {
	return &EvalsHandler{deps: deps, logger: l}
}

// HandleList handles GET /api/evals?q=&group= requests.
func (h *EvalsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_evals"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	params := query.Params{Group: q.Get("group"), Text: q.Get("q")}.Normalize()

	snap, err := h.deps.List(r.Context(), params)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleDetail handles GET /api/evals/{id} requests.
func (h *EvalsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_eval"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, detailPrefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}

	detail, err := h.deps.Detail(r.Context(), id)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GroupsHandler serves the distinct group names.
type GroupsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps Dependencies, l logger.Logger) *GroupsHandler {
	return &GroupsHandler{deps: deps, logger: l}
}

type groupsResponse struct {
	Groups []string `json:"groups"`
}

// HandleGroups handles GET /api/groups requests.
func (h *GroupsHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_groups"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	groups, err := h.deps.Groups(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	if groups == nil {
		groups = []string{}
	}
	writeJSON(w, http.StatusOK, groupsResponse{Groups: groups})
}
