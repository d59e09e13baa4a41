package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soochol/toolbox/internal/tools"
)

// listTools returns the function-calling declaration of every tool.
func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.toolReg.Specs())
}

// executeTool runs the named tool with the request body as its arguments.
// An empty body is treated as an empty argument object.
func (s *Server) executeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.toolReg.Get(name); !ok {
		writeError(w, http.StatusNotFound, "unknown tool: "+name)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	var input any
	if len(body) > 0 {
		input = json.RawMessage(body)
	}

	result, err := s.toolReg.Execute(r.Context(), name, input)
	switch {
	case errors.Is(err, tools.ErrInvalidArguments):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, tools.ErrUnknownTool):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		slog.Error("tool execution failed", "tool", name, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}
