package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

const maxBodySize = 1 << 10

var errTrailingData = errors.New("unexpected data after the JSON body")

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view.Render(game, view.OrderAsc))
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeGame(w, r, game)
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(w, r, &req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": <0-8>}"})
		return
	}

	game, err := that.games.MakeMove(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeGame(w, r, game)
}

func (that *Server) handleJumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decodeBody(w, r, &req); err != nil || req.Step == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"step\": <n>}"})
		return
	}

	game, err := that.games.JumpTo(r.Context(), chi.URLParam(r, "id"), *req.Step)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeGame(w, r, game)
}

func (that *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeGame(w, r, game)
}

func (that *Server) writeGame(w http.ResponseWriter, r *http.Request, game *entity.Game) {
	order := view.ParseOrder(r.URL.Query().Get("order"))
	that.writeJSON(w, http.StatusOK, view.Render(game, order))
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrGameNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidStep):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrInvalidStep.Error()})
	case errors.Is(err, apperror.ErrGameConflict):
		that.writeJSON(w, http.StatusConflict, errorResponse{Error: apperror.ErrGameConflict.Error()})
	default:
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeBody reads exactly one JSON value; anything but whitespace after it is an error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))

	if err := dec.Decode(v); err != nil {
		return err
	}

	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	return nil
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
