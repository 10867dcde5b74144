package api

import (
	"encoding/json"
	"net/http"
)

type boardResponse struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Connectivity string `json:"connectivity"`
}

type patchBoardRequest struct {
	Name *string `json:"name"`
}

func (a *Api) boardResponse() (*boardResponse, error) {
	name, err := a.board.Name()
	if err != nil {
		return nil, err
	}

	return &boardResponse{
		Name:         name,
		Version:      a.version,
		Connectivity: a.board.Connectivity().String(),
	}, nil
}

func (a *Api) handleGetBoard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := a.boardResponse()
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}

func (a *Api) handlePatchBoard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := patchBoardRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Name != nil {
			err := a.board.SetName(*req.Name)
			if err != nil {
				a.jsonError(w, "Could not set name", http.StatusInternalServerError)
				return
			}
		}

		res, err := a.boardResponse()
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}
