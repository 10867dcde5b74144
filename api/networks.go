package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/the-lightning-land/boardd/knownnet"
)

type knownNetworkResponse struct {
	Ssid string `json:"ssid"`
}

type postNetworkRequest struct {
	Ssid string `json:"ssid"`
	Psk  string `json:"psk"`
	// Connect starts a new connect cycle once the network is saved.
	Connect bool `json:"connect"`
}

func (a *Api) handleGetNetworks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ssids, err := a.board.KnownNetworks()
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		res := []*knownNetworkResponse{}
		for _, ssid := range ssids {
			res = append(res, &knownNetworkResponse{Ssid: ssid})
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}

func (a *Api) handlePostNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := postNetworkRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Connect {
			err = a.board.JoinNetwork(req.Ssid, req.Psk)
		} else {
			err = a.board.AddNetwork(req.Ssid, req.Psk)
		}

		var validationErr *knownnet.ValidationError
		if errors.As(err, &validationErr) {
			a.jsonError(w, validationErr.Error(), http.StatusBadRequest)
			return
		} else if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a.jsonResponse(w, &knownNetworkResponse{Ssid: req.Ssid}, http.StatusCreated)
	}
}

func (a *Api) handleDeleteNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ssid := mux.Vars(r)["ssid"]

		removed, err := a.board.ForgetNetwork(ssid)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if !removed {
			a.jsonError(w, "No saved network "+ssid, http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
