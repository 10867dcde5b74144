package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/boardd/network"
)

const maxQualitySamples = 100

type networkResponse struct {
	State     string     `json:"state"`
	Ssid      string     `json:"ssid"`
	Status    string     `json:"status"`
	Address   string     `json:"address,omitempty"`
	Connected bool       `json:"connected"`
	Since     *time.Time `json:"since,omitempty"`
}

type qualityResponse struct {
	Samples int    `json:"samples"`
	Rssi    int    `json:"rssi"`
	Quality string `json:"quality"`
}

type wifiResponse struct {
	Ssid       string `json:"ssid"`
	Bssid      string `json:"bssid"`
	Signal     int    `json:"signal"`
	Frequency  int    `json:"frequency"`
	Encryption string `json:"encryption"`
}

type connectResponse struct {
	State   string `json:"state"`
	Ssid    string `json:"ssid"`
	Signal  int    `json:"signal,omitempty"`
	Status  string `json:"status"`
	Address string `json:"address,omitempty"`
}

func (a *Api) handleGetNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := a.board.NetworkStatus()

		res := &networkResponse{
			State:     status.State.String(),
			Ssid:      status.Ssid,
			Status:    status.Status.String(),
			Connected: status.Connected,
		}

		if status.Address != nil {
			res.Address = status.Address.String()
		}

		if !status.Since.IsZero() {
			res.Since = &status.Since
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}

func (a *Api) handleGetQuality() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples := 0

		if s := r.URL.Query().Get("samples"); s != "" {
			var err error
			samples, err = strconv.Atoi(s)
			if err != nil || samples < 1 || samples > maxQualitySamples {
				a.jsonError(w, "samples must be a number between 1 and 100", http.StatusBadRequest)
				return
			}
		}

		if !a.board.NetworkStatus().Connected {
			a.jsonError(w, "Not connected to a network", http.StatusConflict)
			return
		}

		rssi, quality, err := a.board.SignalQuality(r.Context(), samples)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a.jsonResponse(w, &qualityResponse{
			Samples: a.board.QualitySamples(samples),
			Rssi:    rssi,
			Quality: quality.String(),
		}, http.StatusOK)
	}
}

func (a *Api) handleGetScan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wifis, err := a.board.ScanWifi(r.Context())
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// literal so that no results serialize into an empty array
		res := []*wifiResponse{}
		for _, wifi := range wifis {
			res = append(res, &wifiResponse{
				Ssid:       wifi.Ssid,
				Bssid:      wifi.Bssid,
				Signal:     wifi.Signal,
				Frequency:  wifi.Frequency,
				Encryption: wifi.Encryption.String(),
			})
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}

func (a *Api) handlePostConnect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempt, err := a.board.ConnectNow(r.Context())
		if errors.Is(err, network.ErrConnectInProgress) {
			a.jsonError(w, err.Error(), http.StatusConflict)
			return
		} else if errors.Is(err, network.ErrConnectTimeout) {
			a.jsonError(w, err.Error(), http.StatusGatewayTimeout)
			return
		} else if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		res := &connectResponse{
			State:  attempt.State.String(),
			Ssid:   attempt.Ssid(),
			Status: attempt.Status.String(),
		}

		if attempt.Candidate != nil {
			res.Signal = attempt.Candidate.Signal
		}

		if attempt.Address != nil {
			res.Address = attempt.Address.String()
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}
