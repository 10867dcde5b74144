package api

import (
	"net/http"
	"strconv"

	"github.com/the-lightning-land/boardd/boardlog"
)

const defaultLogLimit = 100

func (a *Api) handleGetLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLogLimit

		if l := r.URL.Query().Get("limit"); l != "" {
			var err error
			limit, err = strconv.Atoi(l)
			if err != nil || limit < 1 {
				a.jsonError(w, "limit must be a positive number", http.StatusBadRequest)
				return
			}
		}

		entries := a.board.Logs(limit)
		if entries == nil {
			entries = []*boardlog.Entry{}
		}

		a.jsonResponse(w, entries, http.StatusOK)
	}
}
