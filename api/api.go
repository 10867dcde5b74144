package api

import (
	"net"
	"net/http"

	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/the-lightning-land/boardd/board"
)

// check Api compliance to its interface during compile time
var _ board.Api = (*Api)(nil)

type Config struct {
	Version string
	Log     Logger
}

type Api struct {
	board   *board.Board
	router  *mux.Router
	version string
	log     Logger
}

func New(config *Config) *Api {
	api := &Api{
		router:  mux.NewRouter(),
		version: config.Version,
	}

	if config.Log != nil {
		api.log = config.Log
	} else {
		api.log = noopLogger{}
	}

	api.router.Handle("/api/v1/board", api.handleGetBoard()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/board", api.handlePatchBoard()).Methods(http.MethodPatch)

	api.router.Handle("/api/v1/network", api.handleGetNetwork()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/network/quality", api.handleGetQuality()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/network/scan", api.handleGetScan()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/network/connect", api.handlePostConnect()).Methods(http.MethodPost)
	api.router.Handle("/api/v1/network/events", api.handleGetNetworkEvents()).Methods(http.MethodGet)

	api.router.Handle("/api/v1/networks", api.handleGetNetworks()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/networks", api.handlePostNetwork()).Methods(http.MethodPost)
	api.router.Handle("/api/v1/networks/{ssid}", api.handleDeleteNetwork()).Methods(http.MethodDelete)

	api.router.Handle("/api/v1/logs", api.handleGetLogs()).Methods(http.MethodGet)

	return api
}

func (a *Api) SetBoard(board *board.Board) {
	a.board = board
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *Api) Serve(l net.Listener) error {
	err := http.Serve(l, a.router)
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.Errorf("Unable to serve api: %v", err)
	}

	return nil
}
