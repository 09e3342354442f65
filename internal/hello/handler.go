package hello

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/product-catalog/internal/web"
	"github.com/tair/product-catalog/pkg/logger"
)

// MaxNumTimes bounds how often the welcome message is repeated
const MaxNumTimes = 100

// WelcomeViewModel is rendered by the welcome page
type WelcomeViewModel struct {
	Message  string
	NumTimes int
}

// Handler serves the greeting pages
type Handler struct {
	views *web.Renderer
}

func NewHandler(views *web.Renderer) *Handler {
	return &Handler{views: views}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	s := router.PathPrefix("/hello").Subrouter()
	s.HandleFunc("", h.views.Handle(h.Index)).Methods(http.MethodGet)
	s.HandleFunc("/", h.views.Handle(h.Index)).Methods(http.MethodGet)
	s.HandleFunc("/welcome", h.views.Handle(h.Welcome)).Methods(http.MethodGet)
	s.HandleFunc("/welcome/{name}", h.views.Handle(h.Welcome)).Methods(http.MethodGet)
	s.HandleFunc("/welcome/{name}/{numTimes:[0-9]+}", h.views.Handle(h.Welcome)).Methods(http.MethodGet)
}

// Index handles GET /hello
func (h *Handler) Index(r *http.Request) (web.Result, error) {
	return web.RenderView{View: "hello_index", Title: "Hello"}, nil
}

// Welcome handles GET /hello/welcome/{name?}/{numTimes?}. Route values win over the
// query string.
func (h *Handler) Welcome(r *http.Request) (web.Result, error) {
	vars := mux.Vars(r)
	query := r.URL.Query()

	name, ok := vars["name"]
	if !ok {
		name = query.Get("name")
	}

	raw, ok := vars["numTimes"]
	if !ok {
		raw = query.Get("numTimes")
	}

	numTimes := 1
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn(r.Context()).Str("num_times", raw).Msg("Ignoring invalid numTimes")
		} else {
			numTimes = n
		}
	}
	numTimes = max(0, min(numTimes, MaxNumTimes))

	return web.RenderView{
		View:  "hello_welcome",
		Title: "Welcome",
		Model: WelcomeViewModel{Message: "Hello " + name, NumTimes: numTimes},
	}, nil
}
