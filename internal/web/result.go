package web

import (
	"net/http"

	"github.com/tair/product-catalog/pkg/logger"
)

// Result is the outcome of a page handler. Exactly one of RenderView, RenderForm,
// Redirect or NotFound.
type Result interface {
	isResult()
}

// RenderView renders View with Model. A zero Status means 200.
type RenderView struct {
	View   string
	Title  string
	Status int
	Model  any
}

// RenderForm shows a form page again with the submitted values and per-field messages
type RenderForm struct {
	View    string
	Title   string
	Heading string
	Action  string
	Submit  string
	Values  any
	Errors  map[string]string
}

// Redirect sends the browser to Target with 303 See Other
type Redirect struct {
	Target string
}

// NotFound renders the not-found page with a 404
type NotFound struct {
	Message string
}

func (RenderView) isResult() {}
func (RenderForm) isResult() {}
func (Redirect) isResult()   {}
func (NotFound) isResult()   {}

// FormView is the template data of a RenderForm
type FormView struct {
	Heading string
	Action  string
	Submit  string
	Form    any
	Errors  map[string]string
}

// HandlerFunc is a page handler returning a tagged result
type HandlerFunc func(r *http.Request) (Result, error)

// Handle adapts fn to net/http. A returned error is logged and shown as a 500 page.
func (rd *Renderer) Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r)
		if err != nil {
			logger.Error(r.Context()).
				Err(err).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("Request failed")
			rd.Error(w, r, http.StatusInternalServerError, "An error occurred while processing your request.")
			return
		}
		rd.Write(w, r, res)
	}
}

// Write sends res to the client
func (rd *Renderer) Write(w http.ResponseWriter, r *http.Request, res Result) {
	var err error
	switch res := res.(type) {
	case RenderView:
		status := res.Status
		if status == 0 {
			status = http.StatusOK
		}
		err = rd.Render(w, r, status, res.View, res.Title, res.Model)
	case RenderForm:
		status := http.StatusOK
		if len(res.Errors) > 0 {
			status = http.StatusUnprocessableEntity
		}
		err = rd.Render(w, r, status, res.View, res.Title, FormView{
			Heading: res.Heading,
			Action:  res.Action,
			Submit:  res.Submit,
			Form:    res.Values,
			Errors:  res.Errors,
		})
	case Redirect:
		http.Redirect(w, r, res.Target, http.StatusSeeOther)
	case NotFound:
		rd.Error(w, r, http.StatusNotFound, res.Message)
	default:
		rd.Error(w, r, http.StatusInternalServerError, "An error occurred while processing your request.")
	}

	if err != nil {
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Failed to render view")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Error renders the not-found page for 404 and the error page otherwise
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	view, title := "error", "Error"
	if status == http.StatusNotFound {
		view, title = "not_found", "Not Found"
	}
	if err := rd.Render(w, r, status, view, title, message); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to render error page")
		http.Error(w, message, status)
	}
}

// NotFoundHandler answers requests that matched no route
func (rd *Renderer) NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rd.Error(w, r, http.StatusNotFound, "The page you requested does not exist.")
	})
}
