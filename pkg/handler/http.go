package handler

import (
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/foomo/guitarserver/pkg/guitars"
	"github.com/foomo/guitarserver/pkg/metrics"
	"github.com/foomo/guitarserver/pkg/web"
	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	maxBodySize = 1 << 16
)

type (
	HTTP struct {
		l           *zap.Logger
		service     *guitars.Service
		corsOrigins []string
		router      chi.Router
	}
	HTTPOption func(*HTTP)

	createRequest struct {
		Name string `json:"name"`
	}
	createResponse struct {
		Name string `json:"name"`
	}
	rejectedResponse struct {
		Name  string `json:"name"`
		Error string `json:"error"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns the handler serving the guitar collection below the service's base path and
// the browser client at /.
func NewHTTP(l *zap.Logger, service *guitars.Service, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:       l.Named("http"),
		service: service,
	}

	for _, opt := range opts {
		opt(inst)
	}

	inst.router = inst.routes()
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithCORSOrigins allows cross origin requests from the given origins.
func WithCORSOrigins(v ...string) HTTPOption {
	return func(o *HTTP) {
		o.corsOrigins = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if len(h.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
			ExposedHeaders: []string{"Location"},
			MaxAge:         300,
		}))
	}

	r.Route(h.service.Addresser().BasePath(), func(r chi.Router) {
		r.Get("/", h.instrument(RouteList, h.list))
		r.Post("/", h.instrument(RouteCreate, h.create))
		r.Delete("/{name}", h.instrument(RouteDelete, h.delete))
	})

	r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		web.ServeIndex(w, r, h.service.Addresser().BasePath())
	})
	return r
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) int {
	return h.writeJSON(w, r, http.StatusOK, h.service.List())
}

func (h *HTTP) create(w http.ResponseWriter, r *http.Request) int {
	form := isFormRequest(r)

	var req createRequest
	if form {
		if err := r.ParseForm(); err != nil {
			httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to parse form"))
			return http.StatusBadRequest
		}
		req.Name = r.PostForm.Get("name")
	} else {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read incoming request"))
			return http.StatusBadRequest
		}
		if err := json.Unmarshal(body, &req); err != nil {
			httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "could not read incoming json"))
			return http.StatusBadRequest
		}
	}

	item, err := h.service.Create(r.Context(), req.Name)
	switch {
	case errors.Is(err, guitars.ErrValidation):
		h.l.Debug("rejected guitar", zap.String("name", req.Name), zap.Error(err))
		return h.writeJSON(w, r, http.StatusBadRequest, rejectedResponse{Name: req.Name, Error: err.Error()})
	case err != nil:
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
		return http.StatusInternalServerError
	}

	if form {
		// non-ajax submissions go back to the list
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return http.StatusSeeOther
	}
	w.Header().Set("Location", item.Link)
	return h.writeJSON(w, r, http.StatusCreated, createResponse{Name: item.Name})
}

func (h *HTTP) delete(w http.ResponseWriter, r *http.Request) int {
	err := h.service.Delete(r.Context(), r.URL.EscapedPath())
	switch {
	case errors.Is(err, guitars.ErrNotFound):
		h.l.Debug("ignoring delete of unknown guitar", zap.String("path", r.URL.Path), zap.Error(err))
	case err != nil:
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
		return http.StatusInternalServerError
	}
	w.WriteHeader(http.StatusNoContent)
	return http.StatusNoContent
}

func (h *HTTP) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) int {
	bytes, err := json.Marshal(v)
	if err != nil {
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, errors.Wrap(err, "could not encode reply"))
		return http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(bytes); err != nil {
		h.l.Warn("failed to write reply", zap.Error(err))
	}
	return status
}

// instrument counts and times every request of the given route.
func (h *HTTP) instrument(route Route, fn func(http.ResponseWriter, *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := strconv.Itoa(fn(w, r))
		metrics.ServiceRequestCounter.WithLabelValues(string(route), status).Inc()
		metrics.ServiceRequestDuration.WithLabelValues(string(route), status).Observe(time.Since(start).Seconds())
	}
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == contentTypeForm
}
