package listener

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/icinga/icingadb/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rentals/rooms/internal/filter"
	"github.com/rentals/rooms/internal/room"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Outcomes of a room listing request, used as metric label.
const (
	outcomeOK            = "ok"
	outcomeInvalidSyntax = "invalid_syntax"
	outcomeInvalidFilter = "invalid_filter"
	outcomeError         = "error"
)

// Options configures the behaviour of the Listener.
type Options struct {
	// DefaultPageSize is used for requests without a size parameter.
	DefaultPageSize int
	// MaxPageSize limits the size parameter.
	MaxPageSize int
	// DebugPasswordHash is the bcrypt hash protecting the debug endpoints. They are disabled if it's empty.
	DebugPasswordHash string
}

type Listener struct {
	address string
	rooms   room.Finder
	options Options
	logger  *logging.Logger

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	router   chi.Router
}

// NewListener creates a new Listener serving the rooms of the given Finder on address.
func NewListener(address string, rooms room.Finder, options Options, logger *logging.Logger) *Listener {
	if options.DefaultPageSize <= 0 {
		options.DefaultPageSize = room.DefaultPageSize
	}
	if options.MaxPageSize < options.DefaultPageSize {
		options.MaxPageSize = options.DefaultPageSize
	}

	l := &Listener{
		address:  address,
		rooms:    rooms,
		options:  options,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rooms",
			Name:      "filter_requests_total",
			Help:      "Number of room listing requests by outcome.",
		}, []string{"outcome"}),
	}
	l.registry.MustRegister(l.requests)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/rooms", l.listRooms)
	r.Get("/rooms/fields", l.listFields)
	r.Get("/metrics", promhttp.HandlerFor(l.registry, promhttp.HandlerOpts{}).ServeHTTP)
	r.Route("/debug", func(r chi.Router) {
		r.Use(l.requireDebugPassword)
		r.Get("/filter", l.debugFilter)
	})

	l.router = r

	return l
}

// Handler returns the http.Handler serving all endpoints of this Listener.
func (l *Listener) Handler() http.Handler {
	return l.router
}

// Run serves the HTTP endpoints until the given context is canceled.
func (l *Listener) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              l.address,
		Handler:           l.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		l.logger.Infof("Starting listener on http://%s", l.address)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		l.logger.Info("Shutting down listener")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}

// listResponse is the JSON body of a room listing.
type listResponse struct {
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
	Items []*room.Room `json:"items"`
}

func (l *Listener) listRooms(w http.ResponseWriter, r *http.Request) {
	req, err := l.parseRequest(r)
	if err != nil {
		l.requests.WithLabelValues(outcomeInvalidSyntax).Inc()
		l.abort(w, http.StatusBadRequest, err)
		return
	}

	p, err := filter.Compose(room.Fields, req)
	if err != nil {
		l.requests.WithLabelValues(outcomeInvalidFilter).Inc()
		l.logger.Debugw("Rejecting room filter", zap.String("search", req.Search), zap.Error(err))
		l.abort(w, http.StatusBadRequest, err)
		return
	}

	rooms, err := l.rooms.Find(r.Context(), p, req.Page)
	if err != nil {
		l.requests.WithLabelValues(outcomeError).Inc()
		l.logger.Errorw("Cannot fetch rooms", zap.Error(err))
		l.abort(w, http.StatusInternalServerError, errors.New("cannot fetch rooms"))
		return
	}

	total, err := l.rooms.Count(r.Context(), p)
	if err != nil {
		l.requests.WithLabelValues(outcomeError).Inc()
		l.logger.Errorw("Cannot count rooms", zap.Error(err))
		l.abort(w, http.StatusInternalServerError, errors.New("cannot count rooms"))
		return
	}

	if rooms == nil {
		rooms = []*room.Room{}
	}

	l.requests.WithLabelValues(outcomeOK).Inc()
	l.respond(w, http.StatusOK, &listResponse{Total: total, Page: req.Page.Number, Size: req.Page.Size, Items: rooms})
}

// parseRequest validates the query parameters of r and turns them into a filter.Request.
func (l *Listener) parseRequest(r *http.Request) (*filter.Request, error) {
	query := r.URL.Query()

	var expr *string
	if query.Has("filter") {
		raw := query.Get("filter")
		if err := filter.Validate(raw); err != nil {
			return nil, err
		}

		expr = &raw
	}

	page := filter.Page{Size: l.options.DefaultPageSize, Sort: query.Get("sort")}
	if v := query.Get("page"); v != "" {
		number, err := strconv.Atoi(v)
		if err != nil || number < 0 {
			return nil, errors.New("page must be a non-negative integer")
		}

		page.Number = number
	}
	if v := query.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return nil, errors.New("size must be a positive integer")
		}

		page.Size = min(size, l.options.MaxPageSize)
	}

	return filter.NewRequest(expr, query.Get("search"), page), nil
}

// fieldResponse describes a single filterable field.
type fieldResponse struct {
	Name      string   `json:"name"`
	Operators []string `json:"operators"`
}

func (l *Listener) listFields(w http.ResponseWriter, _ *http.Request) {
	fields := make([]fieldResponse, 0, len(room.Fields.Fields))
	for _, name := range room.Fields.FieldNames() {
		var ops []string
		for _, op := range room.Fields.Fields[name].Operators() {
			ops = append(ops, op.Name())
		}

		fields = append(fields, fieldResponse{Name: name, Operators: ops})
	}

	l.respond(w, http.StatusOK, fields)
}

// debugResponse is the JSON body of the filter debug endpoint.
type debugResponse struct {
	Conditions []string `json:"conditions"`
	Where      string   `json:"where"`
	Args       []any    `json:"args"`
}

func (l *Listener) debugFilter(w http.ResponseWriter, r *http.Request) {
	req, err := l.parseRequest(r)
	if err != nil {
		l.abort(w, http.StatusBadRequest, err)
		return
	}

	p, err := filter.Compose(room.Fields, req)
	if err != nil {
		l.abort(w, http.StatusBadRequest, err)
		return
	}

	conditions := make([]string, 0, len(req.Conditions()))
	for _, c := range req.Conditions() {
		conditions = append(conditions, c.String())
	}

	where, args := p.Where()
	l.respond(w, http.StatusOK, &debugResponse{Conditions: conditions, Where: where, Args: args})
}

// requireDebugPassword rejects all requests without the configured debug password as basic auth password.
func (l *Listener) requireDebugPassword(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.options.DebugPasswordHash == "" {
			l.abort(w, http.StatusForbidden, errors.New("config file does not set debug-password"))
			return
		}

		_, pass, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			l.abort(w, http.StatusUnauthorized, errors.New("please provide the debug-password as basic auth credentials"))
			return
		}

		err := bcrypt.CompareHashAndPassword([]byte(l.options.DebugPasswordHash), []byte(pass))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			l.abort(w, http.StatusUnauthorized, errors.New("invalid debug password"))
			return
		} else if err != nil {
			l.logger.Errorw("Cannot verify debug password", zap.Error(err))
			l.abort(w, http.StatusInternalServerError, errors.New("cannot verify debug password"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// errorResponse is the JSON body of all failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

func (l *Listener) abort(w http.ResponseWriter, status int, err error) {
	l.respond(w, status, &errorResponse{Error: err.Error()})
}

func (l *Listener) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		l.logger.Debugw("Cannot write response", zap.Error(err))
	}
}
