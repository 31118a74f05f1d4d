package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/logging"
	"github.com/ayoisaiah/attend/internal/status"
	"github.com/ayoisaiah/attend/internal/timeutil"
	"github.com/ayoisaiah/attend/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type (
	// ServerOptions configures the HTTP feed.
	ServerOptions struct {
		Logger         *slog.Logger
		Location       *time.Location
		Palette        status.Palette
		AllowedOrigins []string
		Port           uint
	}

	response struct {
		Data    any          `json:"data,omitempty"`
		Error   *errorDetail `json:"error,omitempty"`
		Success bool         `json:"success"`
	}

	errorDetail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	// errorHandler is an http handler that reports failures through its
	// return value.
	errorHandler func(w http.ResponseWriter, r *http.Request) error

	feed struct {
		log     store.EventLog
		loc     *time.Location
		logger  *slog.Logger
		palette status.Palette
	}
)

var (
	errInvalidDate = &apperr.Error{
		Message: "invalid %s date: %q",
	}

	errInvalidRange = &apperr.Error{
		Message: "the end date (%s) must not be earlier than the start date (%s)",
	}
)

func (h errorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}

	code, statusCode := "INTERNAL_ERROR", http.StatusInternalServerError

	switch {
	case errors.Is(err, errInvalidDate):
		code, statusCode = "INVALID_DATE", http.StatusBadRequest
	case errors.Is(err, errInvalidRange):
		code, statusCode = "INVALID_RANGE", http.StatusBadRequest
	case errors.Is(err, apperr.ErrMissingIdentity):
		code, statusCode = "MISSING_IDENTITY", http.StatusBadRequest
	case errors.Is(err, apperr.ErrStoreUnavailable):
		code, statusCode = "STORE_UNAVAILABLE", http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, response{
		Error: &errorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(payload)
}

func success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    data,
	})
}

// NewRouter returns the handler of the read-only attendance feed.
func NewRouter(log store.EventLog, opts ServerOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	if opts.Location == nil {
		opts.Location = time.Local
	}

	f := &feed{
		log:     log,
		loc:     opts.Location,
		logger:  opts.Logger,
		palette: opts.Palette,
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Route("/api/v1/employees", func(r chi.Router) {
		r.Method(http.MethodGet, "/", errorHandler(f.employees))

		r.Route("/{id}", func(r chi.Router) {
			r.Method(http.MethodGet, "/summary", errorHandler(f.summary))
			r.Method(http.MethodGet, "/calendar", errorHandler(f.calendar))
			r.Method(http.MethodGet, "/report", errorHandler(f.report))
		})
	})

	return r
}

func (f *feed) employees(w http.ResponseWriter, r *http.Request) error {
	ids, err := f.log.Employees(r.Context())
	if err != nil {
		return err
	}

	if ids == nil {
		ids = []string{}
	}

	success(w, ids)

	return nil
}

func (f *feed) summary(w http.ResponseWriter, r *http.Request) error {
	report, err := f.compute(r)
	if err != nil {
		return err
	}

	success(w, report.Summary)

	return nil
}

func (f *feed) calendar(w http.ResponseWriter, r *http.Request) error {
	report, err := f.compute(r)
	if err != nil {
		return err
	}

	success(w, report.Calendar)

	return nil
}

func (f *feed) report(w http.ResponseWriter, r *http.Request) error {
	report, err := f.compute(r)
	if err != nil {
		return err
	}

	success(w, report)

	return nil
}

func (f *feed) compute(r *http.Request) (*Report, error) {
	rng, err := f.parseRange(r)
	if err != nil {
		return nil, err
	}

	report, err := Compute(r.Context(), f.log, chi.URLParam(r, "id"), rng, f.loc)
	if err != nil {
		return nil, err
	}

	report.Recolor(f.palette)

	return report, nil
}

// parseRange reads the start and end query parameters. Both accept YYYY-MM-DD
// or a relative expression and cover whole days.
func (f *feed) parseRange(r *http.Request) (Range, error) {
	var rng Range

	query := r.URL.Query()
	now := time.Now().In(f.loc)

	if start := query.Get("start"); start != "" {
		t, err := timeutil.FromStr(start, now)
		if err != nil {
			return rng, errInvalidDate.Fmt("start", start).Wrap(err)
		}

		rng.From = timeutil.RoundToStart(t)
	}

	if end := query.Get("end"); end != "" {
		t, err := timeutil.FromStr(end, now)
		if err != nil {
			return rng, errInvalidDate.Fmt("end", end).Wrap(err)
		}

		rng.To = timeutil.RoundToEnd(t)

		if rng.To.Before(rng.From) {
			return rng, errInvalidRange.Fmt(
				timeutil.DayKey(rng.To, f.loc),
				timeutil.DayKey(rng.From, f.loc),
			)
		}
	}

	return rng, nil
}

// Serve runs the feed until ctx is cancelled.
func Serve(ctx context.Context, log store.EventLog, opts ServerOptions) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           NewRouter(log, opts),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
