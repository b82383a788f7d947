package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shredder/pkg/buildinfo"
	"github.com/matzehuels/shredder/pkg/cache"
	"github.com/matzehuels/shredder/pkg/errors"
	"github.com/matzehuels/shredder/pkg/observability"
	"github.com/matzehuels/shredder/pkg/pipeline"
)

const (
	// requestIDHeader carries the request id in both directions.
	requestIDHeader = "X-Request-ID"

	// defaultMaxUpload is the largest accepted request body.
	defaultMaxUpload = 32 << 20

	shutdownTimeout = 5 * time.Second
)

// serveFlags holds the command-line flags for the serve command.
type serveFlags struct {
	addr      string
	noCache   bool
	maxUpload int64
}

// serveCommand creates the serve command, which exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{addr: "127.0.0.1:8080", maxUpload: defaultMaxUpload}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shredding pipeline over HTTP",
		Long: `Serve starts an HTTP server with two endpoints:

  POST /shred    image in the request body, parameters in the query string
                 (slice_width, h_slices, v_slices, space, border_width,
                 border_color, format, refresh); responds with the image
  GET  /healthz  liveness probe

Every response carries an X-Request-ID header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(flags.noCache, cache.NewScopedKeyer(nil, "serve:"))
			if err != nil {
				return err
			}
			defer runner.Close()
			return c.runServer(cmd.Context(), flags, newRouter(runner, c.Logger, flags.maxUpload))
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", flags.addr, "listen address")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().Int64Var(&flags.maxUpload, "max-upload", flags.maxUpload, "maximum request body size in bytes")

	return cmd
}

// runServer serves handler until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServer(ctx context.Context, flags serveFlags, handler http.Handler) error {
	srv := &http.Server{
		Addr:              flags.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printInfo("Listening on %s", StyleLink.Render("http://"+flags.addr))
	c.Logger.Info("server started", "addr", flags.addr, "version", buildinfo.Version)

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Router
// =============================================================================

type server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	maxUpload int64
}

// newRouter builds the HTTP handler around runner.
func newRouter(runner *pipeline.Runner, logger *log.Logger, maxUpload int64) http.Handler {
	s := &server{runner: runner, logger: logger, maxUpload: maxUpload}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Get("/healthz", s.handleHealth)
	r.Post("/shred", s.handleShred)
	return r
}

// requestLogger assigns a request id, attaches a scoped logger to the request
// context and reports the request to the HTTP hooks.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := s.logger.With("request_id", id)
		ctx := withLogger(r.Context(), logger)
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, id, r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		hooks.OnResponse(ctx, id, r.Method, r.URL.Path, status, duration)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := buildinfo.Fields()
	body["status"] = "ok"
	writeJSON(w, http.StatusOK, body)
}

func (s *server) handleShred(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())

	opts, err := parseShredQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body exceeds limit", "")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "read request body: "+err.Error(), "")
		return
	}
	if len(data) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidParameter, "request body must contain an image"))
		return
	}

	result, err := s.runner.ExecuteBytes(r.Context(), "upload", data, opts)
	if err != nil {
		logger.Warn("shred failed", "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Artifact)))
	w.Header().Set("X-Image-Size", sizeString(result.Grid.H, result.Grid.W))
	if result.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact)
}

// parseShredQuery reads pipeline options from query parameters on top of the
// defaults.
func parseShredQuery(q url.Values) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	ints := []struct {
		name string
		dst  *int
	}{
		{"slice_width", &opts.SliceWidth},
		{"h_slices", &opts.HSlices},
		{"v_slices", &opts.VSlices},
		{"space", &opts.Space},
		{"border_width", &opts.BorderWidth},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidParameter, "%s must be an integer, got %q", p.name, v)
		}
		*p.dst = n
	}

	if v := q.Get("border_color"); v != "" {
		opts.BorderColor = v
	}
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidParameter, "refresh must be a boolean, got %q", v)
		}
		opts.Refresh = refresh
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	if errors.IsClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), errors.UserMessage(err), string(errors.GetCode(err)))
}

func writeJSONError(w http.ResponseWriter, status int, msg, code string) {
	body := map[string]string{"error": msg}
	if code != "" {
		body["code"] = code
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
