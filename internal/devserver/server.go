package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wolfeidau/sitepack/internal/assets"
	"github.com/wolfeidau/sitepack/internal/buildconfig"
	httpmiddleware "github.com/wolfeidau/sitepack/internal/http"
)

// RebuildFunc reassembles the configuration and rebuilds the site.
type RebuildFunc func(ctx context.Context) error

type Options struct {
	// Host to bind, the port comes from the build configuration
	Host string
	// Directory watched for source changes
	WatchDir string
	// Quiet period after the last change before rebuilding
	Debounce time.Duration
	// Origins allowed to fetch assets cross-origin
	CORSOrigins []string
}

// Server serves the output directory and, when hot, rebuilds on change and
// tells connected pages to reload.
type Server struct {
	config  buildconfig.DevServer
	opts    Options
	rebuild RebuildFunc
	broker  *Broker
	log     zerolog.Logger
}

func New(config buildconfig.DevServer, opts Options, rebuild RebuildFunc, log zerolog.Logger) *Server {
	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	return &Server{
		config:  config,
		opts:    opts,
		rebuild: rebuild,
		broker:  NewBroker(),
		log:     log,
	}
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(s.config.Port))
}

// Handler returns the dev server's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", httpmiddleware.NoCache()(http.FileServer(http.Dir(s.config.ContentBase))))
	if s.config.Hot {
		mux.Handle(assets.ReloadPath, s.broker)
	}

	var handler http.Handler = mux
	if len(s.opts.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
		}).Handler(handler)
	}

	return httpmiddleware.RequestLogger(s.log)(handler)
}

// Run serves until ctx is cancelled. When hot it also watches WatchDir.
func (s *Server) Run(ctx context.Context) error {
	srv := configureHTTPServer(s.Addr(), s.Handler())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", s.Addr()).Bool("hot", s.config.Hot).Str("content_base", s.config.ContentBase).Msg("Starting dev server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("dev server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if s.config.Hot && s.opts.WatchDir != "" {
		g.Go(func() error {
			return s.watch(ctx, s.opts.WatchDir, s.opts.Debounce, s.onChange)
		})
	}

	return g.Wait()
}

func (s *Server) onChange(ctx context.Context) {
	if err := s.rebuild(ctx); err != nil {
		s.log.Error().Err(err).Msg("Rebuild failed")
		return
	}
	s.log.Info().Int("clients", s.broker.Clients()).Msg("Rebuilt, reloading clients")
	s.broker.Broadcast()
}

// configureHTTPServer leaves WriteTimeout unset, the reload stream stays open
// for the life of the page.
func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       time.Minute,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}
