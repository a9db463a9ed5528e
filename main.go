// Command anchor starts the Anchor sliding puzzle server.
//
// It supports two modes:
//  1. "server" (default) runs the HTTP server exposing the REST API, the WebSocket
//     feed, and an /mcp HTTP endpoint
//  2. "stdio-mcp" runs an MCP stdio server against an existing API, starting an
//     internal one on a loopback port when none answers
//
// Flags control host/port, config directory, logging, and optional ngrok
// tunneling for external access during development. Every flag can also be
// set through the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jpillora/backoff"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/anchor/api"
	"github.com/wricardo/mcp-training/anchor/game/config"
	"github.com/wricardo/mcp-training/anchor/game/service"
	"github.com/wricardo/mcp-training/anchor/game/session"
	"github.com/wricardo/mcp-training/anchor/transport/mcp"
	"github.com/wricardo/mcp-training/anchor/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Anchor Puzzle Server"
)

const (
	cleanupInterval  = time.Hour
	sessionRetention = 24 * time.Hour
	shutdownTimeout  = 10 * time.Second
	readyAttempts    = 8
)

// options holds the resolved command line configuration
type options struct {
	host        string
	port        int
	configDir   string
	apiURL      string
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func (o options) addr() string {
	return net.JoinHostPort(o.host, strconv.Itoa(o.port))
}

func main() {
	// A missing .env file is fine
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("Exiting")
	}
}

// newCommand builds the CLI with the server mode as its default action
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "anchor",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing puzzle configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Existing API the stdio MCP server should use",
				Sources: cli.EnvVars("ANCHOR_API_URL"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, setupLogging(cmd.String("log-level"), cmd.Bool("debug"))
		},
		Action: serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  serverAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server",
				Action:  stdioAction,
			},
		},
	}
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		host:        cmd.String("host"),
		port:        int(cmd.Int("port")),
		configDir:   cmd.String("config-dir"),
		apiURL:      cmd.String("api-url"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}
}

// setupLogging configures the global zerolog logger. Logs always go to
// stderr so the stdio MCP transport keeps stdout to itself.
func setupLogging(level string, debug bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp()
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
	return nil
}

// app bundles the wired services shared by both modes
type app struct {
	sessions *session.Manager
	configs  *config.Manager
	hub      *websocket.Hub
	service  service.GameService
	api      *api.Server
}

// newApp wires the config and session managers, the game service and the
// API. The hub is the service's notifier, so every board change reaches
// WebSocket subscribers.
func newApp(configDir string) (*app, error) {
	configs, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessions := session.NewManager()
	hub := websocket.NewHub()
	svc := service.NewGameService(sessions, configs, service.WithNotifier(hub))

	return &app{
		sessions: sessions,
		configs:  configs,
		hub:      hub,
		service:  svc,
		api:      api.NewServer(svc, hub),
	}, nil
}

// run starts the hub and the session cleanup loop; it returns once ctx is done
func (a *app) run(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		a.hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		cleanupSessions(ctx, a.sessions, cleanupInterval, sessionRetention)
		return nil
	})
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	log.Info().Str("version", Version).Str("mode", "server").Msgf("Starting %s", AppName)

	a, err := newApp(opts.configDir)
	if err != nil {
		return err
	}
	return runHTTPServer(ctx, opts, a)
}

// runHTTPServer serves the REST API, WebSocket hub and /mcp endpoint until
// ctx is canceled. If ngrok is enabled it also serves through a tunnel.
func runHTTPServer(ctx context.Context, opts options, a *app) error {
	addr := opts.addr()
	mcpClient := mcp.NewClient("http://" + addr)

	handler := newRootHandler(a.api, mcpClient.GetMCPServer())
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	a.run(ctx, g)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if opts.ngrok {
		g.Go(func() error {
			return serveNgrok(ctx, opts, handler)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	log.Info().Msg("Server stopped")
	return err
}

// newRootHandler mounts the API at the root and the MCP server at /mcp
func newRootHandler(apiServer http.Handler, mcpServer *server.MCPServer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("Failed to encode MCP response")
		}
	})
	return mux
}

// serveNgrok exposes handler through an ngrok tunnel until ctx is done.
// A missing auth token only disables the tunnel.
func serveNgrok(ctx context.Context, opts options, handler http.Handler) error {
	if opts.ngrokAuth == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return nil
	}

	var tunnel ngrokConfig.Tunnel = ngrokConfig.HTTPEndpoint()
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Info().Str("domain", opts.ngrokDomain).Msg("Using custom ngrok domain")
	}

	log.Info().Msg("Starting ngrok tunnel")
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return nil
	}

	url := tun.URL()
	log.Info().Str("url", url).Msg("Ngrok tunnel established")
	log.Info().Msgf("  REST API (ngrok): %s/api", url)
	log.Info().Msgf("  WebSocket (ngrok): %s/ws?session=<session_id>", url)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", url)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
	return nil
}

// cleanupSessions periodically removes sessions not accessed within retention
func cleanupSessions(ctx context.Context, sessions *session.Manager, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.CleanupExpiredSessions(retention); removed > 0 {
				log.Info().Int("removed", removed).Msg("Cleaned up expired sessions")
			}
		}
	}
}

func stdioAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	log.Info().Str("version", Version).Str("mode", "stdio-mcp").Msgf("Starting %s", AppName)

	baseURL, err := resolveAPI(ctx, opts)
	if err != nil {
		return err
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

// resolveAPI picks the API the stdio MCP server talks to: an explicit
// --api-url, a server already running on the configured address, or an
// internal server on a random loopback port.
func resolveAPI(ctx context.Context, opts options) (string, error) {
	if opts.apiURL != "" {
		baseURL := strings.TrimRight(opts.apiURL, "/")
		if err := waitForAPI(ctx, baseURL, readyAttempts); err != nil {
			return "", err
		}
		return baseURL, nil
	}

	externalURL := "http://" + opts.addr()
	if waitForAPI(ctx, externalURL, 1) == nil {
		log.Info().Str("api", externalURL).Msg("Using external API server")
		return externalURL, nil
	}

	log.Info().Msg("No external API server found, starting internal HTTP server")
	return startInternalAPI(ctx, opts.configDir)
}

// startInternalAPI serves the API on a loopback port for the lifetime of ctx
func startInternalAPI(ctx context.Context, configDir string) (string, error) {
	a, err := newApp(configDir)
	if err != nil {
		return "", err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	httpServer := &http.Server{Handler: a.api}
	g, gctx := errgroup.WithContext(ctx)
	a.run(gctx, g)
	g.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return httpServer.Close()
	})
	go func() {
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("Internal HTTP server error")
		}
	}()

	baseURL := "http://" + listener.Addr().String()
	log.Info().Str("api", baseURL).Msg("Internal HTTP server started")
	if err := waitForAPI(ctx, baseURL, readyAttempts); err != nil {
		return "", err
	}
	return baseURL, nil
}

// waitForAPI polls the health endpoint with exponential backoff until it
// answers 200 or attempts run out.
func waitForAPI(ctx context.Context, baseURL string, attempts int) error {
	b := &backoff.Backoff{
		Min:    50 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
	}
	client := &http.Client{Timeout: 2 * time.Second}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = checkHealth(ctx, client, baseURL); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
	return fmt.Errorf("api at %s not ready after %d attempts: %w", baseURL, attempts, lastErr)
}

func checkHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}
