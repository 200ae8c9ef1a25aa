package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/ionview/internal/artifact"
	"github.com/rpggio/ionview/internal/config"
	"github.com/rpggio/ionview/internal/domain/variant"
	"github.com/rpggio/ionview/internal/domain/viewer"
	"github.com/rpggio/ionview/internal/mcp"
	"github.com/rpggio/ionview/internal/metrics"
	"github.com/rpggio/ionview/internal/mysql"
	"github.com/rpggio/ionview/internal/source"
	"github.com/rpggio/ionview/internal/sqlite"
	"github.com/rpggio/ionview/internal/transport"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("IONVIEW_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Artifacts)
	if err != nil {
		logger.Error("failed to open artifact store", "error", err)
		os.Exit(1)
	}

	catalog, closeCatalog, err := openCatalog(ctx, cfg.Artifacts, store, logger)
	if err != nil {
		logger.Error("failed to load artifact catalog", "driver", cfg.Artifacts.Catalog.Driver, "error", err)
		os.Exit(1)
	}
	defer closeCatalog()
	logger.Info("artifact catalog loaded", "driver", cfg.Artifacts.Catalog.Driver, "artifacts", catalog.Len())

	registry := viewer.NewRegistry(viewer.Options{
		Fetcher:      source.New(cfg.Data.URL, nil),
		Fallback:     source.Embedded(),
		FetchTimeout: cfg.Data.FetchTimeout,
		Catalog:      catalog,
		Links:        artifact.Linker(cfg.Artifacts.BaseHref),
		Scoring:      cfg.Scoring.Apply(variant.DefaultScoring()),
		Observer:     metrics.NewObserver(),
		SessionTTL:   cfg.Server.SessionTTL,
		MaxSessions:  cfg.Server.MaxSessions,
	}, logger)
	registry.Load(ctx)

	mcpServer := mcp.NewServer(mcp.Config{
		Viewer:  registry,
		Version: version,
		Logger:  logger,
	})

	// Branch based on transport mode
	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	router := transport.NewServer(transport.Options{
		RPC:       mcp.NewHandler(registry),
		Stream:    streamHandler(mcpServer),
		Viewer:    registry,
		Artifacts: store,
		Metrics:   metrics.Handler(),
		Logger:    logger,
	})
	runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port)
}

// openStore serves artifacts from S3 when a bucket is configured, otherwise
// from the local artifact directory.
func openStore(ctx context.Context, cfg config.ArtifactsConfig) (artifact.Store, error) {
	if cfg.S3.Bucket == "" {
		return artifact.NewDirStore(cfg.Dir), nil
	}
	store, err := artifact.NewS3Store(ctx, artifact.S3Config{
		Bucket:          cfg.S3.Bucket,
		Prefix:          cfg.S3.Prefix,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// openCatalog builds the startup catalog snapshot for the configured driver.
// The returned func releases any database handle.
func openCatalog(ctx context.Context, cfg config.ArtifactsConfig, store artifact.Store, logger *slog.Logger) (*artifact.Catalog, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Driver {
	case config.DriverStatic:
		return artifact.NewCatalog(artifact.DefaultNames()), noop, nil

	case config.DriverDir:
		names, err := artifact.ScanDir(os.DirFS(cfg.Dir), ".")
		if err != nil {
			return nil, noop, err
		}
		return artifact.NewCatalog(names), noop, nil

	case config.DriverS3:
		idx, ok := store.(artifact.Index)
		if !ok {
			return nil, noop, fmt.Errorf("artifact store %T cannot list artifacts", store)
		}
		catalog, err := artifact.LoadCatalog(ctx, idx)
		return catalog, noop, err

	case config.DriverSQLite:
		path := cfg.Catalog.DSN
		if path == "" {
			path = "ionview.db"
		}
		if err := ensureDBDir(path); err != nil {
			return nil, noop, err
		}
		db, err := sqlite.New(path)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() { _ = db.Close() }
		if err := db.RunMigrations(); err != nil {
			closeDB()
			return nil, noop, err
		}
		catalog, added, err := artifact.LoadSeeded(ctx, sqlite.NewArtifactRepository(db), func() []string {
			names, err := artifact.ScanDir(os.DirFS(cfg.Dir), ".")
			if err != nil {
				logger.Warn("artifact directory scan failed, seeding defaults", "dir", cfg.Dir, "error", err)
				return artifact.DefaultNames()
			}
			return names
		})
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		if added > 0 {
			logger.Info("artifact index seeded", "added", added)
		}
		return catalog, closeDB, nil

	case config.DriverMySQL:
		db, err := mysql.Open(mysql.Options{DSN: cfg.Catalog.DSN, Table: cfg.Catalog.Table})
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() { _ = db.Close() }
		if err := db.Ping(ctx); err != nil {
			closeDB()
			return nil, noop, err
		}
		catalog, err := artifact.LoadCatalog(ctx, db)
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		return catalog, closeDB, nil

	default:
		return nil, noop, fmt.Errorf("unknown catalog driver %q", cfg.Catalog.Driver)
	}
}

func streamHandler(mcpServer *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

// truncateIfNeeded keeps the newest keepLogSizeBytes once the file passes
// maxLogSizeBytes.
func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := io.ReadFull(w.file, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
