package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/oxydraw/oxydraw/internal/asset"
	"github.com/oxydraw/oxydraw/internal/config"
	"github.com/oxydraw/oxydraw/internal/examples"
	"github.com/oxydraw/oxydraw/internal/export"
	"github.com/oxydraw/oxydraw/internal/gallery"
	mw "github.com/oxydraw/oxydraw/internal/middleware"
	"github.com/oxydraw/oxydraw/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := asset.NewStore(cfg.AssetDir)
	env := examples.Env{Tiles: asset.NewTileDir(cfg.TileDir)}

	galleryService, err := gallery.NewService(env, cfg.DefaultExample)
	if err != nil {
		slog.Error("create gallery", "error", err)
		os.Exit(1)
	}
	galleryHandler := gallery.NewHandler(galleryService)
	assetHandler := asset.NewHandler(store)
	exportHandler := export.NewHandler(env, store, export.Options{
		Width:   cfg.ExportWidth,
		Height:  cfg.ExportHeight,
		Padding: cfg.DrawingPadding,
	})

	hub := session.NewHub(session.Options{
		Env:       env,
		FrameRate: cfg.FrameRate,
		Padding:   cfg.DrawingPadding,
		ImageRef:  store.IDOf,
	})
	go hub.Run(ctx)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Gallery and exports
	r.HandleFunc("/examples", galleryHandler.List).Methods("GET")
	r.HandleFunc("/examples/{name:[a-z0-9-]+}.{format:[a-z]+}", exportHandler.Example).Methods("GET")
	r.HandleFunc("/examples/{name:[a-z0-9-]+}", galleryHandler.Get).Methods("GET")
	r.HandleFunc("/examples/{name:[a-z0-9-]+}/hit", galleryHandler.HitTest).Methods("GET")
	r.HandleFunc("/export/document", exportHandler.Document).Methods("POST", "OPTIONS")

	// Image assets for image elements
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/assets/{id}.png", assetHandler.Get).Methods("GET")
	r.HandleFunc("/assets/{id}", assetHandler.Delete).Methods("DELETE", "OPTIONS")

	// Live views
	originPatterns := originHosts(cfg.Origins())
	r.HandleFunc("/ws/view/{name:[a-z0-9-]+}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, originPatterns)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
		cancel()
	}()

	slog.Info("server starting", "addr", addr, "assets", cfg.AssetDir, "tiles", cfg.TileDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// originHosts converts allowed origins to websocket origin patterns, which match hosts.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			hosts = append(hosts, "*")
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			slog.Warn("ignoring allowed origin", "origin", o)
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

func dimension(r *http.Request, name string, fallback float64) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, originPatterns []string) {
	ex, err := examples.Get(mux.Vars(r)["name"])
	if err != nil {
		http.Error(w, "example not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := session.NewClient(hub, conn, ex, clientID, dimension(r, "width", 800), dimension(r, "height", 600))

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
