package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/relgraph/relgraph/internal/animation"
	"github.com/relgraph/relgraph/internal/auth"
	"github.com/relgraph/relgraph/internal/collab"
	"github.com/relgraph/relgraph/internal/config"
	"github.com/relgraph/relgraph/internal/diagram"
	"github.com/relgraph/relgraph/internal/engine"
	mw "github.com/relgraph/relgraph/internal/middleware"
	"github.com/relgraph/relgraph/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		slog.Error("parse log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	easing, err := animation.ParseEasing(cfg.AnimationEasing)
	if err != nil {
		slog.Error("parse animation easing", "error", err)
		os.Exit(1)
	}
	animOpts := animation.Options{
		Duration:     cfg.AnimationDuration,
		FadeDuration: cfg.FadeDuration,
		Easing:       easing,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		st = pg
	} else {
		slog.Warn("no database configured, snapshots are kept in memory")
		st = store.NewMemory()
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)

	hub := collab.NewHub(st.Latest, animOpts)
	go hub.Run()

	diagramService := diagram.NewService(st, hub, engine.Options{Animation: animOpts}, cfg.PreviewMaxWidth)
	diagramHandler := diagram.NewHandler(diagramService)

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	diagramHandler.Register(r, authService.AuthMiddleware)

	originPatterns := originHosts(cfg.Origins())
	r.HandleFunc("/ws/diagram/{diagramId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, originPatterns)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", fmt.Sprintf("%T", st))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// handleWebSocket joins a viewer to a diagram room. Viewers may watch
// anonymously; a token, when given, must be valid and names the viewer.
func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, originPatterns []string) {
	diagramID := mux.Vars(r)["diagramId"]

	userID := "anon-" + uuid.New().String()[:8]
	displayName := r.URL.Query().Get("name")
	if displayName == "" {
		displayName = "Anonymous"
	}

	if token := r.URL.Query().Get("token"); token != "" {
		id, err := authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		userID = id
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, diagramID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originHosts turns allowed origins into the host patterns websocket.Accept
// matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			hosts = append(hosts, o)
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
