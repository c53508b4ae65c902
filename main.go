package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"streambeats/internal/bot"
	"streambeats/internal/database"
	"streambeats/internal/membership"
	"streambeats/internal/music"
	"streambeats/internal/player"
)

/* =========================
   Spotify Client
   ========================= */

func newSpotifyClient(ctx context.Context) *spotify.Client {
	spotifyID := os.Getenv("SPOTIFY_ID")
	spotifySecret := os.Getenv("SPOTIFY_SECRET")
	if spotifyID == "" || spotifySecret == "" {
		log.Println("SPOTIFY_ID/SPOTIFY_SECRET not set, Spotify features disabled")
		return nil
	}

	config := &clientcredentials.Config{
		ClientID:     spotifyID,
		ClientSecret: spotifySecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return spotify.New(config.Client(ctx))
}

/* =========================
   Update Loops
   ========================= */

func runPolling(ctx context.Context, api *tgbotapi.BotAPI, router *bot.Router) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	log.Println("Receiving updates via long polling")
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			go func(upd tgbotapi.Update) {
				defer func() {
					if err := recover(); err != nil {
						log.Printf("PANIC handling update: %v\n%s", err, debug.Stack())
					}
				}()
				router.HandleUpdate(ctx, upd)
			}(upd)
		}
	}
}

func runWebhook(ctx context.Context, api *tgbotapi.BotAPI, router *bot.Router, cfg *bot.Config) {
	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL + "/bot" + cfg.Token)
	if err != nil {
		log.Fatalf("Failed to build webhook config: %v", err)
	}
	if _, err := api.Request(wh); err != nil {
		log.Fatalf("Failed to register webhook: %v", err)
	}

	updates := api.ListenForWebhook("/bot" + cfg.Token)

	srv := &http.Server{Addr: ":" + cfg.Port}
	go func() {
		log.Printf("Webhook server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Webhook server failed: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			srv.Shutdown(context.Background())
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			go func(upd tgbotapi.Update) {
				defer func() {
					if err := recover(); err != nil {
						log.Printf("PANIC handling update: %v\n%s", err, debug.Stack())
					}
				}()
				router.HandleUpdate(ctx, upd)
			}(upd)
		}
	}
}

/* =========================
   Main
   ========================= */

func main() {
	// 1. Environment (Fail fast on a missing token)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := bot.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database Setup
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	if err := database.InitDatabase(db); err != nil {
		log.Fatalf("Failed to init DB schema: %v", err)
	}

	// 3. Backend Services
	spotifyClient := newSpotifyClient(ctx)
	musicSvc := music.NewService(spotifyClient, db, cfg.MaxConcurrentDownloads)
	playerSvc := player.NewService()

	// 4. Telegram API
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	log.Printf("Authorized as @%s", api.Self.UserName)

	transport := bot.NewTelegram(api)

	// 5. Membership Gate
	store := membership.OpenStore(cfg.DataFile)
	checker := membership.NewChecker(transport, store, cfg.RequiredChannels)

	// 6. Routing
	router := bot.NewRouter(cfg, transport, playerSvc, musicSvc, checker)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if cfg.UseWebhook && cfg.WebhookURL != "" {
		runWebhook(ctx, api, router, cfg)
	} else {
		go func() {
			log.Printf("Health endpoint listening on :%s", cfg.Port)
			if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
				log.Printf("Health server stopped: %v", err)
			}
		}()
		runPolling(ctx, api, router)
	}

	log.Println("Shutting down")
}
