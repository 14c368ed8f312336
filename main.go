package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeevesbot/jeeves/internal/config"
	"github.com/jeevesbot/jeeves/internal/dispatch"
	"github.com/jeevesbot/jeeves/internal/extract"
	"github.com/jeevesbot/jeeves/internal/gemini"
	"github.com/jeevesbot/jeeves/internal/intent"
	"github.com/jeevesbot/jeeves/internal/schedule"
	"github.com/jeevesbot/jeeves/internal/store"
	"github.com/jeevesbot/jeeves/internal/telegram"
)

func main() {
	cfg := config.LoadFromEnv()

	st, err := initStore(cfg)
	if err != nil {
		fatal("creating store", err)
	}
	defer st.Close()

	oracle := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	if !oracle.IsConfigured() {
		fmt.Println("Warning: GEMINI_API_KEY not set, language understanding disabled")
	} else {
		fmt.Printf("Gemini client configured (model %s)\n", cfg.GeminiModel)
	}

	tgClient, handler := initTelegram(cfg)

	scheduler := schedule.NewScheduler(tgClient)
	watcher := schedule.NewWatcher(st, tgClient, cfg.ScanInterval, cfg.ScanInitialDelay)
	watcher.Start()

	dispatcher := dispatch.New(
		intent.NewClassifier(oracle),
		extract.New(oracle),
		oracle,
		st,
		scheduler,
		tgClient,
		handler.MessageChan(),
		cfg.WorkerCount,
	)
	dispatcher.Start()

	waitForShutdown(dispatcher, watcher, scheduler, tgClient)
}

func initStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		fmt.Println("Store: in-memory (records are lost on restart)")
		return store.NewMemory(), nil
	case "file":
		fmt.Printf("Store: file at %s\n", cfg.StoreFilePath)
		return store.NewFile(cfg.StoreFilePath), nil
	case "sqlite":
		fmt.Printf("Store: sqlite at %s\n", cfg.DBPath)
		return store.NewSQLite(cfg.DBPath)
	case "firestore":
		fmt.Printf("Store: firestore project %s\n", cfg.FirestoreProject)
		return store.NewFirestore(context.Background(), cfg.FirestoreProject, cfg.FirestoreCredsFile)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}

func initTelegram(cfg *config.Config) (*telegram.Client, *telegram.Handler) {
	handler := telegram.NewHandler()

	tgClient, err := telegram.NewClient(telegram.ClientConfig{
		APIID:       cfg.TelegramAPIID,
		APIHash:     cfg.TelegramAPIHash,
		BotToken:    cfg.TelegramBotToken,
		SessionPath: cfg.SessionPath,
		Handler:     handler,
	})
	if err != nil {
		fatal("creating Telegram client", err)
	}

	if err := tgClient.Connect(); err != nil {
		fatal("connecting to Telegram", err)
	}
	tgClient.StartUpdateLoop()

	return tgClient, handler
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(dispatcher *dispatch.Dispatcher, watcher *schedule.Watcher, scheduler *schedule.Scheduler, tgClient *telegram.Client) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("Shutting down...")

	dispatcher.Stop()
	watcher.Stop()
	scheduler.Stop()
	tgClient.Disconnect()
}
