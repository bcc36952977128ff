package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "seeker.db", "Path to the SQLite database (empty disables persistence)")
	tuningPath := flag.String("tuning", "", "Path to a JSON tuning file (default: built-in values)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	publicURL := flag.String("public-url", "http://localhost:8080", "Base URL used in spectate links")
	idle := flag.Duration("idle", DefaultIdleTimeout, "How long an arena with no spectators survives")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal("bad log level", "level", *logLevel, "err", err)
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)

	tuning, err := LoadTuning(*tuningPath)
	if err != nil {
		log.Fatal("failed to load tuning", "err", err)
	}

	var db *DB
	if *dbPath != "" {
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatal("failed to open database", "path", *dbPath, "err", err)
		}
		defer db.Close()
	}

	protection, err := NewProtection(db)
	if err != nil {
		log.Fatal("failed to load protection list", "err", err)
	}
	journal := NewJournal(db)
	defer journal.Stop()

	arenas := NewArenaManager(tuning, *idle, journal, protection.Listener())
	arenas.StartReaper()
	defer arenas.Stop()

	hub := NewHub(arenas, NewAuth(db), protection, journal)
	go hub.Run()

	mux := SetupRoutes(hub, *publicURL)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Info("server starting", "addr", *addr, "db", *dbPath, "protected", len(protection.Names()))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("ListenAndServe failed", "err", err)
		}
	}()

	<-stop
	log.Info("shutting down")
	server.Close()
}
