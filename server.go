package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	defaultJournalDays = 7
	maxJournalDays     = 365
	journalTopTargets  = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// JournalReport is the body of GET /api/journal
type JournalReport struct {
	ArenaID    string         `json:"arena,omitempty"`
	Days       int            `json:"days"`
	Counts     map[string]int `json:"counts"`
	TopTargets []TargetCount  `json:"top_targets"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, publicURL string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{
			"arenas":  hub.arenas.Count(),
			"clients": hub.ClientCount(),
		})
	})

	// Spectate link for an arena as a QR code PNG
	mux.HandleFunc("/qr/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/qr/")
		if !ValidUUID(id) || hub.arenas.Get(id) == nil {
			http.NotFound(w, r)
			return
		}
		png, err := SpectateQR(publicURL, id)
		if err != nil {
			log.Error("qr render failed", "arena", id, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	})

	mux.HandleFunc("/api/journal", func(w http.ResponseWriter, r *http.Request) {
		if hub.journal == nil {
			http.Error(w, "journal disabled", http.StatusServiceUnavailable)
			return
		}
		arenaID := r.URL.Query().Get("arena")
		days := defaultJournalDays
		if s := r.URL.Query().Get("days"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxJournalDays {
				http.Error(w, "days must be 1-365", http.StatusBadRequest)
				return
			}
			days = n
		}
		counts, err := hub.journal.EventCounts(arenaID, days)
		if err != nil {
			log.Error("journal counts failed", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		top, err := hub.journal.TopTargets(arenaID, days, journalTopTargets)
		if err != nil {
			log.Error("journal top targets failed", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if top == nil {
			top = []TargetCount{}
		}
		writeJSON(w, http.StatusOK, JournalReport{ArenaID: arenaID, Days: days, Counts: counts, TopTargets: top})
	})

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("upgrade failed", "addr", ip, "err", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	return mux
}
