// Memoryflip
//
// The server deals a shuffled deck of paired symbols and keeps the
// id -> symbol table to itself. Clients flip two cards and ask the server
// whether they match; the values a client displays are never trusted.
//
// Routes:
//   - $prefix/         → HTML client
//   - $prefix/game     → deal a new deck (JSON)
//   - $prefix/check    → check two card ids (JSON, ?id1=&id2=)
//   - $prefix/ws       → the same two operations over a WebSocket
//   - $prefix/qr       → PNG QR code for the game URL
//
// There is one table per server. Dealing replaces it for every client.

package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/Seednode/memoryflip/memory"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/skip2/go-qrcode"
)

// Responses sent to clients
type DeckResponse struct {
	Round string      `json:"round"`
	Deck  memory.Deck `json:"deck"`
}

type MatchResponse struct {
	Match bool `json:"match"`
}

// Messages coming from WebSocket clients
type ClientMessage struct {
	Type string `json:"type"`          // "new_game", "check"
	ID1  *int   `json:"id1,omitempty"` // check
	ID2  *int   `json:"id2,omitempty"` // check
}

// Messages sent to WebSocket clients
type DeckMessage struct {
	Type  string      `json:"type"` // "deck"
	Round string      `json:"round"`
	Deck  memory.Deck `json:"deck"`
}

type MatchMessage struct {
	Type  string `json:"type"` // "match"
	ID1   int    `json:"id1"`
	ID2   int    `json:"id2"`
	Match bool   `json:"match"`
}

// SimpleMessage is for errors reported over the socket.
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Game owns the table shared by every client of this server.
type Game struct {
	cfg    *Config
	dealer *memory.Dealer
	table  *memory.Table
}

func newGame(cfg *Config) (*Game, error) {
	table := &memory.Table{}

	var rng *rand.Rand
	if cfg.seed != 0 {
		rng = memory.NewSeededRand(cfg.seed)
	}

	dealer, err := memory.NewDealer(cfg.deckSymbols(), rng, table)
	if err != nil {
		return nil, err
	}

	return &Game{
		cfg:    cfg,
		dealer: dealer,
		table:  table,
	}, nil
}

func (g *Game) deal() (memory.Deck, memory.Round) {
	return g.dealer.Deal()
}

// check applies the server's self-match policy on top of the table lookup.
func (g *Game) check(id1, id2 int) bool {
	if g.cfg.forbidSelfMatch && id1 == id2 {
		return false
	}

	return g.table.Check(id1, id2)
}

func serveNewGame(g *Game, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		deck, round := g.deal()

		written, err := writeJSON(g.cfg, w, http.StatusOK, DeckResponse{
			Round: round.String(),
			Deck:  deck,
		})
		if err != nil {
			errs <- err

			return
		}

		logf(g.cfg, "GAMES: Dealt round %s (%d cards, %s) to %s in %s",
			round,
			len(deck),
			humanReadableSize(written),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveCheck(g *Game, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		q := r.URL.Query()

		id1, id2, err := memory.ParseIDs(q.Get("id1"), q.Get("id2"))
		if err != nil {
			if _, err := writeJSON(g.cfg, w, http.StatusBadRequest, errorResponse{Error: err.Error()}); err != nil {
				errs <- err
			}

			logf(g.cfg, "GAMES: Rejected check from %s: %v", realIP(r), err)

			return
		}

		match := g.check(id1, id2)

		_, err = writeJSON(g.cfg, w, http.StatusOK, MatchResponse{Match: match})
		if err != nil {
			errs <- err

			return
		}

		logf(g.cfg, "GAMES: Checked %d/%d (match=%t) in round %s for %s in %s",
			id1,
			id2,
			match,
			g.table.Round(),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	conn *websocket.Conn
	send chan any
	addr string
}

func serveWS(g *Game) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(g.cfg, "GAMES: WebSocket upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 8),
			addr: realIP(r),
		}

		logf(g.cfg, "GAMES: WebSocket opened by %s", client.addr)

		go client.writePump()
		client.readPump(g)
	}
}

func (c *Client) readPump(g *Game) {
	defer func() {
		close(c.send)
		_ = c.conn.Close()

		logf(g.cfg, "GAMES: WebSocket closed by %s", c.addr)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send <- SimpleMessage{
				Type:    "error",
				Message: fmt.Errorf("%w: %v", memory.ErrInvalidRequest, err).Error(),
			}

			continue
		}

		switch msg.Type {
		case "new_game":
			deck, round := g.deal()

			logf(g.cfg, "GAMES: Dealt round %s (%d cards) to %s over WebSocket", round, len(deck), c.addr)

			c.send <- DeckMessage{
				Type:  "deck",
				Round: round.String(),
				Deck:  deck,
			}
		case "check":
			id1, id2, err := memory.RequireIDs(msg.ID1, msg.ID2)
			if err != nil {
				c.send <- SimpleMessage{
					Type:    "error",
					Message: err.Error(),
				}

				continue
			}

			c.send <- MatchMessage{
				Type:  "match",
				ID1:   id1,
				ID2:   id2,
				Match: g.check(id1, id2),
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			// keep draining so readPump never blocks on a dead socket
			for range c.send {
			}
			return
		}
	}
}

// qrHandler generates a PNG QR code pointing at the game page.
func qrHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr") + "/"

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			errs <- fmt.Errorf("qr generation for %s: %w", url, err)

			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// withCORS applies the configured cross-origin policy before h runs.
func withCORS(c *cors.Cors, h httprouter.Handle) httprouter.Handle {
	if c == nil {
		return h
	}

	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		c.HandlerFunc(w, r)
		h(w, r, p)
	}
}

func newCORS(cfg *Config) *cors.Cors {
	if len(cfg.corsOrigins) == 0 {
		return nil
	}

	return cors.New(cors.Options{
		AllowedOrigins: cfg.corsOrigins,
		AllowedMethods: []string{http.MethodGet},
	})
}

// registerMemoryGame sets up the game routes on mux.
func registerMemoryGame(cfg *Config, mux *httprouter.Router, errs chan<- error) error {
	g, err := newGame(cfg)
	if err != nil {
		return fmt.Errorf("unable to set up game: %w", err)
	}

	c := newCORS(cfg)
	if c != nil {
		mux.GlobalOPTIONS = http.HandlerFunc(c.HandlerFunc)
	}

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, errs))

	mux.GET(cfg.prefix+"/game", withCORS(c, serveNewGame(g, errs)))
	mux.GET(cfg.prefix+"/check", withCORS(c, serveCheck(g, errs)))

	mux.GET(cfg.prefix+"/ws", serveWS(g))

	mux.GET(cfg.prefix+"/qr", qrHandler(cfg, errs))

	logf(cfg, "GAMES: Dealing %d symbols (%d cards per deck)", len(cfg.symbols), 2*len(cfg.symbols))

	return nil
}
