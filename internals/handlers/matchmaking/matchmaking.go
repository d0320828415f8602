package matchmaking

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"Connect-4-AI/internals/engine"
	"Connect-4-AI/internals/handlers/game"
	"Connect-4-AI/internals/metrics"
)

const BotName = "Bot"

type Player struct {
	Username string
	Conn     *websocket.Conn
	ID       int // 1 or 2
	Bot      bool

	mu    sync.Mutex
	inbox chan Move
	gone  chan struct{}
}

func newPlayer(username string, conn *websocket.Conn) *Player {
	p := &Player{Username: username, inbox: make(chan Move, 8)}
	if conn != nil {
		p.attach(conn)
	}
	return p
}

// attach binds a fresh connection and starts reading moves from it.
func (p *Player) attach(conn *websocket.Conn) {
	gone := make(chan struct{})
	p.mu.Lock()
	p.Conn = conn
	p.gone = gone
	p.mu.Unlock()

	go func() {
		defer close(gone)
		for {
			var move Move
			if err := conn.ReadJSON(&move); err != nil {
				log.Debug().Err(err).Str("username", p.Username).Msg("read stopped")
				return
			}
			select {
			case p.inbox <- move:
			default:
				log.Warn().Str("username", p.Username).Msg("dropping move, inbox full")
			}
		}
	}()
}

func (p *Player) detach() {
	p.mu.Lock()
	p.Conn = nil
	p.mu.Unlock()
}

// goneCh is closed when the current connection stops reading. Nil for bots,
// so selecting on it blocks forever.
func (p *Player) goneCh() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Conn == nil {
		return nil
	}
	return p.gone
}

func (p *Player) inboxCh() <-chan Move {
	if p.Bot {
		return nil
	}
	return p.inbox
}

// send writes one JSON message; a websocket allows a single writer at a time.
func (p *Player) send(v interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Conn == nil {
		return
	}
	if err := p.Conn.WriteJSON(v); err != nil {
		log.Debug().Err(err).Str("username", p.Username).Msg("write failed")
	}
}

func (p *Player) connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Conn != nil
}

type CachedGame struct {
	Game        *game.Game
	Player1     *Player
	Player2     *Player
	Timestamp   time.Time
	CancelTimer context.CancelFunc
}

// player returns the seat held by username, or nil.
func (c *CachedGame) player(username string) *Player {
	switch username {
	case c.Player1.Username:
		return c.Player1
	case c.Player2.Username:
		return c.Player2
	}
	return nil
}

// Move represents the message structure for a player's move
type Move struct {
	Type   string `json:"type"`
	Col    int    `json:"col"`
	Player int    `json:"player"`
}

type Options struct {
	BotTimeout            time.Duration
	ReconnectTimeout      time.Duration
	BotMoveDelay          time.Duration
	DisconnectedCacheSize int
}

// Server pairs players, runs games and keeps disconnected games around for
// a reconnect window.
type Server struct {
	store Store
	bots  *BotPool
	opts  Options

	upgrader    websocket.Upgrader
	playerQueue chan *Player

	mutex        sync.Mutex // To protect the games map
	games        map[string]*game.Game
	disconnected *lru.Cache
}

func NewServer(store Store, bots *BotPool, opts Options) (*Server, error) {
	if opts.DisconnectedCacheSize <= 0 {
		opts.DisconnectedCacheSize = 100
	}
	cache, err := lru.New(opts.DisconnectedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("disconnected games cache: %w", err)
	}
	return &Server{
		store: store,
		bots:  bots,
		opts:  opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		playerQueue:  make(chan *Player, 1),
		games:        make(map[string]*game.Game),
		disconnected: cache,
	}, nil
}

// Run pairs queued players until ctx is done. A player left alone for
// BotTimeout gets a bot opponent.
func (s *Server) Run(ctx context.Context) {
	log.Info().Msg("Matchmaker started")
	for {
		var p1 *Player
		select {
		case p1 = <-s.playerQueue:
		case <-ctx.Done():
			return
		}
		log.Info().Str("username", p1.Username).Msg("waiting for an opponent")

		select {
		case p2 := <-s.playerQueue:
			log.Info().Str("player1", p1.Username).Str("player2", p2.Username).Msg("Match found")
			go s.startGame(p1, p2)
		case <-time.After(s.opts.BotTimeout):
			log.Info().Str("username", p1.Username).Msg("No opponent found, starting a bot game")
			bot := newPlayer(BotName, nil)
			bot.Bot = true
			go s.startGame(p1, bot)
		case <-ctx.Done():
			return
		}
	}
}

// ActiveGames returns the number of games currently being played.
func (s *Server) ActiveGames() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.games)
}

func (s *Server) HandleGame(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "Username required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Upgrade error")
		return
	}

	if val, ok := s.disconnected.Get(username); ok {
		cached := val.(*CachedGame)
		if me := cached.player(username); me != nil && !me.connected() {
			s.reconnect(cached, me, conn)
			return
		}
	}

	log.Info().Str("username", username).Msg("Player connected, adding to queue")
	s.playerQueue <- newPlayer(username, conn)
}

func (s *Server) reconnect(cached *CachedGame, me *Player, conn *websocket.Conn) {
	g := cached.Game
	log.Info().Str("username", me.Username).Str("game_id", g.ID).Msg("Player is reconnecting")

	if cached.CancelTimer != nil {
		cached.CancelTimer()
	}

	p1, p2 := cached.Player1, cached.Player2
	other := p1
	if me == p1 {
		other = p2
	}
	me.attach(conn)

	s.forget(me)
	s.mutex.Lock()
	s.games[g.ID] = g
	s.mutex.Unlock()

	g.Mutex.Lock()
	start := map[string]interface{}{
		"type":            "GAME_START",
		"game_id":         g.ID,
		"board":           g.Board,
		"state":           g.StateString(),
		"player_number":   me.ID,
		"player1_name":    g.Player1,
		"player2_name":    g.Player2,
		"starting_player": g.Turn,
	}
	back := map[string]interface{}{
		"type":          "OPPONENT_RECONNECTED",
		"message":       "Your opponent has reconnected!",
		"game_id":       g.ID,
		"board":         g.Board,
		"state":         g.StateString(),
		"next_turn":     g.Turn,
		"player_number": other.ID,
		"player1_name":  g.Player1,
		"player2_name":  g.Player2,
	}
	g.Mutex.Unlock()

	me.send(start)
	other.send(back)
	go s.handleGamePlay(g, p1, p2)
}

func (s *Server) startGame(p1, p2 *Player) {
	id := uuid.NewString()
	g := game.NewGame(id, p1.Username, p2.Username)

	s.mutex.Lock()
	s.games[id] = g
	s.mutex.Unlock()

	p1.ID, p2.ID = game.HumanPlayer, game.BotPlayer
	metrics.GameStarted(p2.Bot)

	for _, p := range []*Player{p1, p2} {
		p.send(map[string]interface{}{
			"type":            "GAME_START",
			"game_id":         g.ID,
			"board":           g.Board,
			"state":           g.StateString(),
			"player_number":   p.ID,
			"player1_name":    g.Player1,
			"player2_name":    g.Player2,
			"starting_player": g.Turn,
		})
	}

	go s.handleGamePlay(g, p1, p2)
}

func (s *Server) handleGamePlay(g *game.Game, p1, p2 *Player) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.runTimer(ctx, g, p1, p2)

	var botMoves chan Move
	if p2.Bot {
		botMoves = make(chan Move)
		go s.runBot(ctx, g, p2, botMoves)
	}

	gone1, gone2 := p1.goneCh(), p2.goneCh()
	for {
		var move Move
		select {
		case <-ctx.Done():
			return
		case <-gone1:
			s.handleDisconnection(g, p1, p2, p1)
			return
		case <-gone2:
			s.handleDisconnection(g, p1, p2, p2)
			return
		case move = <-p1.inboxCh():
			move.Player = p1.ID
		case move = <-p2.inboxCh():
			move.Player = p2.ID
		case move = <-botMoves:
		}

		if s.applyMove(g, p1, p2, move) {
			return
		}
	}
}

// applyMove plays one move and reports whether it ended the game.
func (s *Server) applyMove(g *game.Game, p1, p2 *Player, move Move) bool {
	g.Mutex.Lock()
	if g.Over || move.Player != g.Turn {
		g.Mutex.Unlock()
		return false
	}
	row, col, err := g.PlaceDisc(move.Player, move.Col)
	if err != nil {
		g.Mutex.Unlock()
		log.Warn().Err(err).Int("player", move.Player).Int("col", move.Col).Msg("Invalid move")
		return false
	}
	won := g.CheckWin(row, col, move.Player)
	draw := !won && g.CheckDraw()
	g.Over = won || draw
	response := map[string]interface{}{
		"type":      "MOVE",
		"col":       col,
		"row":       row,
		"player":    move.Player,
		"next_turn": g.Turn,
	}
	state := g.StateString()
	g.Mutex.Unlock()

	log.Debug().Str("game_id", g.ID).Int("player", move.Player).Int("row", row).Int("col", col).
		Str("state", state).Msg("move played")
	p1.send(response)
	p2.send(response)

	if !won && !draw {
		return false
	}

	winner, result, message := "draw", "draw", "It's a draw!"
	if won {
		winner = g.Player1
		if move.Player == p2.ID {
			winner = g.Player2
		}
		result, message = "win", winner+" wins!"
	}
	s.recordResult(g, winner, result)
	log.Info().Str("game_id", g.ID).Str("winner", winner).Msg("Game ended")

	over := map[string]interface{}{
		"type":    "GAME_OVER",
		"message": message,
		"state":   state,
	}
	p1.send(over)
	p2.send(over)

	s.mutex.Lock()
	delete(s.games, g.ID)
	s.mutex.Unlock()
	// Connections stay open; clients close them when they are ready.
	return true
}

func (s *Server) runTimer(ctx context.Context, g *game.Game, p1, p2 *Player) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Mutex.Lock()
			if g.Over {
				g.Mutex.Unlock()
				return
			}
			elapsed := time.Since(g.StartTime)
			g.Mutex.Unlock()

			msg := map[string]interface{}{
				"type":    "TIMER_UPDATE",
				"elapsed": int(elapsed.Seconds()),
			}
			p1.send(msg)
			p2.send(msg)
		}
	}
}

// runBot answers every position where it is the bot's turn exactly once.
func (s *Server) runBot(ctx context.Context, g *game.Game, bot *Player, out chan<- Move) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	answered := -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		g.Mutex.Lock()
		over, turn, ply := g.Over, g.Turn, len(g.Moves)
		g.Mutex.Unlock()
		if over {
			return
		}
		if turn != bot.ID || ply == answered {
			continue
		}
		answered = ply

		if s.opts.BotMoveDelay > 0 {
			select {
			case <-time.After(s.opts.BotMoveDelay):
			case <-ctx.Done():
				return
			}
		}

		d, err := s.bots.Choose(ctx, g, bot.ID)
		if err != nil {
			return
		}
		if d.Column == engine.NoMove {
			log.Warn().Str("game_id", g.ID).Msg("bot has no move")
			return
		}
		log.Debug().Str("game_id", g.ID).Int("col", d.Column).Str("reason", string(d.Reason)).
			Int32("score", d.Score).Uint64("nodes", d.Nodes).Msg("bot move")

		select {
		case out <- Move{Type: "MOVE", Col: d.Column, Player: bot.ID}:
		case <-ctx.Done():
			return
		}
	}
}

// forget drops the suspended game p could resume.
func (s *Server) forget(p *Player) {
	s.disconnected.Remove(p.Username)
}

// handleDisconnection parks the game in the LRU and forfeits it to the
// remaining player unless the leaver reconnects in time.
func (s *Server) handleDisconnection(g *game.Game, p1, p2, leaver *Player) {
	g.Mutex.Lock()
	over := g.Over
	g.Mutex.Unlock()
	if over {
		return
	}
	other := p1
	if leaver == p1 {
		other = p2
	}
	leaver.detach()

	s.mutex.Lock()
	delete(s.games, g.ID)
	s.mutex.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cached := &CachedGame{
		Game:        g,
		Player1:     p1,
		Player2:     p2,
		Timestamp:   time.Now(),
		CancelTimer: cancel,
	}
	// Only the leaver may resume the game; a new socket from the other
	// player goes through matchmaking.
	s.disconnected.Add(leaver.Username, cached)

	log.Info().Str("game_id", g.ID).Str("username", leaver.Username).
		Dur("timeout", s.opts.ReconnectTimeout).Msg("Game moved to cache due to disconnection")

	other.send(map[string]string{
		"type":    "OPPONENT_DISCONNECTED",
		"message": "Your opponent has disconnected. Waiting for them to reconnect...",
	})

	go func() {
		timer := time.NewTimer(s.opts.ReconnectTimeout)
		defer timer.Stop()

		select {
		case <-timer.C:
			if _, still := s.disconnected.Get(leaver.Username); !still {
				return
			}
			log.Info().Str("game_id", g.ID).Str("username", leaver.Username).Msg("Reconnection timeout, game forfeited")
			s.forget(leaver)

			g.Mutex.Lock()
			g.Over = true
			g.Mutex.Unlock()

			s.recordResult(g, other.Username, "forfeit")
			other.send(map[string]interface{}{
				"type":    "GAME_OVER",
				"message": fmt.Sprintf("%s forfeited. You win!", leaver.Username),
				"reason":  "opponent_timeout",
			})
		case <-ctx.Done():
			log.Info().Str("game_id", g.ID).Str("username", leaver.Username).Msg("Timer cancelled, player reconnected")
		}
	}()
}
