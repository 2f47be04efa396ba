// Package client is the terminal front-end of one player: it polls keys,
// drives a Session at a fixed frame rate and renders its snapshots.
package client

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/draw"
	"github.com/tomz197/meteorshtorm/internal/input"
	"github.com/tomz197/meteorshtorm/internal/loop"
	"github.com/tomz197/meteorshtorm/internal/loop/config"
	"github.com/tomz197/meteorshtorm/internal/loop/server"
	"github.com/tomz197/meteorshtorm/internal/object"
	"github.com/tomz197/meteorshtorm/internal/sound"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	session      *loop.Session
	snap         loop.Snapshot
	shapes       *shapes
	colors       map[string]draw.Color
	state        *ClientState
	canvas       *draw.Canvas
	frame        *draw.FrameWriter // Collects each frame for one synchronized write
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	sound        *sound.Player
	log          *zap.Logger

	inactivityWarn       time.Duration
	inactivityDisconnect time.Duration
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Sound        *sound.Player // nil plays nothing
	Logger       *zap.Logger

	// Idle limits; zero disables the warning or the disconnect.
	InactivityWarn       time.Duration
	InactivityDisconnect time.Duration
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	c := newClient(gs, w, opts)
	c.inputStream = input.StartStream(r)
	return c
}

func newClient(gs server.GameServer, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	handle := gs.RegisterClient(opts.Username)
	session := gs.NewSession(handle.ID)
	arena := session.Arena()

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := fitTermSize(termWidth, termHeight, arena)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, arena.Width, arena.Height)
	canvas.SetOffset(offsetCol, offsetRow)
	frame := draw.NewFrameWriter(w)
	frame.Place(offsetCol, offsetRow, renderWidth, renderHeight)

	c := &Client{
		server:       gs,
		handle:       handle,
		session:      session,
		shapes:       newShapes(rand.New(rand.NewSource(time.Now().UnixNano() + int64(handle.ID)))),
		colors:       make(map[string]draw.Color),
		state:        NewClientState(),
		canvas:       canvas,
		frame:        frame,
		writer:       w,
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		sound:        opts.Sound,
		log:          log.With(zap.Int("client", handle.ID)),

		inactivityWarn:       opts.InactivityWarn,
		inactivityDisconnect: opts.InactivityDisconnect,
	}
	session.Snapshot(&c.snap)
	return c
}

// Run starts the client loop. Blocks until the client quits, idles out or the
// server finishes shutting down.
func (c *Client) Run() error {
	draw.EnterScreen(c.writer)
	defer draw.LeaveScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.handleKeys(c.inputStream.Poll(frameStart), frameStart)
		c.checkInactivity(frameStart)
		c.processServerEvents()
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// update advances whatever the current screen animates.
func (c *Client) update() {
	c.state.tick(c.state.delta)

	switch c.state.GameState {
	case GameStatePlaying:
		c.handleEvents(c.session.Tick(c.state.delta))
	case GameStateShutdown:
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
	c.session.Snapshot(&c.snap)
}

func sessionKey(k input.Key) (object.Key, bool) {
	switch k {
	case input.KeyLeft:
		return object.KeyLeft, true
	case input.KeyRight:
		return object.KeyRight, true
	case input.KeyFire:
		return object.KeyFire, true
	}
	return 0, false
}

// handleKeys applies key events to the current screen.
func (c *Client) handleKeys(events []input.KeyEvent, now time.Time) {
	for _, ev := range events {
		if ev.Pressed {
			c.lastInput = now
			c.state.isInactive = false
		}
		if ev.Pressed && ev.Key == input.KeyQuit {
			c.state.Running = false
			return
		}

		switch c.state.GameState {
		case GameStateMenu:
			if ev.Pressed && (ev.Key == input.KeyFire || ev.Key == input.KeyEnter) {
				c.sound.Play(sound.CueClick)
				c.startGame()
			}
		case GameStatePlaying:
			// A dying session still owes its final score, so it cannot be left yet.
			if ev.Pressed && (ev.Key == input.KeyMenu || ev.Key == input.KeyEscape) && c.session.Phase() != loop.PhaseDying {
				c.sound.Play(sound.CueClick)
				c.state.GameState = GameStateMenu
				continue
			}
			if k, ok := sessionKey(ev.Key); ok {
				c.handleEvents(c.session.SetKey(k, ev.Pressed))
			}
		case GameStateGameOver:
			if !ev.Pressed {
				continue
			}
			switch ev.Key {
			case input.KeyFire, input.KeyEnter:
				c.sound.Play(sound.CueClick)
				c.startGame()
			case input.KeyMenu, input.KeyEscape:
				c.sound.Play(sound.CueClick)
				c.state.GameState = GameStateMenu
			}
		}
	}
}

func (c *Client) checkInactivity(now time.Time) {
	idle := now.Sub(c.lastInput)
	if c.inactivityDisconnect > 0 && idle > c.inactivityDisconnect {
		c.log.Info("disconnecting idle client", zap.Duration("idle", idle))
		c.state.Running = false
		return
	}
	if c.inactivityWarn > 0 && idle > c.inactivityWarn {
		c.state.isInactive = true
	}
}

// handleEvents attaches presentation handles to new entities, forgets released
// ones and reacts to scoring and death.
func (c *Client) handleEvents(events []loop.Event) {
	for i := range events {
		ev := &events[i]
		switch ev.Type {
		case loop.EventMeteorSpawned:
			ev.Meteor.Handle = c.shapes.assign(true)
		case loop.EventBulletFired:
			ev.Bullet.Handle = c.shapes.assign(false)
		case loop.EventMeteorReleased:
			c.shapes.release(ev.Meteor.Handle)
		case loop.EventPlayerHit:
			c.state.hitFlash = hitFlashTime
		case loop.EventLevelUp:
			c.state.levelBanner = levelBannerTime
			c.state.bannerLevel = ev.Level
		case loop.EventSessionOver:
			c.state.Final = c.session.Score()
			c.state.survived = c.session.Elapsed()
			c.state.newRecord = c.server.ReportScore(c.handle.ID, c.state.Final)
			c.state.GameState = GameStateGameOver
		}
	}
	c.sound.HandleEvents(events)
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			case server.EventNewRecord:
				c.state.recordHolder = event.Username
				c.state.recordScore = event.Score
				c.state.recordNotice = recordNoticeTime
			}
		default:
			return
		}
	}
}

// startGame starts or restarts the session.
func (c *Client) startGame() {
	c.inputStream.Reset()
	c.session.Start()
	c.shapes.reset()
	c.state.levelBanner = 0
	c.state.hitFlash = 0
	c.state.GameState = GameStatePlaying
}

// updateScreen handles terminal resize.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := fitTermSize(termWidth, termHeight, c.session.Arena())

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.Invalidate()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.frame.Place(offsetCol, offsetRow, renderWidth, renderHeight)
}

// fitTermSize picks the render area for a terminal, keeping the arena's aspect ratio.
func fitTermSize(termWidth, termHeight int, arena object.Arena) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	return draw.FitArea(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight, arena.Width, arena.Height)
}
