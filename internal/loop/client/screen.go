package client

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/meteorshtorm/internal/draw"
	"github.com/tomz197/meteorshtorm/internal/loop"
	"github.com/tomz197/meteorshtorm/internal/loop/config"
	"github.com/tomz197/meteorshtorm/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		draw.ClearScreen(c.frame)
		c.canvas.Invalidate()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	c.drawWorld()

	if err := c.canvas.Render(c.frame); err != nil {
		return err
	}
	// Draw border when terminal exceeds the render area
	if err := c.canvas.RenderBorder(c.frame); err != nil {
		return err
	}

	c.drawUI()

	return c.frame.Flush()
}

// drawWorld rasterizes the snapshot, back to front.
func (c *Client) drawWorld() {
	snap := &c.snap

	for _, s := range snap.Stars {
		c.canvas.SetFloat(s.X, s.Y, draw.Brightness(s.Brightness))
	}

	for _, p := range snap.Particles {
		color := c.particleColor(p.Color)
		if p.Fade() < 0.3 {
			color = draw.ColorDim
		}
		c.canvas.FillRect(p.X-p.Size/2, p.Y-p.Size/2, p.Size, p.Size, color)
	}

	if c.state.GameState == GameStateMenu {
		return
	}

	for _, m := range snap.Meteors {
		if pts := c.shapes.outline(m); pts != nil {
			c.canvas.DrawPolygon(pts, true, meteorColor(m.Size))
		}
	}

	for _, b := range snap.Bullets {
		c.canvas.FillRect(b.X-b.Width/2, b.Y-b.Height/2, b.Width, b.Height, draw.ColorYellow)
	}

	if snap.Player.Alive {
		c.drawShip(snap.Player)
	}
}

func (c *Client) drawShip(p loop.PlayerView) {
	color := draw.ColorCyan
	switch {
	case c.state.hitFlash > 0:
		color = draw.ColorRed
	case !p.CanShoot:
		color = draw.ColorBlue
	}

	hw, hh := p.Width/2, p.Height/2
	pts := c.canvas.BorrowPoints(4)
	pts[0] = draw.Point{X: p.X, Y: p.Y - hh}
	pts[1] = draw.Point{X: p.X + hw, Y: p.Y + hh}
	pts[2] = draw.Point{X: p.X, Y: p.Y + hh/2}
	pts[3] = draw.Point{X: p.X - hw, Y: p.Y + hh}
	c.canvas.DrawPolygon(pts, true, color)
}

func meteorColor(size object.MeteorSize) draw.Color {
	switch size {
	case object.MeteorSmall:
		return draw.ColorGray
	case object.MeteorMedium:
		return draw.ColorOrange
	default:
		return draw.ColorBrown
	}
}

func (c *Client) particleColor(hex string) draw.Color {
	if color, ok := c.colors[hex]; ok {
		return color
	}
	color := draw.HexColor(hex)
	c.colors[hex] = color
	return color
}

// text writes s at a 1-based canvas position and makes the canvas repaint the
// cells underneath on the next frame.
func (c *Client) text(col, row int, s string) {
	c.frame.Text(col, row, s)
	c.canvas.MarkDirty(col, row, utf8.RuneCountInString(s))
}

func (c *Client) textColored(col, row int, color draw.Color, s string) {
	c.frame.ColoredText(col, row, color, s)
	c.canvas.MarkDirty(col, row, utf8.RuneCountInString(s))
}

func (c *Client) centered(row int, s string) {
	c.text(draw.CenterCol(c.canvas.TerminalWidth(), s), row, s)
}

func (c *Client) centeredColored(row int, color draw.Color, s string) {
	c.textColored(draw.CenterCol(c.canvas.TerminalWidth(), s), row, color, s)
}

func blinkOn() bool {
	return time.Now().UnixMilli()/config.PromptBlinkPeriod.Milliseconds()%2 == 0
}

// drawUI draws the text overlay of the current screen.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerY := termHeight / 2

	if termWidth < config.MinTermWidth || termHeight < config.MinTermHeight {
		c.centered(centerY, fmt.Sprintf("Enlarge terminal to %dx%d", config.MinTermWidth, config.MinTermHeight))
		return
	}

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight)
	case GameStateMenu:
		c.drawMenuScreen(centerY)
	case GameStateGameOver:
		c.drawGameOverScreen(centerY)
	}

	if c.state.recordNotice > 0 {
		c.centeredColored(termHeight-1, draw.ColorMagenta,
			fmt.Sprintf("%s just set a new high score: %d", displayName(c.state.recordHolder), c.state.recordScore))
	}
}

func displayName(name string) string {
	if name == "" {
		return "someone"
	}
	return name
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	c.centeredColored(centerY-2, draw.ColorYellow, "INACTIVITY WARNING")

	left := c.inactivityDisconnect - time.Since(c.lastInput)
	c.centered(centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(left.Seconds())))

	c.centered(centerY+2, "Press any key to continue")
}

// drawMenuScreen draws the title screen.
func (c *Client) drawMenuScreen(centerY int) {
	title := "M E T E O R   S H T O R M"
	bar := strings.Repeat("═", utf8.RuneCountInString(title)+6)
	top := centerY - 7
	c.centeredColored(top, draw.ColorOrange, "╔"+bar+"╗")
	c.centeredColored(top+1, draw.ColorOrange, "║   "+title+"   ║")
	c.centeredColored(top+2, draw.ColorOrange, "╚"+bar+"╝")

	c.centered(top+4, "~ Dodge the storm, shoot the rocks ~")

	if high := c.highScore(c.snap.Score); high > 0 {
		c.centeredColored(top+6, draw.ColorYellow, fmt.Sprintf("High score: %d", high))
	}

	controlsY := top + 8
	c.centered(controlsY, "Controls")
	controlLines := []string{
		"A D / < >  . . .  Move",
		"SPACE  . . . . .  Fire",
		"M / ESC  . . . .  Menu",
		"Q  . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.centered(controlsY+1+i, line)
	}

	if blinkOn() {
		c.centeredColored(controlsY+len(controlLines)+2, draw.ColorCyan, ">>  Press SPACE to Start  <<")
	}
}

// highScore is the better of the session's stored high score and the hub's
// record, which also covers scores other players set after the session was built.
func (c *Client) highScore(score loop.ScoreState) int {
	return max(score.HighScore, c.server.Record())
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	score := c.snap.Score

	c.text(2, 1, fmt.Sprintf("Score: %-8d", score.Score))
	c.centered(1, fmt.Sprintf("High: %-8d", c.highScore(score)))
	levelText := fmt.Sprintf("Level: %-3d", score.Level)
	c.text(termWidth-len(levelText), 1, levelText)

	if players := c.server.Players(); players > 1 {
		online := fmt.Sprintf("Online: %-4d", players)
		c.text(termWidth-len(online), termHeight, online)
	}

	if c.state.levelBanner > 0 {
		c.centeredColored(termHeight/3, draw.ColorYellow, fmt.Sprintf("LEVEL %d", c.state.bannerLevel))
	}
}

// drawGameOverScreen draws the final score and the restart prompt.
func (c *Client) drawGameOverScreen(centerY int) {
	final := c.state.Final
	top := centerY - 7

	c.centeredColored(top, draw.ColorRed, "G A M E   O V E R")
	c.centered(top+2, fmt.Sprintf("Score: %d", final.Score))
	c.centered(top+3, fmt.Sprintf("High score: %d", c.highScore(final)))
	c.centered(top+4, fmt.Sprintf("Meteors destroyed: %d   Level: %d", final.MeteorsDestroyed, final.Level))
	c.centered(top+5, "Survived: "+c.state.survived.Round(time.Second).String())

	if c.state.newRecord && blinkOn() {
		c.centeredColored(top+6, draw.ColorYellow, "*** NEW HIGH SCORE! ***")
	}

	row := top + 8
	if c.server.Players() > 1 {
		board := c.server.Leaderboard(5)
		if len(board) > 0 {
			c.centered(row, "Best on this server")
			for i, e := range board {
				c.centered(row+1+i, fmt.Sprintf("%d. %-16s %8d", i+1, truncate(displayName(e.Username), 16), e.Score))
			}
			row += len(board) + 2
		}
	}

	c.centeredColored(row, draw.ColorCyan, "SPACE  Play again    M  Menu    Q  Quit")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int) {
	c.centeredColored(centerY-3, draw.ColorRed, "SERVER SHUTTING DOWN")
	c.centered(centerY-1, "The server is restarting for maintenance.")
	c.centered(centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.centered(centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.centered(centerY+4, "Press Q to disconnect now")
}
