package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// hudHeight is the pixel strip under the arena reserved for HUD text.
const hudHeight = 48

// neutralColour is the backdrop for unowned tiles.
var neutralColour = color.RGBA{R: 24, G: 26, B: 30, A: 255}

// ownerPalette colours owner ids 1..N; the primary agent is always id 1.
var ownerPalette = []color.RGBA{
	{R: 235, G: 200, B: 60, A: 255}, // gold for P
	{R: 200, G: 60, B: 60, A: 255},
	{R: 60, G: 130, B: 220, A: 255},
	{R: 70, G: 180, B: 90, A: 255},
	{R: 170, G: 80, B: 200, A: 255},
	{R: 225, G: 120, B: 40, A: 255},
	{R: 60, G: 190, B: 185, A: 255},
	{R: 210, G: 95, B: 150, A: 255},
}

func ownerColour(id int) color.RGBA {
	if id <= 0 {
		return neutralColour
	}
	return ownerPalette[(id-1)%len(ownerPalette)]
}

// Game is the windowed front-end: input translation, rendering, HUD. All
// match semantics live in Simulation; Game only feeds intents and reads
// state back through the grid and roster accessors.
type Game struct {
	sim *Simulation

	width  int
	height int
	offX   int
	offY   int
	scale  float64 // pixels per world unit

	// Tile layer: one pixel per tile, scaled up on blit.
	tileBuf *ebiten.Image
	pixels  []byte

	simSpeed  float64 // 0 = paused, 0.5, 1, 2, 4
	tickAccum float64

	notice      string // transient HUD message (clipboard result etc.)
	noticeUntil int    // tick when the notice expires
}

// NewGame wraps a simulation built from cfg in a windowed front-end.
func NewGame(cfg MatchConfig) (*Game, error) {
	sim, err := NewSimulation(cfg)
	if err != nil {
		return nil, err
	}
	g := &Game{
		sim:      sim,
		scale:    1.0,
		simSpeed: 1.0,
	}
	arenaW := int(float64(cfg.ArenaCols) * tileSize * g.scale)
	arenaH := int(float64(cfg.ArenaRows) * tileSize * g.scale)
	g.width = borderWidth + arenaW + borderWidth
	g.height = borderWidth + arenaH + hudHeight
	g.offX = borderWidth
	g.offY = borderWidth
	g.tileBuf = ebiten.NewImage(cfg.ArenaCols, cfg.ArenaRows)
	g.pixels = make([]byte, cfg.ArenaCols*cfg.ArenaRows*4)
	return g, nil
}

// Update handles input and advances the simulation at the chosen speed.
func (g *Game) Update() error {
	g.handleKeys()

	if g.sim.Outcome() == OutcomeOngoing {
		intents := Intents{g.sim.Primary().ID: g.mouseHeading()}
		g.tickAccum += g.simSpeed
		for g.tickAccum >= 1 {
			g.sim.Advance(FixedDT, intents)
			g.tickAccum--
		}
	}
	return nil
}

// mouseHeading translates the cursor position into the primary agent's
// desired heading.
func (g *Game) mouseHeading() float64 {
	mx, my := ebiten.CursorPosition()
	wx := (float64(mx) - float64(g.offX)) / g.scale
	wy := (float64(my) - float64(g.offY)) / g.scale
	p := g.sim.Primary()
	if math.Abs(wx-p.X) < 1 && math.Abs(wy-p.Y) < 1 {
		return p.TargetHeading // cursor on top of the agent: hold course
	}
	return HeadingTo(p.X, p.Y, wx, wy)
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Restart()
		g.setNotice("match restarted")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		report := g.sim.Reporter().Summary(g.sim.Tick(), g.sim.Outcome())
		if err := clipboard.WriteAll(report); err != nil {
			g.setNotice("clipboard copy failed")
		} else {
			g.setNotice("report copied to clipboard")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.simSpeed == 0 {
			g.simSpeed = 1
		} else {
			g.simSpeed = 0
		}
	}
	for key, speed := range map[ebiten.Key]float64{
		ebiten.Key1: 0.5, ebiten.Key2: 1, ebiten.Key3: 2, ebiten.Key4: 4,
	} {
		if inpututil.IsKeyJustPressed(key) {
			g.simSpeed = speed
		}
	}

	// Camera: arrow keys pan, wheel zooms about the cursor.
	const panStep = 8
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.offX += panStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.offX -= panStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.offY += panStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.offY -= panStep
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		old := g.scale
		if wy > 0 {
			g.scale *= 1.1
		} else {
			g.scale /= 1.1
		}
		g.scale = math.Min(math.Max(g.scale, 0.5), 3.0)
		if g.scale != old {
			mx, my := ebiten.CursorPosition()
			k := g.scale / old
			g.offX = mx - int(k*float64(mx-g.offX))
			g.offY = my - int(k*float64(my-g.offY))
		}
	}
}

func (g *Game) setNotice(msg string) {
	g.notice = msg
	g.noticeUntil = g.sim.Tick() + 3*TickRate
}

// Draw renders the tile layer, trails, agents and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	grid := g.sim.Grid()

	// Tile layer: one pixel per tile, blitted scaled.
	for cy := 0; cy < grid.Rows; cy++ {
		for cx := 0; cx < grid.Cols; cx++ {
			c := ownerColour(grid.Get(cx, cy))
			i := (cy*grid.Cols + cx) * 4
			g.pixels[i+0] = c.R
			g.pixels[i+1] = c.G
			g.pixels[i+2] = c.B
			g.pixels[i+3] = c.A
		}
	}
	g.tileBuf.WritePixels(g.pixels)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(tileSize*g.scale, tileSize*g.scale)
	op.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.tileBuf, op)

	// Trails and agents.
	for _, a := range g.sim.Agents() {
		if !a.Alive {
			continue
		}
		c := ownerColour(a.ID)
		pts := a.Trail.Points()
		for i := 0; i+1 < len(pts); i++ {
			vector.StrokeLine(screen,
				g.sx(pts[i][0]), g.sy(pts[i][1]),
				g.sx(pts[i+1][0]), g.sy(pts[i+1][1]),
				3, c, true)
		}
		if len(pts) > 0 {
			vector.StrokeLine(screen,
				g.sx(pts[len(pts)-1][0]), g.sy(pts[len(pts)-1][1]),
				g.sx(a.X), g.sy(a.Y), 3, c, true)
		}

		r := float32(agentRadius * g.scale)
		vector.DrawFilledCircle(screen, g.sx(a.X), g.sy(a.Y), r+2,
			color.RGBA{R: 255, G: 255, B: 255, A: 220}, true)
		vector.DrawFilledCircle(screen, g.sx(a.X), g.sy(a.Y), r, c, true)
		if a.BoostActive(g.sim.Now()) {
			vector.StrokeCircle(screen, g.sx(a.X), g.sy(a.Y), r+5, 1.5,
				color.RGBA{R: 255, G: 255, B: 255, A: 160}, true)
		}
	}

	g.drawHUD(screen)
}

func (g *Game) sx(wx float64) float32 {
	return float32(wx*g.scale + float64(g.offX))
}

func (g *Game) sy(wy float64) float32 {
	return float32(wy*g.scale + float64(g.offY))
}

// drawHUD is anchored to the window, not the camera.
func (g *Game) drawHUD(screen *ebiten.Image) {
	titleY := g.height - hudHeight + 18
	text.Draw(screen, "TURF RUSH", basicfont.Face7x13, borderWidth, titleY, color.White)

	var line string
	for _, a := range g.sim.Agents() {
		line += fmt.Sprintf("%s %.1f%%  ", a.Label, g.sim.Grid().OwnershipPercentage(a.ID))
	}
	ebitenutil.DebugPrintAt(screen, line, borderWidth+100, titleY-12)

	p := g.sim.Primary()
	status := fmt.Sprintf("kills=%d  speed=%.1fx  [space] pause  [1-4] speed  [R] restart  [C] copy report",
		p.Kills, g.simSpeed)
	ebitenutil.DebugPrintAt(screen, status, borderWidth, titleY+6)

	switch g.sim.Outcome() {
	case OutcomeDefeat:
		ebitenutil.DebugPrintAt(screen, "DEFEAT - [R] to restart", borderWidth, 6)
	case OutcomeVictory:
		ebitenutil.DebugPrintAt(screen, "VICTORY - full ownership", borderWidth, 6)
	}
	if g.notice != "" && g.sim.Tick() < g.noticeUntil {
		ebitenutil.DebugPrintAt(screen, g.notice, borderWidth, 20)
	}
}

// Layout reports the fixed window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
