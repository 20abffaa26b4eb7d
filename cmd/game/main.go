package main

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tkallio/Turf-Rush/internal/game"
)

func main() {
	cfg := game.DefaultConfig()
	cfg.Seed = time.Now().UnixNano()

	g, err := game.NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowTitle("Turf Rush")
	ebiten.SetWindowSize(1648, 972)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
