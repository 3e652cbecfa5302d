package tui

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"space flaps", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionJump},
		{"up flaps", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump},
		{"p pauses", runes("p"), core.ActionPause},
		{"r restarts", runes("r"), core.ActionRestart},
		{"plus speeds up", runes("+"), core.ActionFaster},
		{"minus slows down", runes("-"), core.ActionSlower},
		{"q quits", runes("q"), core.ActionQuit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound key", runes("z"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	keys := DefaultKeyMap()
	frame := core.NewInputFrame()

	if quit := keys.MapKeyToFrame(runes("w"), &frame); quit {
		t.Error("w should not quit")
	}
	if !frame.Has(core.ActionJump) {
		t.Error("w should set jump")
	}
	if quit := keys.MapKeyToFrame(runes("q"), &frame); !quit {
		t.Error("q should quit")
	}
	if frame.Has(core.ActionQuit) {
		t.Error("quit is returned, not recorded")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColored(0, 0, "Score", core.ColorWhite)
	s.DrawTextColored(6, 0, "7", core.ColorYellow)

	out := RenderScreen(s)
	if !strings.Contains(out, "Score") || !strings.Contains(out, "7") {
		t.Errorf("rendered screen lost text: %q", out)
	}
	if lines := strings.Count(out, "\n"); lines != 1 {
		t.Errorf("got %d line breaks, want 1", lines)
	}
}

func TestPlayModelSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	game, err := flappy.NewGame(config.DefaultFlappyConfig())
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	m := NewModel(game, store, cfg, log.New(io.Discard))
	m.Init()

	// Without input the bird falls to the ground.
	var model tea.Model = m
	for i := 0; i < 200 && !model.(Model).State().GameOver; i++ {
		model, _ = model.Update(TickMsg{})
	}
	if !model.(Model).State().GameOver {
		t.Fatal("game should end without input")
	}
	model, _ = model.Update(TickMsg{})

	// A falling bird scores 0, which is never stored.
	if scores, _ := store.TopScores("flappy", 10); len(scores) != 0 {
		t.Errorf("stored %d scores for a zero-score game", len(scores))
	}

	model, _ = model.Update(runes("r"))
	model, _ = model.Update(TickMsg{})
	if model.(Model).State().GameOver {
		t.Error("restart should begin a new game")
	}
}

func TestPlayModelShowsBestScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	store.SaveScore("flappy", 3)
	store.SaveScore("flappy", 9)

	game, err := flappy.NewGame(config.DefaultFlappyConfig())
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	m := NewModel(game, store, cfg, log.New(io.Discard))
	m.Init()

	if !strings.Contains(m.View(), "Best 9") {
		t.Error("play view should show the stored best score")
	}

	m = NewModel(game, nil, cfg, log.New(io.Discard))
	m.Init()
	if !strings.Contains(m.View(), "Best 0") {
		t.Error("play view without a store should show a zero best")
	}
}

func TestWatchModelTrainsGenerations(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Evolution.MaxTicks = 50
	opts := evolve.DefaultNEATOptions()
	opts.PopSize = 8

	trainer, err := evolve.NewTrainer(cfg, opts, 3, evolve.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}

	rc := core.DefaultConfig()
	var model tea.Model = NewWatchModel(context.Background(), trainer, 2, rc)
	hud := strings.Join(model.(WatchModel).hud(), "\n")
	if !strings.Contains(hud, "Alive 0/8") || !strings.Contains(hud, "Species ") {
		t.Errorf("hud should show population and species, got %q", hud)
	}
	for _, k := range []string{"+", "+", "+", "+", "+", "+", "+"} {
		model, _ = model.Update(runes(k))
	}
	if got := model.(WatchModel).speed; got != maxWatchSpeed {
		t.Fatalf("speed = %d, want capped at %d", got, maxWatchSpeed)
	}

	for i := 0; i < 100 && !model.(WatchModel).done; i++ {
		model, _ = model.Update(TickMsg{})
	}

	w := model.(WatchModel)
	if !w.done {
		t.Fatal("watch should finish after the generation limit")
	}
	if w.Err() != nil {
		t.Fatalf("unexpected error: %v", w.Err())
	}
	if trainer.Generation() != 2 {
		t.Errorf("trained %d generations, want 2", trainer.Generation())
	}
	if trainer.Champion() == nil {
		t.Error("expected a champion")
	}
	if view := w.View(); !strings.Contains(view, "Press Q to exit") {
		t.Error("finished view should show the exit hint")
	}
}

func TestWatchModelStopsOnCancel(t *testing.T) {
	opts := evolve.DefaultNEATOptions()
	opts.PopSize = 4
	trainer, err := evolve.NewTrainer(config.DefaultFlappyConfig(), opts, 1, evolve.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var model tea.Model = NewWatchModel(ctx, trainer, 5, core.DefaultConfig())
	model, _ = model.Update(TickMsg{})

	w := model.(WatchModel)
	if !w.done || w.Err() == nil {
		t.Errorf("done=%v err=%v, want stopped with an error", w.done, w.Err())
	}
}

func TestHistoryModelTabs(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	runID, _ := store.StartRun(99, 20, "")
	store.SaveGeneration(storage.GenerationEntry{RunID: runID, BestFitness: 12.5})
	store.SaveScore("flappy", 4)

	var model tea.Model = NewHistoryModel(store, TabRuns, 100, 30)
	h := model.(HistoryModel)
	if len(h.runs) != 1 || len(h.scores) != 1 {
		t.Fatalf("loaded %d runs and %d scores, want 1 and 1", len(h.runs), len(h.scores))
	}
	if !strings.Contains(h.View(), "12.50") {
		t.Error("runs tab should show the best fitness")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.(HistoryModel).tab != TabScores {
		t.Fatal("tab should switch to scores")
	}
	if !strings.Contains(model.(HistoryModel).View(), "#1") {
		t.Error("scores tab should rank scores")
	}

	model, _ = model.Update(runes("q"))
	if model.(HistoryModel).View() != "" {
		t.Error("quitting should clear the view")
	}

	scores := NewHistoryModel(store, TabScores, 100, 30)
	if scores.tab != TabScores || !strings.Contains(scores.View(), "#1") {
		t.Error("history should open on the requested tab")
	}
	store.ClearScores("flappy")
	if !strings.Contains(NewHistoryModel(store, TabScores, 100, 30).View(), "No scores recorded") {
		t.Error("scores tab should be empty after clearing")
	}
}
