package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/barrage/internal/audio"
	"github.com/tomz197/barrage/internal/config"
	"github.com/tomz197/barrage/internal/content"
	"github.com/tomz197/barrage/internal/game"
	"github.com/tomz197/barrage/internal/stage"
	"golang.org/x/term"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal is the game screen, so logs go to a file or nowhere.
	logger := log.New(os.Stderr)
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if f, err := os.OpenFile("barrage.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		logger.SetOutput(f)
		defer f.Close()
	} else {
		logger.SetOutput(io.Discard)
	}

	var snd audio.Player = audio.Null{}
	if cfg.Sound {
		if sp, err := audio.NewSpeaker(logger); err != nil {
			logger.Warn("audio unavailable", "err", err)
		} else {
			snd = sp
		}
	}

	lib := stage.NewLibrary()
	sections := content.Stage1(lib)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	g := game.New(cfg, logger, snd, lib)
	reader := bufio.NewReader(os.Stdin)
	if err := game.Run(g, "stage1", sections, reader, os.Stdout, game.LoopOptions{}); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
