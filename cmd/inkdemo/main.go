// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Command inkdemo replays a freehand drawing session on the GPU and
// saves the result as a PNG.
//
// Without -script it draws a built-in spiral. With -store, finished
// strokes are appended to a JSON Lines file and strokes already in it are
// drawn first.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/gpu"
	"github.com/gogpu/ink/store"
	"github.com/gogpu/ink/view"
)

var (
	width      = flag.Int("width", 800, "canvas width")
	height     = flag.Int("height", 600, "canvas height")
	output     = flag.String("o", "ink.png", "output PNG")
	thumb      = flag.String("thumb", "", "optional thumbnail PNG")
	thumbWidth = flag.Int("thumb-width", 160, "thumbnail width")
	configPath = flag.String("config", "", "TOML or YAML configuration file")
	scriptPath = flag.String("script", "", "YAML gesture script")
	storePath  = flag.String("store", "", "JSON Lines stroke store")
	spirv      = flag.Bool("spirv", false, "compile the stroke shader to SPIR-V")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	ink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inkdemo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := ink.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = ink.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	cfg.ShaderSPIRV = cfg.ShaderSPIRV || *spirv

	s := demoScript(*width, *height)
	if *scriptPath != "" {
		var err error
		if s, err = loadScript(*scriptPath); err != nil {
			return err
		}
	}

	dev, err := gpu.OpenDevice()
	if err != nil {
		return err
	}
	defer dev.Close()
	ink.Logger().Info("device opened", slog.String("adapter", dev.Name))

	r, err := gpu.NewRenderer(dev.Device, dev.Queue, cfg)
	if err != nil {
		return err
	}
	defer r.Destroy()
	// Sized before the render loop starts so input maps to world space.
	if err := r.Resize(*width, *height); err != nil {
		return err
	}

	opts := []view.Option{view.WithConfig(cfg)}
	if *storePath != "" {
		st, err := store.Open(*storePath)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, view.WithStore(st))
	}
	v := view.New(r, opts...)
	if err := v.LoadStore(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var img *image.RGBA
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return v.Run(ctx) })
	g.Go(func() error {
		defer cancel()
		s.replay(v)
		var err error
		img, err = v.Snapshot(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := savePNG(*output, img); err != nil {
		return err
	}
	if *thumb != "" {
		if err := savePNG(*thumb, thumbnail(img, *thumbWidth)); err != nil {
			return err
		}
	}
	// The render loop has exited, so the buffers are safe to read here.
	st := r.State()
	ink.Logger().Info("saved",
		slog.String("file", *output),
		slog.Int("strokes", len(st.Committed)),
		slog.String("gpu", r.Buffers().Stats().String()))
	return nil
}

// thumbnail scales img to width w, keeping the aspect ratio.
func thumbnail(img image.Image, w int) *image.RGBA {
	b := img.Bounds()
	if w <= 0 || b.Dx() == 0 {
		w = max(b.Dx(), 1)
	}
	h := max(b.Dy()*w/max(b.Dx(), 1), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
