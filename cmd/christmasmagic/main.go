package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/christmasmagic/internal/app"
	"github.com/ayusman/christmasmagic/internal/audio"
	"github.com/ayusman/christmasmagic/internal/capture"
	"github.com/ayusman/christmasmagic/internal/config"
	"github.com/ayusman/christmasmagic/internal/logging"
	"github.com/ayusman/christmasmagic/internal/scene"
	"github.com/ayusman/christmasmagic/internal/server"
	"github.com/ayusman/christmasmagic/internal/store"
	"github.com/ayusman/christmasmagic/internal/tray"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "christmasmagic: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := pflag.String("config", "", "directory containing christmasmagic.yaml")
	addr := pflag.String("addr", "", "listen address, overrides server.addr")
	noCamera := pflag.Bool("no-camera", false, "take landmarks from the browser only")
	withTray := pflag.Bool("tray", false, "show the system tray menu")
	pflag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *noCamera {
		cfg.Camera.Enabled = false
	}
	if *withTray {
		cfg.Tray.Enabled = true
	}

	var w io.Writer = os.Stderr
	if cfg.Log.Pretty {
		w = logging.Console(os.Stderr)
	}
	log := logging.New(cfg.Log.Level, w)
	if cfg.File == "" {
		log.Warn().Msg("no config file found, using defaults")
	} else {
		log.Info().Str("file", cfg.File).Msg("config loaded")
	}

	themes, err := scene.LoadThemesFile(cfg.Scene.ThemesFile)
	if err != nil {
		return fmt.Errorf("load themes: %w", err)
	}

	var st *store.Store
	if cfg.Store.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		st, err = store.New(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		log.Info().Str("path", st.Path()).Msg("store opened")
	}

	hub := server.NewHub(log)

	appCfg := app.FromConfig(cfg)
	appCfg.Themes = themes
	appCfg.Browser = hub
	appCfg.Store = st
	appCfg.Log = log

	player := audio.NewPlayer(app.AudioConfig(cfg), logging.Component(log, "audio"))
	if err := player.Start(); err != nil {
		log.Warn().Err(err).Msg("audio output unavailable, scene will be silent")
	} else {
		appCfg.Audio = player
		defer player.Close()
	}

	var frames *capture.FrameCache
	if cfg.Camera.Enabled {
		frames = capture.NewFrameCache()
		appCfg.Frames = frames
	}

	var tr *tray.Tray
	if cfg.Tray.Enabled {
		tr = tray.New(true)
		appCfg.Feedback = []scene.UI{tr}
	}

	a, err := app.New(appCfg)
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		log.Error().Err(err).Msg("local capture unavailable, waiting for browser landmarks")
		hub.Error(err)
	}

	srv := server.New(server.Config{
		StaticDir: findWebDir(cfg.Server.StaticDir),
		Store:     st,
		Frames:    frames,
		Hub:       hub,
		Themes:    a.Themes(),
		Cooldown:  cfg.Gesture.Cooldown,
		Log:       log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, cfg.Server.Addr) })
	g.Go(func() error { return a.Run(gctx) })

	if tr == nil {
		return wait(g, log)
	}

	// The tray owns the main thread until it quits.
	setupTray(tr, a, stop, sceneURL(cfg.Server.Addr), log)
	done := make(chan error, 1)
	go func() {
		done <- wait(g, log)
		tr.Quit()
	}()
	tr.Run()
	stop()
	return <-done
}

func wait(g *errgroup.Group, log zerolog.Logger) error {
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("shut down")
	return nil
}

func setupTray(tr *tray.Tray, a *app.App, quit func(), url string, log zerolog.Logger) {
	tr.SetEnabled(a.IsEnabled())
	tr.OnToggle(a.SetEnabled)
	tr.OnMusic(a.ToggleMusic)
	tr.OnTheme(a.NextTheme)
	tr.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("open browser")
		}
	})
	tr.OnQuit(quit)
}

func sceneURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8080/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir returns dir when set, otherwise the first of "web", "../web",
// "../../web" and ~/.christmasmagic/web that exists. Empty when none does.
func findWebDir(dir string) string {
	if dir != "" {
		return dir
	}

	candidates := []string{"web", "../web", "../../web", filepath.Join(config.DataDir(), "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
