// Package main provides the CLI entry point for framegrab.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framegrab/pkg/adapters/clipboard"
	"github.com/user/framegrab/pkg/adapters/ggrenderer"
	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/adapters/osfilesystem"
	"github.com/user/framegrab/pkg/adapters/smartsource"
	"github.com/user/framegrab/pkg/config"
	"github.com/user/framegrab/pkg/export"
	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/session"
	"github.com/user/framegrab/pkg/summarizer"
	"github.com/user/framegrab/pkg/timecode"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %v", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "framegrab",
		Usage:   "Grab single frames from video files",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file", EnvVars: []string{"FRAMEGRAB_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: "Log level (debug, info, warn, error)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Suppress all log output"},
			&cli.StringFlag{Name: "ffmpeg-path", Usage: "Path to the ffmpeg binary"},
			&cli.StringFlag{Name: "ffprobe-path", Usage: "Path to the ffprobe binary"},
			&cli.StringFlag{Name: "backend", Usage: "Video backend (auto, ffmpeg, mp4, mpeg)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "Show video metadata",
				ArgsUsage: "<video>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "summary", Aliases: []string{"s"}, Usage: "Write a Markdown summary to this path"},
				},
				Action: runInfo,
			},
			{
				Name:      "grab",
				Usage:     "Save the frame at a time to an image file",
				ArgsUsage: "<video>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "at", Aliases: []string{"t"}, Usage: "Time in seconds, e.g. 12.5 or 12.500秒", Required: true},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output image path (.png or .jpg)", Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Image format (png or jpeg), chosen from the extension by default"},
				},
				Action: runGrab,
			},
			{
				Name:      "copy",
				Usage:     "Copy the frame at a time to the clipboard",
				ArgsUsage: "<video>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "at", Aliases: []string{"t"}, Usage: "Time in seconds, e.g. 12.5 or 12.500秒", Required: true},
				},
				Action: runCopy,
			},
			{
				Name:      "preview",
				Usage:     "Write the preview image for a time",
				ArgsUsage: "<video>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "at", Aliases: []string{"t"}, Usage: "Time in seconds, e.g. 12.5 or 12.500秒", Value: "0"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output image path (.png or .jpg)", Required: true},
				},
				Action: runPreview,
			},
			{
				Name:      "shell",
				Usage:     "Interactive frame browser",
				ArgsUsage: "[video]",
				Action:    runShell,
			},
		},
	}
}

// app holds the wired adapters for one command.
type app struct {
	cfg     config.Config
	log     ports.Logger
	fs      *osfilesystem.FileSystem
	opener  *smartsource.Opener
	session *session.Session
}

func setup(c *cli.Context) (*app, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("ffmpeg-path") {
		cfg.FFmpegPath = c.String("ffmpeg-path")
	}
	if c.IsSet("ffprobe-path") {
		cfg.FFprobePath = c.String("ffprobe-path")
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Level()
	if c.Bool("quiet") {
		level = ports.LevelQuiet
	}
	log := logger.New(level)
	if path := c.String("config"); path != "" {
		log.Debug("Loaded config from %s", path)
	}

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	pipeline := export.New(fs, renderer, clipboard.New(), log, cfg.ExportOptions())
	opener := smartsource.NewOpener(cfg.SourceOptions(log))

	return &app{
		cfg:     cfg,
		log:     log,
		fs:      fs,
		opener:  opener,
		session: session.New(opener, renderer, pipeline, log, cfg.SessionOptions()),
	}, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func videoArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(l10n.T("Exactly one video path is required"), 2)
	}
	return c.Args().First(), nil
}

// userError converts session errors into the localized message shown to users.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(session.ErrorMessage(err))
}

func runInfo(c *cli.Context) error {
	path, err := videoArg(c)
	if err != nil {
		return err
	}
	a, err := setup(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(a.log)
	defer cancel()

	src, err := a.opener.Open(ctx, path)
	if err != nil {
		return userError(err)
	}
	defer src.Close()

	b := summarizer.NewBuilder().WithVideo(src.Info()).WithUnit(a.cfg.TimeUnit)
	if st, err := os.Stat(path); err == nil {
		b.WithFileSize(st.Size())
	}
	if backend, err := a.opener.Resolve(path); err == nil {
		b.WithBackend(string(backend))
	}
	summary := b.Build()

	fmt.Println(summarizer.Label(summary))

	if out := c.String("summary"); out != "" {
		if err := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), a.fs).Write(out, summary); err != nil {
			return err
		}
		a.log.Info("Summary written to %s", out)
	}
	return nil
}

// openAt opens path and fills the time field, as a user typing into it would.
func openAt(ctx context.Context, a *app, path, at string) error {
	if _, err := a.session.Open(ctx, path); err != nil && a.session.State() == session.StateNoVideo {
		return err
	}
	a.session.EditTimeText(at)
	return nil
}

func runGrab(c *cli.Context) error {
	path, err := videoArg(c)
	if err != nil {
		return err
	}
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.session.Close()
	ctx, cancel := signalContext(a.log)
	defer cancel()

	out := c.String("output")
	format := export.FormatFromPath(out)
	if name := c.String("format"); name != "" {
		f, ok := ports.ParseImageFormat(name)
		if !ok || f == ports.FormatBMP {
			return cli.Exit(l10n.F("Unsupported image format: %s", name), 2)
		}
		format = f
	}

	if err := openAt(ctx, a, path, c.String("at")); err != nil {
		return userError(err)
	}
	res, err := a.session.Export(ctx, export.FileTarget(out, format))
	if err != nil {
		return userError(err)
	}
	fmt.Println(l10n.F("Image saved to %s (%s)", out, res.Size()))
	return nil
}

func runCopy(c *cli.Context) error {
	path, err := videoArg(c)
	if err != nil {
		return err
	}
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.session.Close()
	ctx, cancel := signalContext(a.log)
	defer cancel()

	if err := openAt(ctx, a, path, c.String("at")); err != nil {
		return userError(err)
	}
	if _, err := a.session.Export(ctx, export.ClipboardTarget()); err != nil {
		return userError(err)
	}
	fmt.Println(l10n.T("Image copied to the clipboard"))
	return nil
}

func runPreview(c *cli.Context) error {
	path, err := videoArg(c)
	if err != nil {
		return err
	}
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.session.Close()
	ctx, cancel := signalContext(a.log)
	defer cancel()

	seconds, err := timecode.ParseTimeText(c.String("at"), a.cfg.TimeUnit)
	if err != nil {
		return userError(err)
	}
	if _, err := a.session.Open(ctx, path); err != nil && a.session.State() == session.StateNoVideo {
		return userError(err)
	}
	img, err := a.session.PreviewAt(ctx, seconds)
	if err != nil {
		return userError(err)
	}

	out := c.String("output")
	pipeline := export.New(a.fs, ggrenderer.New(), nil, a.log, a.cfg.ExportOptions())
	res, err := pipeline.Export(ports.Frame{Image: img, Seconds: seconds}, export.FileTarget(out, export.FormatFromPath(out)))
	if err != nil {
		return userError(err)
	}
	a.log.Debug("Preview at %s", timecode.FormatTimeText(seconds, a.cfg.TimeUnit))
	fmt.Println(l10n.F("Image saved to %s (%s)", out, res.Size()))
	return nil
}

func runShell(c *cli.Context) error {
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.session.Close()

	sh := newShell(session.NewController(a.session), os.Stdout)
	if c.NArg() > 0 {
		sh.handle(context.Background(), "open "+c.Args().First())
	}
	return sh.run(a.cfg.HistoryFile)
}
