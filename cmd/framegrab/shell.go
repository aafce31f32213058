package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ideamans/go-l10n"

	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/session"
	"github.com/user/framegrab/pkg/summarizer"
)

// shell is an interactive frame browser driving a session.Controller.
// Each command maps onto one session event.
type shell struct {
	ctrl *session.Controller
	out  io.Writer
}

func newShell(ctrl *session.Controller, out io.Writer) *shell {
	return &shell{ctrl: ctrl, out: out}
}

func (sh *shell) completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("open"),
		readline.PcItem("seek"),
		readline.PcItem("time"),
		readline.PcItem("enter"),
		readline.PcItem("save"),
		readline.PcItem("copy"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func (sh *shell) run(historyFile string) error {
	if historyFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			historyFile = filepath.Join(home, ".framegrab_history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "framegrab> ",
		HistoryFile:  historyFile,
		AutoComplete: sh.completer(),
	})
	if err != nil {
		return fmt.Errorf("initialize readline: %w", err)
	}
	defer rl.Close()

	sh.printHelp()
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !sh.handle(context.Background(), line) {
			return nil
		}
	}
}

// handle executes one command line. It returns false when the shell should exit.
func (sh *shell) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "open":
		if arg == "" {
			sh.usage("open <video>")
			return true
		}
		sh.print(sh.ctrl.Dispatch(ctx, session.OpenRequested{Path: arg}))
	case "seek":
		seconds, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			sh.usage("seek <seconds>")
			return true
		}
		sh.print(sh.ctrl.Dispatch(ctx, session.PositionChanged{Seconds: seconds}))
	case "time":
		sh.ctrl.Dispatch(ctx, session.TimeTextEdited{Text: arg})
		fmt.Fprintln(sh.out, l10n.F("Time field: %s", sh.ctrl.Session().TimeText()))
	case "enter":
		sh.print(sh.ctrl.Dispatch(ctx, session.TimeTextCommitted{}))
	case "save":
		path, name := splitSaveArgs(arg)
		if path == "" {
			sh.usage("save <path> [png|jpeg]")
			return true
		}
		ev := session.ExportRequested{Path: path}
		if name != "" {
			f, ok := ports.ParseImageFormat(name)
			if !ok || f == ports.FormatBMP {
				fmt.Fprintln(sh.out, l10n.F("Unsupported image format: %s", name))
				return true
			}
			ev.Format = &f
		}
		sh.print(sh.ctrl.Dispatch(ctx, ev))
	case "copy":
		sh.print(sh.ctrl.Dispatch(ctx, session.CopyRequested{}))
	case "status":
		sh.printStatus()
	case "help":
		sh.printHelp()
	case "exit", "quit":
		return false
	default:
		fmt.Fprintln(sh.out, l10n.F("Unknown command: %s", cmd))
	}
	return true
}

// splitSaveArgs separates "save" arguments into a path, which may contain
// spaces, and an optional trailing format name.
func splitSaveArgs(arg string) (path, format string) {
	arg = strings.TrimSpace(arg)
	i := strings.LastIndexAny(arg, " \t")
	if i < 0 {
		return arg, ""
	}
	last := arg[i+1:]
	if _, ok := ports.ParseImageFormat(strings.ToLower(last)); !ok {
		return arg, ""
	}
	return strings.TrimSpace(arg[:i]), strings.ToLower(last)
}

func (sh *shell) print(notes []session.Notification) {
	for _, n := range notes {
		switch n.Kind {
		case session.VideoLoaded:
			fmt.Fprintln(sh.out, sh.label(n.Info))
		case session.TimeFieldUpdated:
			fmt.Fprintln(sh.out, l10n.F("Time field: %s", n.Text))
		case session.ScrubberUpdated:
			fmt.Fprintln(sh.out, l10n.F("Position: %.3f / %.3f", n.Scrubber, n.ScrubberMax))
		case session.OperationSucceeded, session.OperationFailed:
			fmt.Fprintf(sh.out, "[%s] %s\n", n.Title, n.Message)
		}
	}
}

func (sh *shell) label(info ports.VideoInfo) string {
	s := summarizer.NewBuilder().WithVideo(info).WithUnit(sh.ctrl.Session().Unit()).Build()
	return summarizer.Label(s)
}

func (sh *shell) printStatus() {
	sess := sh.ctrl.Session()
	info, ok := sess.Info()
	if !ok {
		fmt.Fprintln(sh.out, l10n.T("No video loaded"))
		return
	}
	cur := sess.Current()
	fmt.Fprintln(sh.out, sh.label(info))
	fmt.Fprintln(sh.out, l10n.F("Frame %d of %d", cur.FrameIndex, info.TotalFrames))
	fmt.Fprintln(sh.out, l10n.F("Time field: %s", sess.TimeText()))
}

func (sh *shell) usage(s string) {
	fmt.Fprintln(sh.out, l10n.F("Usage: %s", s))
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.out, l10n.T("Commands:"))
	fmt.Fprintln(sh.out, "  open <video>            "+l10n.T("Open a video file"))
	fmt.Fprintln(sh.out, "  seek <seconds>          "+l10n.T("Move the scrubber"))
	fmt.Fprintln(sh.out, "  time <text>             "+l10n.T("Type into the time field"))
	fmt.Fprintln(sh.out, "  enter                   "+l10n.T("Seek to the typed time"))
	fmt.Fprintln(sh.out, "  save <path> [png|jpeg]  "+l10n.T("Save the frame at the typed time"))
	fmt.Fprintln(sh.out, "  copy                    "+l10n.T("Copy the frame at the typed time to the clipboard"))
	fmt.Fprintln(sh.out, "  status                  "+l10n.T("Show the current state"))
	fmt.Fprintln(sh.out, "  exit                    "+l10n.T("Leave the shell"))
}
