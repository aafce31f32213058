package ffmpegsource

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

var (
	// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
	ErrFFmpegNotFound = errors.New("ffmpegsource: ffmpeg not found")
	// ErrFFprobeNotFound is returned when no ffprobe binary can be located.
	ErrFFprobeNotFound = errors.New("ffmpegsource: ffprobe not found")
)

// FindFFmpeg locates the ffmpeg binary.
// Search order: custom path, FFMPEG_PATH, PATH, common install locations.
func FindFFmpeg(custom string) (string, error) {
	return findBinary("ffmpeg", custom, "FFMPEG_PATH", ErrFFmpegNotFound)
}

// FindFFprobe locates the ffprobe binary the same way as FindFFmpeg,
// using FFPROBE_PATH.
func FindFFprobe(custom string) (string, error) {
	return findBinary("ffprobe", custom, "FFPROBE_PATH", ErrFFprobeNotFound)
}

// Available reports whether both ffmpeg and ffprobe can be found.
func Available() bool {
	if _, err := FindFFmpeg(""); err != nil {
		return false
	}
	_, err := FindFFprobe("")
	return err == nil
}

func findBinary(name, custom, envVar string, notFound error) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", notFound, custom)
	}

	if envPath := os.Getenv(envVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	execName := name
	if runtime.GOOS == "windows" {
		execName = name + ".exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, dir := range commonDirs() {
		p := dir + string(os.PathSeparator) + execName
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", notFound
}

func commonDirs() []string {
	if runtime.GOOS == "windows" {
		return []string{
			`C:\ffmpeg\bin`,
			`C:\Program Files\ffmpeg\bin`,
			`C:\Program Files (x86)\ffmpeg\bin`,
		}
	}
	return []string{
		"/usr/bin",
		"/usr/local/bin",
		"/opt/homebrew/bin",
		"/snap/bin",
	}
}
