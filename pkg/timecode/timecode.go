// Package timecode converts between continuous playback time and discrete
// frame indices, and between seconds and the text shown in the time field.
//
// Preview and export both go through this package so that they always agree
// on which frame a given time addresses.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/user/framegrab/pkg/ports"
)

// DefaultUnit is the suffix appended to formatted time values.
const DefaultUnit = "秒"

var (
	// ErrInvalidFrameRate is returned when the frame rate is zero, negative or not finite.
	ErrInvalidFrameRate = errors.New("timecode: invalid frame rate")

	// ErrNoFrames is returned when a video reports no frames.
	ErrNoFrames = errors.New("timecode: video has no frames")
)

func checkRate(frameRate float64) error {
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFrameRate, frameRate)
	}
	return nil
}

// CheckStream returns an error unless frameRate is finite and positive and
// totalFrames is positive.
func CheckStream(frameRate float64, totalFrames int) error {
	if err := checkRate(frameRate); err != nil {
		return err
	}
	if totalFrames <= 0 {
		return fmt.Errorf("%w: %d", ErrNoFrames, totalFrames)
	}
	return nil
}

// ToFrameIndex maps a time in seconds to clamp(floor(seconds*frameRate), 0, totalFrames-1).
// A NaN time maps to frame 0.
func ToFrameIndex(seconds, frameRate float64, totalFrames int) (int, error) {
	if err := checkRate(frameRate); err != nil {
		return 0, err
	}
	if totalFrames <= 0 {
		return 0, ErrNoFrames
	}
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, nil
	}

	f := math.Floor(seconds * frameRate)
	if f >= float64(totalFrames-1) {
		return totalFrames - 1, nil
	}
	return int(f), nil
}

// ToSeconds returns the nominal start time of a frame.
func ToSeconds(frameIndex int, frameRate float64) (float64, error) {
	if err := checkRate(frameRate); err != nil {
		return 0, err
	}
	return float64(frameIndex) / frameRate, nil
}

// Duration returns totalFrames/frameRate.
func Duration(totalFrames int, frameRate float64) (float64, error) {
	if err := checkRate(frameRate); err != nil {
		return 0, err
	}
	if totalFrames <= 0 {
		return 0, ErrNoFrames
	}
	return float64(totalFrames) / frameRate, nil
}

// ClampSeconds limits seconds to [0, duration]. NaN becomes 0.
func ClampSeconds(seconds, duration float64) float64 {
	switch {
	case math.IsNaN(seconds) || seconds < 0:
		return 0
	case seconds > duration:
		return duration
	default:
		return seconds
	}
}

// FormatTimeText renders seconds with millisecond precision followed by unit,
// e.g. "12.500秒".
func FormatTimeText(seconds float64, unit string) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64) + unit
}

// ParseTimeText interprets a time typed by the user. Surrounding whitespace
// and one trailing unit suffix (unit, or the ASCII "s") are ignored. The
// remainder must be a finite, non-negative decimal number.
func ParseTimeText(text, unit string) (float64, error) {
	s := strings.TrimSpace(text)
	switch {
	case unit != "" && strings.HasSuffix(s, unit):
		s = strings.TrimSuffix(s, unit)
	case strings.HasSuffix(s, "s"):
		s = strings.TrimSuffix(s, "s")
	}
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, fmt.Errorf("%w: empty value %q", ports.ErrParse, text)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ports.ErrParse, text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ports.ErrParse, text)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ports.ErrParse, text)
	}
	return v, nil
}
