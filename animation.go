package main

import (
	"context"
	"time"
)

// Typewriter reveals a fixed string one rune per tick.
type Typewriter struct {
	Text     string
	Interval time.Duration
}

// Frames returns every prefix of the text, from empty to complete.
func (t Typewriter) Frames() []string {
	runes := []rune(t.Text)
	frames := make([]string, 0, len(runes)+1)
	for i := 0; i <= len(runes); i++ {
		frames = append(frames, string(runes[:i]))
	}
	return frames
}

// Play emits one frame per tick. It returns ctx.Err() if the context is done
// before the last frame was emitted.
func (t Typewriter) Play(ctx context.Context, emit func(frame string)) error {
	return playFrames(ctx, t.Interval, t.Frames(), emit)
}

// maxCounterSteps bounds the frame list whatever the configured tick.
const maxCounterSteps = 240

// Counter counts from zero up to Target over Duration, one frame per Tick.
type Counter struct {
	Target   int
	Duration time.Duration
	Tick     time.Duration
}

// Frames is non-decreasing, never exceeds Target and always ends on it.
func (c Counter) Frames() []int {
	if c.Target <= 0 {
		return []int{0}
	}
	if c.Duration <= 0 || c.Tick <= 0 {
		return []int{c.Target}
	}
	steps := c.steps()
	frames := make([]int, 0, steps+1)
	for i := 0; i <= steps; i++ {
		v := c.Target * i / steps
		if v > c.Target {
			v = c.Target
		}
		frames = append(frames, v)
	}
	frames[len(frames)-1] = c.Target
	return frames
}

func (c Counter) steps() int {
	steps := c.Duration / c.Tick
	switch {
	case steps < 1:
		return 1
	case steps > maxCounterSteps:
		return maxCounterSteps
	}
	return int(steps)
}

// FrameInterval is the time between frames. It grows past Tick when the step
// count is capped, so playback still lasts Duration.
func (c Counter) FrameInterval() time.Duration {
	if c.Duration <= 0 || c.Tick <= 0 {
		return 0
	}
	return c.Duration / time.Duration(c.steps())
}

func playFrames[T any](ctx context.Context, interval time.Duration, frames []T, emit func(T)) error {
	if interval <= 0 {
		for _, f := range frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			emit(f)
		}
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for _, f := range frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		emit(f)
	}
	return nil
}
