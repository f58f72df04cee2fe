/*
 * logging.go, part of gomd.
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation, either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package logging builds the module's loggers: a leveled slog.Logger
//for operational output, and a capture handler that keeps every line
//it sees, which is how a run's ordered transition log is collected
//and returned to the caller.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

//ParseLevel maps a level name to a slog.Level, case-insensitively.
//Unknown names default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

//NewLogger creates a leveled text logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

//Capture is a slog.Handler that renders every record to a plain line
//and keeps them all, in order. It is safe for concurrent use. The
//rendered shape is "message key=value ...", one line per major state
//transition, which is exactly the run log the callers get back.
type Capture struct {
	mu    sync.Mutex
	lines []string
	attrs []slog.Attr
}

//NewCapture returns an empty capture handler.
func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (c *Capture) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range c.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	c.mu.Lock()
	c.lines = append(c.lines, b.String())
	c.mu.Unlock()
	return nil
}

func (c *Capture) WithAttrs(attrs []slog.Attr) slog.Handler {
	//the child shares the parent's line store
	return &captureChild{parent: c, attrs: append(append([]slog.Attr{}, c.attrs...), attrs...)}
}

func (c *Capture) WithGroup(string) slog.Handler {
	return c
}

//Lines returns a copy of everything captured so far, in order.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

//Reset drops the captured lines, for reuse between runs.
func (c *Capture) Reset() {
	c.mu.Lock()
	c.lines = c.lines[:0]
	c.mu.Unlock()
}

type captureChild struct {
	parent *Capture
	attrs  []slog.Attr
}

func (c *captureChild) Enabled(ctx context.Context, level slog.Level) bool {
	return c.parent.Enabled(ctx, level)
}

func (c *captureChild) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range c.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	c.parent.mu.Lock()
	c.parent.lines = append(c.parent.lines, b.String())
	c.parent.mu.Unlock()
	return nil
}

func (c *captureChild) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureChild{parent: c.parent, attrs: append(append([]slog.Attr{}, c.attrs...), attrs...)}
}

func (c *captureChild) WithGroup(string) slog.Handler {
	return c
}
