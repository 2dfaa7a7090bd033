package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// NewLogger returns a json logger understood by cloud log collectors for the "json" format,
// and a human friendly colored logger otherwise.
func NewLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			ReplaceAttr: GCPLoggerAttributeReplacer,
		}))
	}
	return slog.New(LocalDevHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
		UseColor: true,
	}.NewLocalDevHandler(os.Stdout))
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

func StoreLoggerInContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

func StoreLoggerInContextMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := StoreLoggerInContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func GCPLoggerAttributeReplacer(groups []string, a slog.Attr) slog.Attr {
	// stackdriver reads the main message from "message"
	if a.Key == slog.MessageKey {
		a.Key = "message"
		return a
	}

	if a.Key == slog.LevelKey {
		a.Key = "severity"
		level, _ := a.Value.Any().(slog.Level)
		switch {
		case level < slog.LevelInfo:
			a.Value = slog.StringValue("DEBUG")
		case level < slog.LevelWarn:
			a.Value = slog.StringValue("INFO")
		case level < slog.LevelError:
			a.Value = slog.StringValue("WARNING")
		default:
			a.Value = slog.StringValue("ERROR")
		}
	}

	return a
}

type LocalDevHandler struct {
	opts            LocalDevHandlerOptions
	internalHandler slog.Handler

	mu *sync.Mutex
	w  io.Writer
}

type LocalDevHandlerOptions struct {
	SlogOpts slog.HandlerOptions
	UseColor bool
}

func (opts LocalDevHandlerOptions) NewLocalDevHandler(w io.Writer) *LocalDevHandler {
	internalOpts := opts.SlogOpts
	internalOpts.AddSource = false
	internalOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey {
			return slog.Attr{}
		}
		if rep := opts.SlogOpts.ReplaceAttr; rep != nil {
			return rep(groups, a)
		}
		return a
	}
	return &LocalDevHandler{
		opts:            opts,
		w:               w,
		mu:              &sync.Mutex{},
		internalHandler: slog.NewTextHandler(w, &internalOpts),
	}
}

func (h *LocalDevHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.internalHandler.Enabled(ctx, level)
}

func (h *LocalDevHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer

	level := r.Level.String()
	if h.opts.UseColor {
		level = colorForLevel(r.Level).add(level)
	}
	fmt.Fprintf(&buf, "%s %s %s ", r.Time.Format(time.RFC3339), level, r.Message)

	// the prefix and the attributes written by the internal handler must stay on one line
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.w.Write(buf.Bytes()); err != nil {
		return err
	}
	return h.internalHandler.Handle(ctx, r)
}

func (h *LocalDevHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LocalDevHandler{
		opts:            h.opts,
		w:               h.w,
		mu:              h.mu,
		internalHandler: h.internalHandler.WithAttrs(attrs),
	}
}

func (h *LocalDevHandler) WithGroup(name string) slog.Handler {
	return &LocalDevHandler{
		opts:            h.opts,
		w:               h.w,
		mu:              h.mu,
		internalHandler: h.internalHandler.WithGroup(name),
	}
}

type color uint8

const (
	colorRed     color = 31
	colorYellow  color = 33
	colorBlue    color = 34
	colorMagenta color = 35
)

func (c color) add(s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", uint8(c), s)
}

func colorForLevel(level slog.Level) color {
	switch {
	case level < slog.LevelInfo:
		return colorMagenta
	case level < slog.LevelWarn:
		return colorBlue
	case level < slog.LevelError:
		return colorYellow
	default:
		return colorRed
	}
}
