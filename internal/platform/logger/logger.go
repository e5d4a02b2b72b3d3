// Package logger wraps zerolog with env driven defaults and
// request and chart scoped fields
package logger

import (
	"context"
	"io"
	"maps"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"covtrend/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger, FromEnv fills it from LOG_*
type Options struct {
	Level       string // trace..panic, anything else is debug
	Format      string // console or json
	Service     string
	Component   string
	Writer      io.Writer // stdout when nil
	WithCaller  bool
	SampleEvery int // keep one event in N, 0 and 1 keep all

	StaticFields map[string]string
}

// FromEnv reads LOG_* through the raw config view, config itself logs
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(env.Get("LEVEL", "debug")),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", ""),
		Component:   env.Get("COMPONENT", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

// Logger is zerolog's logger, aliased so callers import one package
type Logger = zerolog.Logger

var (
	initOnce sync.Once
	root     atomic.Pointer[Logger]
)

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init installs the root logger, only the first call has any effect
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

func build(opt Options) Logger {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	fields := map[string]string{"service": opt.Service, "component": opt.Component}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields["go_version"] = bi.GoVersion
	}
	maps.Copy(fields, opt.StaticFields)

	b := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp()
	for k, v := range fields {
		if v != "" {
			b = b.Str(k, v)
		}
	}
	if opt.WithCaller {
		b = b.Caller()
	}
	l := b.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// parseLevel accepts zerolog level names plus "warning", anything else is debug
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl == zerolog.NoLevel || lvl == zerolog.Disabled {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey int

const fieldsKey ctxKey = iota

// scope holds the fields C copies onto child loggers
type scope struct {
	requestID string
	userID    string
	service   string
	owner     string
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(fieldsKey).(scope)
	return s
}

// WithRequest annotates ctx with the request id and caller
func WithRequest(ctx context.Context, reqID, userID string) context.Context {
	s := scopeOf(ctx)
	if reqID != "" {
		s.requestID = reqID
	}
	if userID != "" {
		s.userID = userID
	}
	return context.WithValue(ctx, fieldsKey, s)
}

// WithOwner annotates ctx with the provider and owner a chart query reads
func WithOwner(ctx context.Context, service, owner string) context.Context {
	s := scopeOf(ctx)
	s.service, s.owner = service, owner
	return context.WithValue(ctx, fieldsKey, s)
}

// C returns a child logger carrying the fields set on ctx
func C(ctx context.Context) *Logger {
	s := scopeOf(ctx)
	b := Get().With()
	for _, f := range [...][2]string{
		{"request_id", s.requestID},
		{"user_id", s.userID},
		{"provider", s.service},
		{"owner", s.owner},
	} {
		if f[1] != "" {
			b = b.Str(f[0], f[1])
		}
	}
	ll := b.Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
