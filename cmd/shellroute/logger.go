package main

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const (
	grey          = "\033[38;5;240m"
	boldLightGrey = "\033[1;38;5;240m"
	red           = "\033[38;5;9m"
	yellow        = "\033[38;5;11m"
	reset         = "\033[0m"
)

// levelColors colors the whole line by level; the encoder appends reset
// before each newline.
var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel:  grey,
	zapcore.InfoLevel:   boldLightGrey,
	zapcore.WarnLevel:   yellow,
	zapcore.ErrorLevel:  red,
	zapcore.DPanicLevel: red,
	zapcore.PanicLevel:  red,
	zapcore.FatalLevel:  red,
}

func fullLineColorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	color, ok := levelColors[l]
	if !ok {
		color = reset
	}
	enc.AppendString(color + l.CapitalString())
}

// NewLogger returns the console logger used by every package. The level is
// Warn, Info with verbose and Debug (with caller) with debug. Lines are
// colored only when stderr is a terminal.
func NewLogger(stderr io.Writer, verbose, debug bool) (*zap.SugaredLogger, error) {
	if stderr == nil {
		stderr = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.LevelKey = "L"
	encCfg.NameKey = "N"
	encCfg.MessageKey = "M"
	encCfg.StacktraceKey = "S"
	encCfg.FunctionKey = ""
	encCfg.CallerKey = ""
	encCfg.ConsoleSeparator = " "
	encCfg.EncodeDuration = zapcore.StringDurationEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if f, ok := stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		encCfg.EncodeLevel = fullLineColorLevelEncoder
		encCfg.LineEnding = reset + zapcore.DefaultLineEnding
	}

	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	switch {
	case debug:
		level.SetLevel(zapcore.DebugLevel)
		encCfg.CallerKey = "C"
	case verbose:
		level.SetLevel(zapcore.InfoLevel)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(stderr), level)
	var opts []zap.Option
	if debug {
		opts = append(opts, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(core, opts...).Named("shellroute").Sugar(), nil
}
