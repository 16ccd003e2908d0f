package tree

import (
	"context"
	"io"

	internal "github.com/TFMV/treescan/internal/walk"
	"go.uber.org/zap"
)

// Re-export the types from the internal package
type (
	// Flags is a bitset of independent output-control options.
	Flags = internal.Flags

	// Options configures an Engine and the root-level scan helpers.
	Options = internal.Options

	// Engine performs single-threaded, depth-first traversal.
	Engine = internal.Engine

	// Entry is one named item inside a directory.
	Entry = internal.Entry

	// Kind classifies a directory entry.
	Kind = internal.Kind

	// Event is one visitation of a directory entry.
	Event = internal.Event

	// EventSink receives one Event per visited entry.
	EventSink = internal.EventSink

	// Outcome distinguishes a visited directory from a skipped one.
	Outcome = internal.Outcome

	// ErrorMode defines the policy for unreadable directories.
	ErrorMode = internal.ErrorMode

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// Stats holds accumulated per-type counts and size totals.
	Stats = internal.Stats

	// RootReport is the result of traversing a single root.
	RootReport = internal.RootReport

	// ScanResult aggregates per-root reports and their grand total.
	ScanResult = internal.ScanResult

	// TextRenderer writes tree lines and summary blocks.
	TextRenderer = internal.TextRenderer

	// WatchOptions configures a watch-and-rescan loop.
	WatchOptions = internal.WatchOptions

	// WatchHandler receives refreshed totals after each rescan.
	WatchHandler = internal.WatchHandler
)

// Re-export the constants
const (
	// Output-control flags
	FlagTree    = internal.FlagTree
	FlagSummary = internal.FlagSummary
	FlagVerbose = internal.FlagVerbose

	// Entry kinds
	KindOther   = internal.KindOther
	KindDir     = internal.KindDir
	KindFile    = internal.KindFile
	KindSymlink = internal.KindSymlink
	KindFifo    = internal.KindFifo
	KindSocket  = internal.KindSocket

	// Traversal outcomes
	OutcomeVisited = internal.OutcomeVisited
	OutcomeSkipped = internal.OutcomeSkipped

	// Unreadable directory policies
	SkipSilent = internal.SkipSilent
	SkipWarn   = internal.SkipWarn

	// Log levels
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	// MaxRoots is the maximum number of root paths processed in one scan.
	MaxRoots = internal.MaxRoots
)

// NewEngine builds an Engine from opts.
func NewEngine(opts Options) *Engine {
	return internal.NewEngine(opts)
}

// ScanRoots traverses each root with fresh statistics and merges the
// per-root totals into a grand total.
func ScanRoots(roots []string, opts Options) (*ScanResult, error) {
	return internal.ScanRoots(roots, opts)
}

// QuickStats computes totals for a single root with a parallel walk and no
// ordering guarantees.
func QuickStats(ctx context.Context, root string) (Stats, error) {
	return internal.QuickStats(ctx, root)
}

// Watch monitors root and its subdirectories, recomputing totals whenever
// the tree changes.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	return internal.Watch(ctx, root, opts, handler)
}

// NewTextRenderer creates a renderer for the given flags writing to w.
func NewTextRenderer(w io.Writer, flags Flags) *TextRenderer {
	return internal.NewTextRenderer(w, flags)
}

// RenderJSON writes the scan result as indented JSON.
func RenderJSON(w io.Writer, res *ScanResult) error {
	return internal.RenderJSON(w, res)
}

// NewLogger creates a zap logger with the specified log level.
func NewLogger(level LogLevel) *zap.Logger {
	return internal.NewLogger(level)
}

// ParseLogLevel converts a level name into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	return internal.ParseLogLevel(s)
}
