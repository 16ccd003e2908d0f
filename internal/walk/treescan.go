// Package treescan provides deterministic, depth-first filesystem traversal
// with per-type statistics aggregation.
package treescan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// scratchBufferSize is the size of the reusable buffer handed to
// godirwalk for reading directory entries.
const scratchBufferSize = 64 * 1024

// --------------------------------------------------------------------------
// Configuration types
// --------------------------------------------------------------------------

// Flags is a bitset of independent output-control options. Flags affect what
// gets emitted and recorded, never the traversal order itself.
type Flags uint8

const (
	FlagTree    Flags = 1 << iota // emit per-entry tree lines
	FlagSummary                   // emit per-root and grand-total summaries
	FlagVerbose                   // emit owner/size/blocks/permissions per entry
)

// Has reports whether all bits in flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// ErrorMode defines the policy for directories that cannot be enumerated.
type ErrorMode int

const (
	SkipSilent ErrorMode = iota // skip the subtree without diagnostics
	SkipWarn                    // skip the subtree and log a warning
)

// LogLevel defines the verbosity of logging.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel converts a level name into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "error":
		return LogLevelError, nil
	case "warn":
		return LogLevelWarn, nil
	case "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// Outcome distinguishes a fully visited directory from one whose
// enumeration failed and was skipped. An empty directory is Visited.
type Outcome int

const (
	OutcomeVisited Outcome = iota
	OutcomeSkipped
)

// String returns the lower-case name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeVisited:
		return "visited"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalJSON encodes the outcome as its string name.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Event is one visitation of a directory entry. Depth is zero for the
// immediate children of a root.
type Event struct {
	Path  string
	Depth int
	Entry Entry
}

// EventSink receives one Event per visited entry, in traversal order.
// A non-nil error aborts the traversal.
type EventSink func(Event) error

// Options configures an Engine and the root-level scan helpers.
type Options struct {
	Flags     Flags
	Sink      EventSink
	Logger    *zap.Logger
	ErrorMode ErrorMode

	// MaxDepth limits descent below the given depth when positive.
	// It is a configuration limit, not protection against cycles.
	MaxDepth int

	// OnRootBegin and OnRootEnd bracket each root processed by ScanRoots.
	OnRootBegin func(path string)
	OnRootEnd   func(rep RootReport)
}

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Engine performs single-threaded, depth-first traversal of directory
// trees. Each directory is enumerated once into a snapshot, sorted, and
// then emitted and descended in that order.
type Engine struct {
	opts    Options
	logger  *zap.Logger
	scratch []byte
}

// NewEngine builds an Engine from opts. A nil logger disables logging.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		opts:    opts,
		logger:  logger,
		scratch: make([]byte, scratchBufferSize),
	}
}

// Traverse walks the tree rooted at path, mutating stats in place and
// emitting one event per entry through the configured sink. A path with a
// trailing separator yields the same result as one without. The returned
// outcome reports whether the root itself could be enumerated; an error is
// returned only when the sink fails.
func (e *Engine) Traverse(path string, stats *Stats) (Outcome, error) {
	return e.walk(filepath.Clean(path), 0, stats)
}

func (e *Engine) walk(dir string, depth int, stats *Stats) (Outcome, error) {
	// ReadDirents opens and closes the directory handle internally, on
	// every return path.
	dirents, err := godirwalk.ReadDirents(dir, e.scratch)
	if err != nil {
		if e.opts.ErrorMode == SkipWarn {
			e.logger.Warn("skipping unreadable directory",
				zap.String("path", dir),
				zap.Error(err))
		}
		return OutcomeSkipped, nil
	}

	// Snapshot the listing before sorting or recursing. Self and parent
	// references never appear in listings, counts, or recursion; descending
	// into them would recurse forever.
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		name := d.Name()
		if name == "." || name == ".." {
			continue
		}
		entries = append(entries, Entry{Name: name, Kind: classifyMode(d.ModeType())})
	}
	if len(entries) == 0 {
		return OutcomeVisited, nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return compareEntries(entries[i], entries[j]) < 0
	})

	for i := range entries {
		ent := &entries[i]

		child, err := joinPath(dir, ent.Name)
		if err != nil {
			e.logger.Warn("skipping entry with unusable name",
				zap.String("dir", dir),
				zap.String("name", ent.Name),
				zap.Error(err))
			continue
		}

		// Sizes and blocks come from a metadata lookup, never from the
		// dirent itself. Directories are only looked up when the verbose
		// columns need their mode and ownership.
		if ent.Kind != KindDir || e.opts.Flags.Has(FlagVerbose) {
			e.fillMetadata(child, ent)
		}

		if e.opts.Sink != nil {
			if err := e.opts.Sink(Event{Path: child, Depth: depth, Entry: *ent}); err != nil {
				return OutcomeVisited, fmt.Errorf("emitting %q: %w", child, err)
			}
		}
		stats.count(ent)

		if ent.Kind == KindDir {
			if e.opts.MaxDepth > 0 && depth+1 >= e.opts.MaxDepth {
				continue
			}
			if _, err := e.walk(child, depth+1, stats); err != nil {
				return OutcomeVisited, err
			}
		}
	}
	return OutcomeVisited, nil
}

// fillMetadata populates size, mode, blocks and ownership from an lstat of
// path. Entries whose metadata cannot be read keep zero values.
func (e *Engine) fillMetadata(path string, ent *Entry) {
	info, err := os.Lstat(path)
	if err != nil {
		e.logger.Debug("metadata lookup failed",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	ent.Size = info.Size()
	ent.Mode = info.Mode()
	fillSys(info, ent)
}

// joinPath concatenates a parent path and a child name with exactly one
// separator between them. Empty names and names containing a separator are
// rejected rather than silently producing a malformed path.
func joinPath(parent, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty entry name")
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		return "", fmt.Errorf("entry name %q contains a path separator", name)
	}
	for len(parent) > 1 && parent[len(parent)-1] == os.PathSeparator {
		parent = parent[:len(parent)-1]
	}
	switch parent {
	case "":
		return name, nil
	case string(os.PathSeparator):
		return parent + name, nil
	default:
		return parent + string(os.PathSeparator) + name, nil
	}
}

// NewLogger creates a zap logger with the specified log level.
func NewLogger(level LogLevel) *zap.Logger {
	var config zap.Config

	switch level {
	case LogLevelWarn:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LogLevelInfo:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case LogLevelDebug:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	logger, _ := config.Build()
	return logger
}
