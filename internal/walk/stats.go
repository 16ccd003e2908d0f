package treescan

import (
	"go.uber.org/zap"
)

// MaxRoots is the maximum number of root paths processed in one scan.
// Paths beyond this limit are skipped with a diagnostic; the scan itself
// still succeeds.
const MaxRoots = 64

// Stats holds the accumulated per-type counts and size totals for one
// traversal root, or for the merged grand total across roots. The zero
// value is ready to use. Blocks are 512-byte allocation units taken from
// the metadata lookup, not derived from the byte size.
type Stats struct {
	Dirs   uint64 `json:"dirs"`
	Files  uint64 `json:"files"`
	Links  uint64 `json:"links"`
	Fifos  uint64 `json:"fifos"`
	Socks  uint64 `json:"sockets"`
	Size   uint64 `json:"size_bytes"`
	Blocks uint64 `json:"blocks"`
}

// Add merges other into s, field by field.
func (s *Stats) Add(other Stats) {
	s.Dirs += other.Dirs
	s.Files += other.Files
	s.Links += other.Links
	s.Fifos += other.Fifos
	s.Socks += other.Socks
	s.Size += other.Size
	s.Blocks += other.Blocks
}

// count records one classified entry. Directories contribute only their
// counter; all other entries contribute size and blocks. Untyped entries
// land in no bucket.
func (s *Stats) count(ent *Entry) {
	switch ent.Kind {
	case KindDir:
		s.Dirs++
		return
	case KindFile:
		s.Files++
	case KindSymlink:
		s.Links++
	case KindFifo:
		s.Fifos++
	case KindSocket:
		s.Socks++
	}
	if ent.Size > 0 {
		s.Size += uint64(ent.Size)
	}
	if ent.Blocks > 0 {
		s.Blocks += uint64(ent.Blocks)
	}
}

// RootReport is the result of traversing a single root.
type RootReport struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	Stats   Stats   `json:"stats"`
}

// ScanResult aggregates per-root reports and their grand total.
type ScanResult struct {
	Roots []RootReport `json:"roots"`
	Total Stats        `json:"total"`
}

// ScanRoots traverses each root with a fresh zeroed Stats and merges the
// per-root totals into a grand total. An empty roots list defaults to the
// current directory. Roots beyond MaxRoots are ignored; each ignored path
// is reported at error level so the diagnostic survives the default logger
// configuration.
func ScanRoots(roots []string, opts Options) (*ScanResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(roots) == 0 {
		roots = []string{"."}
	}
	if len(roots) > MaxRoots {
		for _, extra := range roots[MaxRoots:] {
			logger.Error("maximum number of roots exceeded, ignoring path",
				zap.String("path", extra),
				zap.Int("max", MaxRoots))
		}
		roots = roots[:MaxRoots]
	}

	engine := NewEngine(opts)
	result := &ScanResult{Roots: make([]RootReport, 0, len(roots))}

	for _, root := range roots {
		if opts.OnRootBegin != nil {
			opts.OnRootBegin(root)
		}

		var stats Stats
		outcome, err := engine.Traverse(root, &stats)
		if err != nil {
			return nil, err
		}

		rep := RootReport{Path: root, Outcome: outcome, Stats: stats}
		result.Roots = append(result.Roots, rep)
		result.Total.Add(stats)

		if opts.OnRootEnd != nil {
			opts.OnRootEnd(rep)
		}
	}
	return result, nil
}
