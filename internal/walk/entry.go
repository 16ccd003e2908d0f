package treescan

import (
	"os"
	"strings"
)

// Kind classifies a directory entry. Entries whose type cannot be
// determined are KindOther; they are listed but counted in no typed bucket.
type Kind uint8

const (
	KindOther Kind = iota
	KindDir
	KindFile
	KindSymlink
	KindFifo
	KindSocket
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDir:
		return "directory"
	case KindFile:
		return "file"
	case KindSymlink:
		return "symlink"
	case KindFifo:
		return "fifo"
	case KindSocket:
		return "socket"
	default:
		return "other"
	}
}

// Entry is one named item inside a directory. Size, Blocks, Mode and the
// ownership fields are filled from a metadata lookup when the traversal
// needs them; otherwise they stay zero.
type Entry struct {
	Name   string
	Kind   Kind
	Size   int64
	Blocks int64
	Mode   os.FileMode
	UID    uint32
	GID    uint32
}

// classifyMode maps file mode type bits to an entry kind. Symbolic links
// are classified as links, never resolved; the traversal does not follow
// them.
func classifyMode(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	case mode&os.ModeNamedPipe != 0:
		return KindFifo
	case mode&os.ModeSocket != 0:
		return KindSocket
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// blocksFromSize approximates a 512-byte block count when the platform
// exposes no native one.
func blocksFromSize(size int64) int64 {
	return (size + 511) / 512
}

// compareEntries orders directories strictly before non-directories, then
// byte-wise lexicographically by name within each group. The result is a
// total order for distinct names, so listings are reproducible across runs
// and platforms.
func compareEntries(a, b Entry) int {
	if a.Kind == KindDir && b.Kind != KindDir {
		return -1
	}
	if a.Kind != KindDir && b.Kind == KindDir {
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}
