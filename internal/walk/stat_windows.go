//go:build windows

package treescan

import "os"

// fillSys has no native block count to read on this platform, so blocks
// are approximated from the byte size. Ownership stays zero.
func fillSys(info os.FileInfo, ent *Entry) {
	ent.Blocks = blocksFromSize(info.Size())
}
