//go:build !windows

package treescan

import (
	"os"
	"syscall"
)

// fillSys copies block count and ownership out of the platform stat.
// POSIX st_blocks is already in 512-byte units.
func fillSys(info os.FileInfo, ent *Entry) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		ent.Blocks = blocksFromSize(info.Size())
		return
	}
	ent.Blocks = int64(st.Blocks)
	ent.UID = st.Uid
	ent.GID = st.Gid
}
