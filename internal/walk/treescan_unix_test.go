//go:build !windows

package treescan

import (
	"net"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

// TestFifoCounted checks that named pipes land in the fifo bucket.
func TestFifoCounted(t *testing.T) {
	root := t.TempDir()
	fifo := filepath.Join(root, "pipe")
	if err := syscall.Mkfifo(fifo, 0o644); err != nil {
		t.Skipf("Cannot create fifo on this filesystem: %v", err)
	}

	events, stats, _ := collectEvents(t, root, Options{})
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Entry.Kind != KindFifo {
		t.Errorf("Expected fifo kind, got %v", events[0].Entry.Kind)
	}
	if stats.Fifos != 1 {
		t.Errorf("Expected 1 fifo counted, got %d", stats.Fifos)
	}
}

// TestSocketCounted checks that unix sockets land in the socket bucket.
func TestSocketCounted(t *testing.T) {
	root := t.TempDir()
	sock := filepath.Join(root, "ctl.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Skipf("Cannot create unix socket on this filesystem: %v", err)
	}
	defer ln.Close()

	_, stats, _ := collectEvents(t, root, Options{})
	if stats.Socks != 1 {
		t.Errorf("Expected 1 socket counted, got %d", stats.Socks)
	}
}

// TestSymlinkReportedNotFollowed checks that symlinks are counted as links
// and never descended, even when they point at a directory.
func TestSymlinkReportedNotFollowed(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	mustMkdir(t, target)
	mustWrite(t, filepath.Join(target, "inside.txt"), 4)
	if err := os.Symlink(target, filepath.Join(root, "alias")); err != nil {
		t.Skipf("Cannot create symlink: %v", err)
	}

	events, stats, _ := collectEvents(t, root, Options{})

	if stats.Links != 1 {
		t.Errorf("Expected 1 link counted, got %d", stats.Links)
	}
	// target, inside.txt, alias: the file under the link target appears
	// once, through the real directory only.
	if stats.Files != 1 {
		t.Errorf("Expected 1 file counted, got %d", stats.Files)
	}
	for _, ev := range events {
		if ev.Entry.Name == "inside.txt" && ev.Depth != 1 {
			t.Errorf("File visited through the symlink at depth %d", ev.Depth)
		}
	}
}

// TestUnreadableSubdirectorySkipped checks that a subtree whose directory
// cannot be opened is skipped while its parent still counts the entry.
func TestUnreadableSubdirectorySkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("Running as root; permission bits are not enforced")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	mustMkdir(t, locked)
	mustWrite(t, filepath.Join(locked, "hidden.txt"), 6)

	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("Failed to lock directory: %v", err)
	}
	defer os.Chmod(locked, 0o755)

	events, stats, outcome := collectEvents(t, root, Options{})

	if outcome != OutcomeVisited {
		t.Errorf("Expected the root itself to be visited, got %v", outcome)
	}
	if stats.Dirs != 1 {
		t.Errorf("Expected the unreadable directory to be counted by its parent, got %d", stats.Dirs)
	}
	if stats.Files != 0 {
		t.Errorf("Expected nothing beneath the unreadable directory to be counted, got %d files", stats.Files)
	}
	if len(events) != 1 {
		t.Errorf("Expected 1 event, got %d", len(events))
	}

	// Traversing the locked directory directly reports the skip.
	_, _, direct := collectEvents(t, locked, Options{})
	if direct != OutcomeSkipped {
		t.Errorf("Expected skipped outcome for the locked directory, got %v", direct)
	}
}
