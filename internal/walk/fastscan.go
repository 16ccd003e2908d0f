package treescan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// QuickStats computes the same totals as the engine for a single root, but
// with a parallel walk and no ordering guarantees. It suits summary-only
// refreshes, such as the watch loop, where no listing is emitted. The core
// traversal stays single-threaded; this is an auxiliary collector.
func QuickStats(ctx context.Context, root string) (Stats, error) {
	root = filepath.Clean(root)

	var (
		mu    sync.Mutex
		stats Stats
	)

	conf := &fastwalk.Config{Follow: false}
	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees are skipped, as in the engine
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil // the root itself is not an entry
		}

		ent := Entry{Name: d.Name(), Kind: classifyMode(d.Type())}
		if ent.Kind != KindDir {
			if info, err := d.Info(); err == nil {
				ent.Size = info.Size()
				ent.Mode = info.Mode()
				fillSys(info, &ent)
			}
		}

		mu.Lock()
		stats.count(&ent)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}
