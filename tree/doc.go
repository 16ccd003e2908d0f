// Package tree provides deterministic directory-tree traversal with
// per-type statistics aggregation.
//
// This package is the public surface of the `treescan` command. The
// traversal is single-threaded and depth-first; each directory listing is
// snapshotted, sorted (directories first, then byte-wise by name), and
// only then emitted and descended. That makes the output reproducible
// across runs and platforms.
//
//	var stats tree.Stats
//	engine := tree.NewEngine(tree.Options{
//		Sink: func(ev tree.Event) error {
//			fmt.Println(ev.Path)
//			return nil
//		},
//	})
//	outcome, err := engine.Traverse("/var/log", &stats)
//
// Multiple roots aggregate into a grand total:
//
//	res, err := tree.ScanRoots([]string{"/usr/share", "/opt"}, tree.Options{})
//	fmt.Println(res.Total.Files)
//
// Watching a tree for changes:
//
//	err := tree.Watch(ctx, "/path/to/watch", tree.WatchOptions{}, func(ctx context.Context, stats tree.Stats) error {
//		fmt.Printf("files=%d size=%d\n", stats.Files, stats.Size)
//		return nil
//	})
package tree
