/*
Package status owns the file system side of a collsearch run.

	            +-------------+
	            |   Status    |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Logs   |
	| (atomic)  |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
  - Reads haystack files and writes rewritten content atomically
  - Keeps .bak copies when asked and can restore them
  - Tracks one FileInfo per file (unchanged, matched, modified, failed)
  - Reports progress through a FileFormatter

Two formatters ship with the package. DefaultFileFormatter writes emoji
messages suitable for structured logs; ConsoleFormatter writes aligned,
colored rows for a terminal.

The Manager is safe for concurrent use, so operation workers can share one.

🔍 Example:

	mgr := status.New(root, logger).WithFormatter(status.ConsoleFormatter{})

	mgr.StartOperation(ctx, len(files))
	content, err := mgr.ReadFile(ctx, "notes/a.txt")
	// ... rewrite content ...
	err = mgr.WriteFileAtomic(ctx, "notes/a.txt", out)
	mgr.TrackFile(ctx, status.FileInfo{Path: "notes/a.txt", Status: status.StatusModified, Matches: 2})
	mgr.Advance(ctx)
	mgr.FinishOperation(ctx)
*/
package status
