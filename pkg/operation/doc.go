/*
Package operation runs collation-aware find and replace over a directory tree.

	+-------------+
	|  Operation  |
	| (find/repl) |
	+------+------+
	       |
	+------+------+
	|   status    |
	| (files I/O) |
	+-------------+

🎯 Purpose:
  - Selects files under the config root with doublestar include globs, minus
    ignore globs, .bak files and the config file itself
  - Applies replacement rules (text.CollationReplacer) or searches for a
    needle (text.Find) in each file
  - Delegates reads, atomic writes and backups to status.Manager
  - Reports one row per file through log.Logger

Files are processed concurrently, bounded by Config.Concurrency. A file that
fails (bad bytes for the host encoding, unreadable) is tracked as failed and
the run continues; Execute then returns ErrFilesFailed.

🔍 Example:

	cfg, _ := config.Load(ctx, ".collsearch.yaml")
	mgr := status.New(cfg.Root, zerolog.Ctx(ctx))

	op := operation.NewReplaceOperation(operation.Options{Config: cfg, StatusMgr: mgr})
	err := operation.NewRunner(cfg.Async).Run(ctx, op)
*/
package operation
