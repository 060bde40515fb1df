/*
Package status manages file storage and status tracking for ngmenu.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Logs   |
	| (Storage) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Reads and writes project files under one base directory
- Tracks what a commit did to each file (new, modified, unchanged, skipped)
- Reports step outcomes to the user

🔄 Flow:
1. The staged tree reads originals through the Manager
2. On commit, every staged file is backed up (optional) and written atomically
3. Each write is tracked with its status and checksum
4. The UserLogger prints step results while the chain runs

⚡ Key Responsibilities:
- Atomic writes (per-file temp + rename, permissions kept)
- Commit records and per-status summaries
- Backup management

🤝 Interfaces:
- FileManager: disk access for the staged tree
- CommitReporter: receives one record per committed file
- FileFormatter: renders records for the log

🔍 Example:

	mgr := status.New(projectDir, &logger)

	err := mgr.WriteFileAtomic(ctx, "src/styles.scss", content)

	mgr.BeginCommit(ctx, 1)
	mgr.RecordFile(ctx, status.FileInfo{Path: "src/styles.scss", Status: status.StatusModified})
	mgr.EndCommit(ctx)
	fmt.Println(mgr.Summary().Modified) // 1
*/
package status
