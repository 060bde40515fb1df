package status

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) (*Manager, string) {
	t.Helper()
	tmpDir := t.TempDir()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return New(tmpDir, &logger), tmpDir
}

func TestManager_WriteFileAtomic(t *testing.T) {
	mgr, tmpDir := setupTest(t)
	ctx := context.Background()

	err := mgr.WriteFileAtomic(ctx, "src/app/app.module.ts", []byte("export class AppModule {}"))
	require.NoError(t, err, "writing file should succeed")

	content, err := os.ReadFile(filepath.Join(tmpDir, "src", "app", "app.module.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export class AppModule {}", string(content))

	entries, err := os.ReadDir(filepath.Join(tmpDir, "src", "app"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file should be renamed away")
}

func TestManager_WriteFileAtomicKeepsMode(t *testing.T) {
	mgr, tmpDir := setupTest(t)
	ctx := context.Background()

	target := filepath.Join(tmpDir, "run.sh")
	require.NoError(t, os.WriteFile(target, []byte("echo a"), 0755))

	require.NoError(t, mgr.WriteFileAtomic(ctx, "run.sh", []byte("echo b")))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestManager_ReadAndExists(t *testing.T) {
	mgr, tmpDir := setupTest(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "index.html"), []byte("<html></html>"), 0644))

	exists, err := mgr.FileExists(ctx, "src/index.html")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = mgr.FileExists(ctx, "src")
	require.NoError(t, err)
	assert.False(t, exists, "directories are not files")

	exists, err = mgr.FileExists(ctx, "missing.html")
	require.NoError(t, err)
	assert.False(t, exists)

	content, err := mgr.ReadFile(ctx, "src/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(content))

	_, err = mgr.ReadFile(ctx, "missing.html")
	assert.Error(t, err)
}

func TestManager_Glob(t *testing.T) {
	mgr, tmpDir := setupTest(t)
	ctx := context.Background()

	for _, p := range []string{"src/app/app.module.ts", "src/app/shared/shared.module.ts", "src/main.ts"} {
		require.NoError(t, mgr.WriteFileAtomic(ctx, p, []byte("x")))
	}
	require.DirExists(t, filepath.Join(tmpDir, "src", "app", "shared"))

	matches, err := mgr.Glob(ctx, "src/**/*.module.ts")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/app/app.module.ts", "src/app/shared/shared.module.ts"}, matches)
}

func TestManager_BackupFile(t *testing.T) {
	mgr, tmpDir := setupTest(t)
	ctx := context.Background()

	require.NoError(t, mgr.BackupFile(ctx, "missing.scss"), "missing files are not backed up")
	_, err := os.Stat(filepath.Join(tmpDir, "missing.scss.bak"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, mgr.WriteFileAtomic(ctx, "styles.scss", []byte("body {}")))
	require.NoError(t, mgr.BackupFile(ctx, "styles.scss"))

	backup, err := os.ReadFile(filepath.Join(tmpDir, "styles.scss.bak"))
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(backup))
}

func TestManager_CommitRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	mgr := New(t.TempDir(), &logger)
	ctx := context.Background()

	mgr.BeginCommit(ctx, 3)
	mgr.RecordFile(ctx, FileInfo{Path: "src/styles.scss", Status: StatusModified, Checksum: Checksum([]byte("a"))})
	mgr.RecordFile(ctx, FileInfo{Path: "src/app/app.component.html", Status: StatusNew})
	mgr.RecordFile(ctx, FileInfo{Path: "angular.json", Status: StatusUnchanged})
	mgr.EndCommit(ctx)

	info, ok := mgr.Lookup("src/styles.scss")
	require.True(t, ok)
	assert.Equal(t, StatusModified, info.Status)

	_, ok = mgr.Lookup("nope")
	assert.False(t, ok)

	files := mgr.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "angular.json", files[0].Path)
	assert.Equal(t, "src/app/app.component.html", files[1].Path)
	assert.Equal(t, "src/styles.scss", files[2].Path)

	assert.Equal(t, Summary{New: 1, Modified: 1, Unchanged: 1}, mgr.Summary())
	assert.Equal(t, 3, mgr.Summary().Total())

	assert.Contains(t, buf.String(), "⏳ committing 1/3 files")
	assert.Contains(t, buf.String(), "📝 updated src/styles.scss")
	assert.Contains(t, buf.String(), "💾 committed 3 files")
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, Checksum([]byte("same")), Checksum([]byte("same")))
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
	assert.Len(t, Checksum(nil), 64)
}

func TestFileStatus_String(t *testing.T) {
	tests := []struct {
		status FileStatus
		want   string
	}{
		{StatusNew, "new"},
		{StatusModified, "modified"},
		{StatusUnchanged, "unchanged"},
		{StatusSkipped, "skipped"},
		{StatusUnknown, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestDefaultFileFormatter(t *testing.T) {
	f := NewDefaultFileFormatter()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"new", f.Describe(FileInfo{Path: "a.ts", Status: StatusNew}), "✨ created a.ts"},
		{"modified", f.Describe(FileInfo{Path: "a.ts", Status: StatusModified}), "📝 updated a.ts"},
		{"skipped", f.Describe(FileInfo{Path: "a.ts", Status: StatusSkipped, Reason: "exists"}), "⏭️  kept a.ts (exists)"},
		{"unchanged", f.Describe(FileInfo{Path: "a.ts", Status: StatusUnchanged}), "👍 unchanged a.ts"},
		{"error", f.Describe(FileInfo{Path: "a.ts", Error: errors.New("boom")}), "❌ a.ts: boom"},
		{"progress_partial", f.Progress(1, 3), "⏳ committing 1/3 files"},
		{"progress_done", f.Progress(3, 3), "💾 committed 3 files"},
		{"progress_empty", f.Progress(0, 0), "💾 committed 0 files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestUserLogger(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var out bytes.Buffer
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	ul := NewUserLoggerTo(ctx, &out)

	ul.LogStep("append head links", true, "4 elements")
	ul.LogStep("wrap body", false, "")
	ul.LogSkip("build style src/assets/webslidemenu/webslidemenu.css", "already listed")
	ul.LogFileChange(FileInfo{Path: "src/index.html", Status: StatusModified})
	ul.LogFileChange(FileInfo{Path: "src/app/header/header.component.ts", Status: StatusNew})
	ul.LogInvocation("ng generate cap-angular-schematic-bootstrap:ng-add", nil)

	got := out.String()
	assert.Contains(t, got, "append head links (4 elements)")
	assert.Contains(t, got, "wrap body - anchor not found, skipped")
	assert.Contains(t, got, "build style src/assets/webslidemenu/webslidemenu.css (already listed)")
	assert.Contains(t, got, "Updated src/index.html")
	assert.Contains(t, got, "Created src/app/header/header.component.ts")
	assert.Contains(t, got, "ng generate cap-angular-schematic-bootstrap:ng-add")
}
