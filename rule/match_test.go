package rule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ftahirops/validatord/model"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestMatchParsesAppendedLinesAndAdvancesCursor(t *testing.T) {
	path := writeTempFile(t, "line one\nline two\n")
	svc := &model.Service{Name: "svc"}
	rule := &model.MatchRule{Pattern: "two"}
	fb := &fakeBridge{}

	var cursor int64
	info, _ := os.Stat(path)
	if err := Match(svc, path, &cursor, info.Size(), false, nil, []*model.MatchRule{rule}, fb); err != nil {
		t.Fatalf("Match: %v", err)
	}

	if cursor != info.Size() {
		t.Fatalf("expected cursor to reach EOF %d, got %d", info.Size(), cursor)
	}
	if len(fb.events) != 1 || fb.events[0].state != model.StateChanged {
		t.Fatalf("expected Content CHANGED from matched 'line two', got %v", fb.events)
	}
}

func TestMatchResetsCursorAfterTruncation(t *testing.T) {
	path := writeTempFile(t, "0123456789")
	svc := &model.Service{Name: "svc"}
	rule := &model.MatchRule{Pattern: "012"}
	fb := &fakeBridge{}

	info, _ := os.Stat(path)
	cursor := int64(100) // stale cursor from before truncation, per scenario 3

	if err := Match(svc, path, &cursor, info.Size(), false, nil, []*model.MatchRule{rule}, fb); err != nil {
		t.Fatalf("Match: %v", err)
	}

	// No trailing newline in this 10-byte file, so it is an incomplete line
	// and nothing is consumed this cycle; the important invariant is that
	// the stale cursor was reset to 0 rather than left beyond EOF.
	if cursor < 0 || cursor > info.Size() {
		t.Fatalf("expected 0 <= cursor <= size after reset, got %d (size %d)", cursor, info.Size())
	}
}

func TestMatchIgnorePatternSuppressesLine(t *testing.T) {
	path := writeTempFile(t, "DEBUG noisy\nERROR boom\n")
	svc := &model.Service{Name: "svc"}
	ignore := &model.MatchRule{Pattern: "DEBUG"}
	match := &model.MatchRule{Pattern: "ERROR"}
	fb := &fakeBridge{}

	var cursor int64
	info, _ := os.Stat(path)
	if err := Match(svc, path, &cursor, info.Size(), false, []*model.MatchRule{ignore}, []*model.MatchRule{match}, fb); err != nil {
		t.Fatalf("Match: %v", err)
	}

	if len(fb.events) != 1 || fb.events[0].state != model.StateChanged {
		t.Fatalf("expected only the ERROR line to surface as CHANGED, got %v", fb.events)
	}
}
