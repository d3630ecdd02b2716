package rule

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ftahirops/validatord/model"
)

// matchLineLength is MATCH_LINE_LENGTH (spec §4.2 "Match" step 4): the
// maximum bytes read as a single line per pass.
const matchLineLength = 512

// Match implements the Match content-tailing algorithm (spec §4.2 "Match",
// the hardest rule). cursor is the service's persisted read position
// (model.FileObservation.ReadPos); it is advanced in place. inodeChanged
// reports whether the file's inode differs from the previous cycle's.
func Match(svc *model.Service, path string, cursor *int64, currentSize int64, inodeChanged bool, ignoreRules, matchRules []*model.MatchRule, bridge EventPoster) error {
	if strings.HasPrefix(path, "/proc") {
		*cursor = 0
	} else if inodeChanged || *cursor > currentSize {
		*cursor = 0
	}

	if *cursor < currentSize {
		if err := tail(path, cursor, currentSize, ignoreRules, matchRules); err != nil {
			return err
		}
	}

	for _, r := range matchRules {
		if r.Log() != "" {
			bridge.Post(svc, model.EventContent, model.StateChanged, r.Action, r.Log())
		} else {
			bridge.Post(svc, model.EventContent, model.StateChangedNot, r.Action, "no new matching content")
		}
		r.ClearLog()
	}
	return nil
}

// tail reads from *cursor to currentSize, 512 bytes at a time, extracting
// whole lines and advancing *cursor as it goes (spec §4.2 steps 4-6).
func tail(path string, cursor *int64, currentSize int64, ignoreRules, matchRules []*model.MatchRule) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, matchLineLength)
	discarding := false

	for *cursor < currentSize {
		n, err := f.ReadAt(buf, *cursor)
		if err != nil && err != io.EOF {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if n == 0 {
			break
		}
		chunk := buf[:n]
		nlIdx := bytes.IndexByte(chunk, '\n')

		if nlIdx < 0 {
			if n < matchLineLength {
				// Incomplete write: stop, cursor unchanged, retry next cycle.
				break
			}
			// Cap reached without a newline: discard and keep scanning.
			*cursor += int64(n)
			discarding = true
			continue
		}

		*cursor += int64(nlIdx) + 1
		if discarding {
			// This segment completes an oversized line that was already
			// being discarded; it never gets matched.
			discarding = false
			continue
		}
		processLine(string(chunk[:nlIdx]), ignoreRules, matchRules)
	}
	return nil
}

func processLine(line string, ignoreRules, matchRules []*model.MatchRule) {
	for _, r := range ignoreRules {
		if matchFires(r, line) {
			return
		}
	}
	for _, r := range matchRules {
		if matchFires(r, line) {
			r.AppendLog(line+"\n", matchLineLength)
		}
	}
}

// matchFires applies a pattern with XOR-negation polarity (spec §4.2 steps
// 7-8): the rule fires when (pattern matched) XOR (Not) is true.
func matchFires(r *model.MatchRule, line string) bool {
	var matched bool
	if r.Regexp != nil {
		matched = r.Regexp.MatchString(line)
	} else {
		matched = strings.Contains(line, r.Pattern)
	}
	return matched != r.Not
}
