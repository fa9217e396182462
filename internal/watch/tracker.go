package watch

import (
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// RecomputePending returns, in catalog order, every exercise that does not
// look done plus every exercise whose path is a suffix of one of changed.
//
// The second rule re-checks a solved exercise the learner just edited, so a
// freshly introduced breakage is caught. With no changed paths the result is
// exactly the unsolved exercises.
//
// An error reading an exercise file is returned as is; the caller treats it
// as fatal.
func RecomputePending(exercises []*model.Exercise, changed []string) ([]*model.Exercise, error) {
	pending := make([]*model.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if touched(ex, changed) {
			pending = append(pending, ex)
			continue
		}
		done, err := ex.LooksDone()
		if err != nil {
			return nil, err
		}
		if !done {
			pending = append(pending, ex)
		}
	}
	return pending, nil
}

// NumDone is the progress counter shown during a pass over pending.
func NumDone(total int, pending []*model.Exercise) int {
	n := total - len(pending)
	if n < 0 {
		return 0
	}
	return n
}

// matchesAny reports whether at least one exercise owns one of changed.
func matchesAny(exercises []*model.Exercise, changed []string) bool {
	for _, ex := range exercises {
		if touched(ex, changed) {
			return true
		}
	}
	return false
}

func touched(ex *model.Exercise, changed []string) bool {
	for _, p := range changed {
		if pathEndsWith(p, ex.Path) {
			return true
		}
	}
	return false
}

// pathEndsWith reports whether the trailing components of path equal the
// components of suffix. "ab/main.go" therefore does not end with
// "b/main.go".
func pathEndsWith(path, suffix string) bool {
	if suffix == "" {
		return false
	}
	if filepath.IsAbs(suffix) {
		return filepath.Clean(path) == filepath.Clean(suffix)
	}

	pc := splitPath(path)
	sc := splitPath(suffix)
	if len(sc) > len(pc) {
		return false
	}
	off := len(pc) - len(sc)
	for i := range sc {
		if pc[off+i] != sc[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = filepath.ToSlash(filepath.Clean(p))
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}
