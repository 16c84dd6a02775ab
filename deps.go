package formula

import (
	"regexp"
	"strings"
)

// dependencyMatches reports whether a change to changedPath affects a
// field that reads dep. Three kinds of match:
//
//   - exact: dep "inventory.0.weight", changed "inventory.0.weight"
//   - prefix: one path is an ancestor of the other. Changing
//     "inventory" affects a reader of "inventory.0.weight", and
//     changing "inventory.0.weight" affects a reader of "inventory".
//   - wildcard: a "*" segment in dep matches any single segment of the
//     changed path: "inventory.*.weight" matches "inventory.3.weight"
//     but not "inventory.3.value".
//
// Path identity is all that is compared; values are never inspected.
func dependencyMatches(dep string, changedPath string) bool {
	if strings.Contains(dep, "*") {
		if wildcardMatches(dep, changedPath) {
			return true
		}
		// A change above the wildcard still affects the reader:
		// changing "inventory" invalidates "inventory.*.weight".
		head, _, _ := strings.Cut(dep, ".*")
		return head == changedPath || strings.HasPrefix(head, changedPath+".")
	}
	if dep == changedPath {
		return true
	}
	return strings.HasPrefix(changedPath, dep+".") ||
		strings.HasPrefix(dep, changedPath+".")
}

// wildcardMatches compiles the dependency into a regular expression with
// each "*" segment matching one path segment, anchored so that the
// changed path may also be a descendant of the pattern.
func wildcardMatches(dep string, changedPath string) bool {
	segments := strings.Split(dep, ".")
	quoted := make([]string, len(segments))
	for i, seg := range segments {
		if seg == "*" {
			quoted[i] = `[^.]+`
		} else {
			quoted[i] = regexp.QuoteMeta(seg)
		}
	}
	pattern := "^" + strings.Join(quoted, `\.`) + `(\..+)?$`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(changedPath)
}
