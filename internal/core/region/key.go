package region

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

// Transient classes are added and removed at runtime by the ripple effect,
// the edit session and gauge presentation. They never take part in a key.
const (
	RippleClassPrefix = "material-wave"
	RippleClass       = "material-wave-ripple"
	EditingClass      = "editing"
	ProgressClass     = "progress-mode"
)

const (
	noClass      = "no-class"
	noID         = "no-id"
	keySeparator = "-"
)

// TransientClasses lists exact class names excluded from keys.
var TransientClasses = []string{EditingClass, ProgressClass}

// TransientClassPrefixes lists class name prefixes excluded from keys.
var TransientClassPrefixes = []string{RippleClassPrefix}

// IsTransientClass reports whether a class is runtime decoration.
func IsTransientClass(name string) bool {
	for _, c := range TransientClasses {
		if name == c {
			return true
		}
	}
	for _, p := range TransientClassPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// IdentityClasses returns the non-transient classes, sorted and deduplicated.
func IdentityClasses(classes []string) []string {
	out := make([]string, 0, len(classes))
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if c == "" || IsTransientClass(c) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// DeriveKey computes the key of a region at the given traversal index:
//
//	<tag>-<sorted identity classes | no-class>-<id | no-id>-<index>
//
// Collect and restore must walk regions in the same order.
func DeriveKey(r Identity, index int) domain.RegionKey {
	classes := strings.Join(IdentityClasses(r.Classes()), " ")
	if classes == "" {
		classes = noClass
	}
	id := r.ID()
	if id == "" {
		id = noID
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(r.TagName()))
	b.WriteString(keySeparator)
	b.WriteString(classes)
	b.WriteString(keySeparator)
	b.WriteString(id)
	b.WriteString(keySeparator)
	b.WriteString(strconv.Itoa(index))
	return domain.RegionKey(b.String())
}
