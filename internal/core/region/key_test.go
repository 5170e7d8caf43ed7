package region

import (
	"testing"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

func TestDeriveKey_Format(t *testing.T) {
	tests := []struct {
		name   string
		region *fakeRegion
		index  int
		want   domain.RegionKey
	}{
		{
			name:   "classes sorted and joined",
			region: &fakeRegion{tag: "DIV", classes: []string{"title", "card"}, id: "name"},
			index:  2,
			want:   "div-card title-name-2",
		},
		{
			name:   "sentinels when empty",
			region: &fakeRegion{tag: "p"},
			index:  0,
			want:   "p-no-class-no-id-0",
		},
		{
			name:   "only transient classes",
			region: &fakeRegion{tag: "span", classes: []string{"editing", "progress-mode", "material-wave-active"}},
			index:  7,
			want:   "span-no-class-no-id-7",
		},
		{
			name:   "duplicate classes collapse",
			region: &fakeRegion{tag: "li", classes: []string{"a", "a", "b"}},
			index:  1,
			want:   "li-a b-no-id-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveKey(tt.region, tt.index); got != tt.want {
				t.Errorf("DeriveKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveKey_StableUnderTransientClasses(t *testing.T) {
	r := &fakeRegion{tag: "div", classes: []string{"skills-box__item", "ripple"}, id: "x"}
	base := DeriveKey(r, 3)

	for _, transient := range []string{"editing", "progress-mode", "material-wave", "material-wave-ripple", "material-wave-focus"} {
		r.AddClass(transient)
		if got := DeriveKey(r, 3); got != base {
			t.Errorf("adding %q changed key: %q != %q", transient, got, base)
		}
	}
	for _, transient := range []string{"editing", "material-wave-ripple"} {
		r.RemoveClass(transient)
		if got := DeriveKey(r, 3); got != base {
			t.Errorf("removing %q changed key: %q != %q", transient, got, base)
		}
	}
}

func TestDeriveKey_ChangesOnIdentity(t *testing.T) {
	base := &fakeRegion{tag: "div", classes: []string{"a"}, id: "x"}
	baseKey := DeriveKey(base, 0)

	variants := map[string]func() domain.RegionKey{
		"id": func() domain.RegionKey { return DeriveKey(&fakeRegion{tag: "div", classes: []string{"a"}, id: "y"}, 0) },
		"class": func() domain.RegionKey {
			return DeriveKey(&fakeRegion{tag: "div", classes: []string{"a", "b"}, id: "x"}, 0)
		},
		"index": func() domain.RegionKey { return DeriveKey(base, 1) },
		"tag":   func() domain.RegionKey { return DeriveKey(&fakeRegion{tag: "p", classes: []string{"a"}, id: "x"}, 0) },
	}
	for name, fn := range variants {
		if got := fn(); got == baseKey {
			t.Errorf("changing %s kept key %q", name, got)
		}
	}
}

func TestIsTransientClass(t *testing.T) {
	tests := map[string]bool{
		"editing":              true,
		"progress-mode":        true,
		"material-wave":        true,
		"material-wave-ripple": true,
		"edit":                 false,
		"progress":             false,
		"wave":                 false,
		"ripple":               false,
	}
	for class, want := range tests {
		if got := IsTransientClass(class); got != want {
			t.Errorf("IsTransientClass(%q) = %v, want %v", class, got, want)
		}
	}
}
