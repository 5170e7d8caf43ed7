package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yndnr/pagekeep/internal/core/region"
	"github.com/yndnr/pagekeep/internal/htmldoc"
	"github.com/yndnr/pagekeep/internal/storage"
)

// resumePage has one region of each kind plus gauges in every default
// context. Region order: name, skills, english, go, misc.
const resumePage = `<!DOCTYPE html>
<html><body>
<h1 class="title" id="name" contenteditable="true">Jane <b>Doe</b><span class="material-wave-ripple"></span></h1>
<ul class="skills" contenteditable="true" data-type="list"><li>Go</li><li>SQL</li></ul>
<div class="languages">
  <span class="language-box__level" contenteditable="true" data-type="number">fluent</span>
</div>
<div class="skills-box">
  <span class="level" contenteditable="true" data-type="number">0.8</span>
</div>
<span class="misc" contenteditable="true" data-type="number"></span>
</body></html>`

const (
	idxName = iota
	idxSkills
	idxEnglish
	idxGo
	idxMisc
)

func parsePage(t *testing.T, page string) (*htmldoc.Document, []region.Region) {
	t.Helper()
	doc, err := htmldoc.ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc, doc.Regions()
}

func dataOf(t *testing.T, r region.Region, key string) string {
	t.Helper()
	v, ok := r.Data(key)
	if !ok {
		t.Fatalf("%s: data %q not set", r.TagName(), key)
	}
	return v
}

// flakyStore fails writes on demand and counts successful ones.
type flakyStore struct {
	*storage.MemoryStore

	mu      sync.Mutex
	failSet bool
	sets    int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet {
		return errors.New("quota exceeded")
	}
	s.sets++
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *flakyStore) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

func (s *flakyStore) setFailing(fail bool) {
	s.mu.Lock()
	s.failSet = fail
	s.mu.Unlock()
}
