package region

import "github.com/yndnr/pagekeep/internal/core/domain"

// Identity exposes the structural attributes a key is derived from.
type Identity interface {
	TagName() string
	ID() string
	Classes() []string
}

// ContentNode is an immediate child of a region.
type ContentNode interface {
	IsElement() bool
	IsText() bool
	TextContent() string
}

// Region is a handle to one editable content area.
type Region interface {
	Identity

	// Kind is the declared kind of the region.
	Kind() domain.Kind

	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)
	// HasAncestorClass reports whether any ancestor carries the class.
	HasAncestorClass(name string) bool

	InnerHTML() string
	SetInnerHTML(markup string)
	TextContent() string
	SetTextContent(text string)
	Children() []ContentNode

	// Data, SetData and DeleteData access free-form attribute storage,
	// keyed in camelCase (e.g. "originalValue").
	Data(key string) (string, bool)
	SetData(key, value string)
	DeleteData(key string)

	SetStyleProperty(name, value string)
	RemoveStyleProperty(name string)
}
