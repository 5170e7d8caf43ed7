// Package htmldoc exposes the editable regions of an HTML page as
// region.Region handles.
//
// Pages are parsed with golang.org/x/net/html. An editable region is any
// element with contenteditable="true"; its declared kind comes from the
// data-type attribute and free-form attribute storage maps to data-*
// attributes (Data("originalValue") reads data-original-value).
package htmldoc
