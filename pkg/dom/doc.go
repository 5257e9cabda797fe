// Package dom provides the small document surface the form and slide
// components operate on: element lookup by id or class, element creation,
// class and attribute mutation, and synchronous event dispatch. Documents are
// backed by golang.org/x/net/html nodes so they can be parsed from rendered
// templates and written back out as HTML.
//
// A Document is not safe for concurrent use. Handlers run to completion on the
// goroutine that calls Dispatch; callers sharing a document across goroutines
// must serialise access themselves.
package dom
