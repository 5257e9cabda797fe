// Package orchestrator assembles a live page: it renders the page shell
// through a page renderer, parses it into a dom.Document and binds the dynamic
// form and, when slides are present, the slider to it.
package orchestrator
