// Package schema holds the field schema registry: the fixed mapping from a
// process category to the ordered inputs rendered for it. Registries are
// validated when they are built, so renderers can trust every descriptor they
// receive. The built-in categories ship as an embedded YAML document; callers
// can load their own from YAML, JSON or TOML files, which are checked against
// an embedded JSON Schema before the semantic checks run.
package schema
