// Package compiler turns hardware descriptors and programs into the typed
// values the scheduler consumes.
//
// Platforms are read from CUE or JSON (cuelang.org/go) in the descriptor's
// native key layout, or from YAML (gopkg.in/yaml.v3) in the typed layout of
// ir.Platform. All "unknown key" and "malformed value" handling lives here;
// the resource package only ever sees a typed ir.Platform.
package compiler
