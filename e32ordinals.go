// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import "strings"

// DefFiles is a deffiles-style mapping from canonical DLL basename to a
// dense, ordinal-indexed array of symbol names (index i is ordinal i, as
// gen-e32def.py's `[d.get(i, ...) for i in range(max(d)+1)]` produces:
// entry i of the slice holds the missing-symbol placeholder when ordinal
// i was never declared in the source .def file). Populated by loading a
// generated table; an empty map disables resolution entirely.
type DefFiles map[string][]string

// aliasMap covers DLL basenames that were renamed after their .def files
// were generated; at minimum, "obex" was renamed to "irobex".
var aliasMap = map[string]string{
	"obex": "irobex",
}

// resolveOrdinals fills in b.Resolved from the package-level ordinal table,
// using the basename resolution rule of spec §4.6: strip extension and
// {uid} suffix, lowercase, then try exact match, then name+"u", then the
// alias map, then a prefix match.
func resolveOrdinals(b *E32ImportBlock) {
	b.Resolved = make([]string, len(b.Values))
	if len(globalDefFiles) == 0 {
		return
	}
	base := canonicalDLLBasename(b.DLLName)
	table, ok := lookupDefFile(base)
	if !ok {
		return
	}
	for i := range b.Values {
		ordinal := b.Ordinal(i)
		if ordinal == 0 || int(ordinal) >= len(table) {
			continue
		}
		b.Resolved[i] = table[ordinal]
	}
}

// lookupDefFile applies the basename resolution chain: exact match, then
// name+"u", then the alias map, then a prefix match against every known
// basename (longest match wins).
func lookupDefFile(base string) ([]string, bool) {
	if t, ok := globalDefFiles[base]; ok {
		return t, true
	}
	if t, ok := globalDefFiles[base+"u"]; ok {
		return t, true
	}
	if alias, ok := aliasMap[base]; ok {
		if t, ok := globalDefFiles[alias]; ok {
			return t, true
		}
	}
	var best string
	var bestTable []string
	for name, t := range globalDefFiles {
		if strings.HasPrefix(base, name) && len(name) > len(best) {
			best, bestTable = name, t
		}
	}
	if bestTable != nil {
		return bestTable, true
	}
	return nil, false
}

// globalDefFiles is the process-wide ordinal table, populated by
// LoadDefFiles from a generated table. It starts empty, so ordinal
// resolution is a no-op until loaded; the symbianutil command does not
// load one.
var globalDefFiles = DefFiles{}

// LoadDefFiles installs the ordinal table used by subsequent Parse calls'
// import resolution.
func LoadDefFiles(d DefFiles) {
	globalDefFiles = d
}
