// Package transformer rewrites an analyzed program in place: it shortens
// binding names to the smallest collision-free identifiers and applies
// small statement and literal cleanups.
package transformer

import (
	"fmt"

	"github.com/tdewolff/parse/v2/js"

	"github.com/tomisinteazer/rjscompiler/analyzer"
)

// head characters may start an identifier, tail characters may continue one
var headChars = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_$")
var tailChars = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_$0123456789")

// globalNames are realm-provided bindings a generated name must not shadow,
// since unrenamed code may still reference them.
var globalNames = []string{
	"undefined", "NaN", "Infinity", "globalThis", "arguments", "eval",
	"window", "document", "self", "global", "console",
	"Object", "Array", "Function", "String", "Number", "Boolean", "Symbol",
	"BigInt", "Math", "Date", "RegExp", "JSON", "Promise", "Proxy", "Reflect",
	"Error", "TypeError", "RangeError", "SyntaxError", "EvalError", "URIError",
	"Map", "Set", "WeakMap", "WeakSet",
}

type renamer struct {
	reserved  map[string]struct{}
	final     map[*analyzer.Scope]map[string]bool
	keptBelow map[*analyzer.Scope]map[string]bool
	budget    int
}

// Rename assigns every renamable symbol in the table the shortest name that
// cannot collide with a name visible at any of its uses. Scopes are processed
// parents first so that a child never captures a name an ancestor already
// handed out.
func Rename(table *analyzer.Table) error {
	reserved := make(map[string]struct{}, len(js.Keywords)+len(globalNames))
	for name := range js.Keywords {
		reserved[name] = struct{}{}
	}
	for _, name := range globalNames {
		reserved[name] = struct{}{}
	}
	r := &renamer{
		reserved:  reserved,
		final:     map[*analyzer.Scope]map[string]bool{},
		keptBelow: map[*analyzer.Scope]map[string]bool{},
		budget:    10000 + 4*len(table.Symbols),
	}
	r.collectKept(table.Root)
	return r.renameScope(table.Root)
}

// collectKept gathers, per scope, the names declared in its subtree that
// must keep their original spelling.
func (r *renamer) collectKept(scope *analyzer.Scope) map[string]bool {
	kept := map[string]bool{}
	for _, sym := range scope.Declared {
		if sym.KeepName {
			kept[sym.Name] = true
		}
	}
	for _, child := range scope.Children {
		for name := range r.collectKept(child) {
			kept[name] = true
		}
	}
	r.keptBelow[scope] = kept
	return kept
}

func (r *renamer) renameScope(scope *analyzer.Scope) error {
	final := map[string]bool{}
	r.final[scope] = final

	var renamable []*analyzer.Symbol
	for _, sym := range scope.Declared {
		if sym.KeepName {
			final[sym.Name] = true
		} else {
			renamable = append(renamable, sym)
		}
	}
	sortByUses(renamable)

	for _, sym := range renamable {
		name, err := r.pick(scope, sym)
		if err != nil {
			return err
		}
		final[name] = true
		apply(sym, name)
	}
	for _, child := range scope.Children {
		if err := r.renameScope(child); err != nil {
			return err
		}
	}
	return nil
}

// sortByUses orders symbols by descending use count, breaking ties by
// declaration order, so the most used symbols get the shortest names.
func sortByUses(symbols []*analyzer.Symbol) {
	// insertion sort keeps this allocation-free for the common small scopes
	for i := 1; i < len(symbols); i++ {
		for j := i; 0 < j && less(symbols[j], symbols[j-1]); j-- {
			symbols[j], symbols[j-1] = symbols[j-1], symbols[j]
		}
	}
}

func less(a, b *analyzer.Symbol) bool {
	if a.Uses() != b.Uses() {
		return b.Uses() < a.Uses()
	}
	return a.ID < b.ID
}

func (r *renamer) pick(scope *analyzer.Scope, sym *analyzer.Symbol) (string, error) {
	for i := 0; i < r.budget; i++ {
		name := nameAt(i)
		if !r.occupied(scope, name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("rename: no available name for %q in %v scope %d", sym.Name, scope.Type, scope.ID)
}

func (r *renamer) occupied(scope *analyzer.Scope, name string) bool {
	if _, ok := r.reserved[name]; ok {
		return true
	}
	for t := scope; t != nil; t = t.Parent {
		if final, ok := r.final[t]; ok && final[name] {
			return true
		}
	}
	return r.keptBelow[scope][name]
}

// nameAt returns the i-th identifier in the shortest-first name sequence.
func nameAt(i int) string {
	if i < len(headChars) {
		return string(headChars[i : i+1])
	}
	i -= len(headChars)
	n := 2
	count := len(headChars) * len(tailChars)
	for count <= i {
		i -= count
		count *= len(tailChars)
		n++
	}
	name := make([]byte, n)
	tail := 1
	for k := 1; k < n; k++ {
		tail *= len(tailChars)
	}
	name[0] = headChars[i/tail]
	i %= tail
	for k := n - 1; 1 <= k; k-- {
		name[k] = tailChars[i%len(tailChars)]
		i /= len(tailChars)
	}
	return string(name)
}

// apply rewrites the declaration and every reference of sym to name.
func apply(sym *analyzer.Symbol, name string) {
	b := []byte(name)
	sym.Name = name
	if sym.Decl != nil {
		sym.Decl.Name = b
	}
	for _, ref := range sym.Refs {
		ref.Ident.Name = b
	}
}
