package spec

import (
	"fmt"
	"strings"

	"github.com/pygen-dev/pygen/pkg/document"
)

// Resolve returns a copy of the document with every internal $ref replaced by
// an expanded copy of its target. Expanded copies are what lets translation
// match a schema back to its registered name by content instead of by path.
//
// References that participate in a cycle cannot be expanded and are left as
// bare $ref nodes. A cyclic reference is left unexpanded at EVERY occurrence,
// registry and use sites alike, so content hashes of the surrounding copies
// still agree no matter where the copy was made.
func Resolve(doc *document.Map) (*document.Map, error) {
	r := &resolver{root: doc}
	if err := r.findCycles(); err != nil {
		return nil, err
	}
	resolved, err := r.resolve(doc)
	if err != nil {
		return nil, err
	}
	return resolved.(*document.Map), nil
}

type resolver struct {
	root   *document.Map
	edges  map[string][]string
	cyclic map[string]struct{}
}

func (r *resolver) resolve(node any) (any, error) {
	switch n := node.(type) {
	case *document.Map:
		if ref := n.String("$ref"); ref != "" {
			return r.expand(ref)
		}
		out := document.NewMap()
		for _, key := range n.Keys() {
			v, _ := n.Get(key)
			rv, err := r.resolve(v)
			if err != nil {
				return nil, err
			}
			out.Set(key, rv)
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(n))
		for _, v := range n {
			rv, err := r.resolve(v)
			if err != nil {
				return nil, err
			}
			out = append(out, rv)
		}
		return out, nil
	default:
		return node, nil
	}
}

func (r *resolver) expand(ref string) (any, error) {
	if err := checkInternal(ref); err != nil {
		return nil, err
	}
	if _, cyclic := r.cyclic[ref]; cyclic {
		stub := document.NewMap()
		stub.Set("$ref", ref)
		return stub, nil
	}

	target, ok := r.lookup(ref)
	if !ok {
		return nil, &Error{
			Code:    ValidationError,
			Message: fmt.Sprintf("unresolvable reference %q: target does not exist", ref),
		}
	}
	return r.resolve(target)
}

// findCycles builds the reference graph (which refs appear inside each ref's
// target) and marks every ref that can reach itself.
func (r *resolver) findCycles() error {
	r.edges = map[string][]string{}
	r.cyclic = map[string]struct{}{}

	pending := collectRefs(r.root)
	for len(pending) > 0 {
		ref := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, done := r.edges[ref]; done {
			continue
		}
		if err := checkInternal(ref); err != nil {
			return err
		}
		target, ok := r.lookup(ref)
		if !ok {
			return &Error{
				Code:    ValidationError,
				Message: fmt.Sprintf("unresolvable reference %q: target does not exist", ref),
			}
		}
		out := collectRefs(target)
		r.edges[ref] = out
		pending = append(pending, out...)
	}

	for ref := range r.edges {
		if r.reaches(ref, ref, map[string]struct{}{}) {
			r.cyclic[ref] = struct{}{}
		}
	}
	return nil
}

// reaches reports whether goal is reachable from any successor of from.
func (r *resolver) reaches(from, goal string, visited map[string]struct{}) bool {
	for _, next := range r.edges[from] {
		if next == goal {
			return true
		}
		if _, seen := visited[next]; seen {
			continue
		}
		visited[next] = struct{}{}
		if r.reaches(next, goal, visited) {
			return true
		}
	}
	return false
}

// collectRefs gathers the $ref strings directly reachable in a subtree,
// without following them.
func collectRefs(node any) []string {
	var refs []string
	switch n := node.(type) {
	case *document.Map:
		if ref := n.String("$ref"); ref != "" {
			return []string{ref}
		}
		for _, key := range n.Keys() {
			v, _ := n.Get(key)
			refs = append(refs, collectRefs(v)...)
		}
	case []any:
		for _, v := range n {
			refs = append(refs, collectRefs(v)...)
		}
	}
	return refs
}

func checkInternal(ref string) error {
	if strings.HasPrefix(ref, "#/") {
		return nil
	}
	return &Error{
		Code:    ValidationError,
		Message: fmt.Sprintf("unresolvable reference %q: only internal references are supported", ref),
	}
}

// lookup walks a JSON Pointer from the document root. Pointer segments use
// the RFC 6901 escapes ~1 for / and ~0 for ~.
func (r *resolver) lookup(ref string) (any, bool) {
	var node any = r.root
	for _, segment := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		m, ok := node.(*document.Map)
		if !ok {
			return nil, false
		}
		node, ok = m.Get(segment)
		if !ok {
			return nil, false
		}
	}
	return node, true
}
