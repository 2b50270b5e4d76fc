package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Paths address nodes inside top-level documents. A document root is
// "rooms/<code>" for rooms and "categories/categories/<key>" for catalog
// entries; anything below the root is a field path within that document.
func splitPath(path string) (docKey string, sub []string, err error) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	rootLen := 2
	if segs[0] == "categories" {
		rootLen = 3
	}
	if len(segs) < rootLen || segs[len(segs)-1] == "" {
		return "", nil, fmt.Errorf("store: path %q does not address a document", path)
	}
	return strings.Join(segs[:rootLen], ":"), segs[rootLen:], nil
}

// valueAt walks sub inside doc. Missing intermediate nodes yield nil.
func valueAt(doc interface{}, sub []string) interface{} {
	cur := doc
	for _, seg := range sub {
		m, ok := cur.(Document)
		if !ok {
			return nil
		}
		cur = m[seg]
	}
	return cur
}

// withValueAt returns doc with the node at sub replaced by val, creating
// intermediate objects as needed. A nil val deletes the node.
func withValueAt(doc interface{}, sub []string, val interface{}) interface{} {
	if len(sub) == 0 {
		return val
	}
	m, ok := doc.(Document)
	if !ok {
		m = Document{}
	}
	child := withValueAt(m[sub[0]], sub[1:], val)
	if child == nil {
		delete(m, sub[0])
	} else {
		m[sub[0]] = child
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// normalize round-trips a value through JSON so that every store backend
// hands subscribers the same shapes (maps and float64 numbers).
func normalize(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
