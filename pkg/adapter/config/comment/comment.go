// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package comment keeps the comments of a parsed YAML configuration
// file, so they can be written back after the settings are normalized
// and marshalled again (e.g., by the "config show" command).
package comment

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Comment holds the comments of a mapping or sequence node and,
// recursively, of its nested mapping and sequence nodes.
type Comment struct {
	kind  yaml.Kind
	keys  map[string]*entry // mapping nodes, by key
	items []*entry          // sequence nodes, by index
}

// entry holds the comments of one key/value pair. For sequence items,
// the key and value are the same node.
type entry struct {
	head      string
	keyLine   string
	valueLine string
	nested    *Comment
}

// LoadFrom collects the head and line comments of the n mapping or
// sequence node and its descendants.
func LoadFrom(n *yaml.Node) (*Comment, error) {
	c := &Comment{kind: n.Kind}
	switch n.Kind {
	case yaml.MappingNode:
		c.keys = make(map[string]*entry, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			e, err := load(k, v)
			if err != nil {
				return nil, fmt.Errorf("loading %q comments: %w", k.Value, err)
			}
			c.keys[k.Value] = e
		}
	case yaml.SequenceNode:
		for i, v := range n.Content {
			e, err := load(v, v)
			if err != nil {
				return nil, fmt.Errorf("loading item %d comments: %w", i, err)
			}
			c.items = append(c.items, e)
		}
	default:
		return nil, errors.New("node must be a mapping or a sequence")
	}
	return c, nil
}

func load(k, v *yaml.Node) (*entry, error) {
	e := &entry{
		head:      k.HeadComment,
		keyLine:   k.LineComment,
		valueLine: v.LineComment,
	}
	switch v.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		nested, err := LoadFrom(v)
		if err != nil {
			return nil, err
		}
		e.nested = nested
	}
	return e, nil
}

// SaveInto writes the comments of c into the n node. Keys which are
// not known to c are left untouched, and so are nested nodes whose
// kind has changed since the comments were loaded. A nil c is a no-op.
func (c *Comment) SaveInto(n *yaml.Node) error {
	if c == nil {
		return nil
	}
	if n.Kind != c.kind {
		return fmt.Errorf("expected node kind %d, got %d", c.kind, n.Kind)
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if e, ok := c.keys[k.Value]; ok {
				e.save(k, v)
			}
		}
	case yaml.SequenceNode:
		for i, v := range n.Content {
			if i >= len(c.items) {
				break
			}
			c.items[i].save(v, v)
		}
	}
	return nil
}

func (e *entry) save(k, v *yaml.Node) {
	k.HeadComment = e.head
	k.LineComment = e.keyLine
	v.LineComment = e.valueLine
	if e.nested != nil && e.nested.kind == v.Kind {
		_ = e.nested.SaveInto(v) // kinds match, so it cannot fail
	}
}
