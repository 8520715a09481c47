package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhruvkb/plsschema/pkg/plserrors"
)

// IDKey is the JSON Schema field holding the canonical identifier.
const IDKey = "$id"

// Document is a decoded schema document. Its root is always a mapping.
type Document struct {
	root *yaml.Node
}

// Decode decodes a single YAML document whose root is a mapping.
func Decode(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node

	err := dec.Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty document", plserrors.ErrInvalidDocument)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", plserrors.ErrDecodeYAML, err)
	}

	var extra yaml.Node

	err = dec.Decode(&extra)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, fmt.Errorf("%w: %w", plserrors.ErrDecodeYAML, err)
	default:
		return nil, fmt.Errorf("%w: expected a single document, found another at line %d",
			plserrors.ErrInvalidDocument, extra.Line)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", plserrors.ErrInvalidDocument)
		}

		root = root.Content[0]
	}

	root = resolve(root)
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: root must be a mapping, got %s", plserrors.ErrInvalidDocument, root.ShortTag())
	}

	return &Document{root: root}, nil
}

// ID returns the value of the `$id` field, which may come from a `<<` merge
// key. It fails with [plserrors.ErrMissingID] if the field is absent or not a
// string.
func (d *Document) ID() (string, error) {
	v := resolve(lookup(d.root, IDKey))
	if v == nil {
		return "", plserrors.ErrMissingID
	}

	if v.Kind != yaml.ScalarNode || v.ShortTag() != "!!str" {
		return "", fmt.Errorf("%w: %s is %s, not a string", plserrors.ErrMissingID, IDKey, v.ShortTag())
	}

	return v.Value, nil
}

// SetID sets the `$id` field, appending it if the root mapping does not set
// it explicitly. Merged-in mappings are left untouched.
func (d *Document) SetID(id string) {
	// Replace rather than edit the value node, which may be shared via an
	// anchor.
	v := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id}

	i := d.find(IDKey)
	if i < 0 {
		d.root.Content = append(d.root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: IDKey},
			v,
		)

		return
	}

	d.root.Content[i+1] = v
}

// RewriteIDSuffix replaces a trailing from in `$id` with to and returns the
// resulting value. An `$id` that does not end in from is left unchanged.
func (d *Document) RewriteIDSuffix(from, to string) (string, error) {
	id, err := d.ID()
	if err != nil {
		return "", err
	}

	trimmed, ok := strings.CutSuffix(id, from)
	if !ok {
		return id, nil
	}

	id = trimmed + to
	d.SetID(id)

	return id, nil
}

// Value returns the document as a JSON-compatible value.
func (d *Document) Value() (*Object, error) {
	v, err := toValue(d.root)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: root must be a mapping", plserrors.ErrInvalidDocument)
	}

	return obj, nil
}

// MarshalJSON encodes the document as compact JSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.MarshalIndentJSON("")
}

// MarshalIndentJSON encodes the document as JSON, indenting nested values
// with indent. HTML characters are not escaped and no trailing newline is
// written.
func (d *Document) MarshalIndentJSON(indent string) ([]byte, error) {
	obj, err := d.Value()
	if err != nil {
		return nil, err
	}

	b, err := appendJSON(nil, obj, indent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", plserrors.ErrJSONMarshal, err)
	}

	return b, nil
}

// find returns the index of the key node for key in the root mapping, or -1.
func (d *Document) find(key string) int {
	idx := -1

	for i := 0; i+1 < len(d.root.Content); i += 2 {
		k := resolve(d.root.Content[i])
		if k.Kind == yaml.ScalarNode && k.Value == key && k.ShortTag() == "!!str" {
			idx = i
		}
	}

	return idx
}

// lookup returns the value node for key in mapping m. Explicit pairs win over
// merged ones; among merged mappings the first one listed wins.
func lookup(m *yaml.Node, key string) *yaml.Node {
	var merges []*yaml.Node

	for i := 0; i+1 < len(m.Content); i += 2 {
		k := resolve(m.Content[i])
		if k.Kind != yaml.ScalarNode {
			continue
		}

		switch {
		case k.ShortTag() == mergeTag:
			merges = append(merges, resolve(m.Content[i+1]))
		case k.Value == key && k.ShortTag() == "!!str":
			return m.Content[i+1]
		}
	}

	for _, src := range merges {
		srcs := []*yaml.Node{src}
		if src.Kind == yaml.SequenceNode {
			srcs = src.Content
		}

		for _, s := range srcs {
			s = resolve(s)
			if s.Kind != yaml.MappingNode {
				continue
			}

			if v := lookup(s, key); v != nil {
				return v
			}
		}
	}

	return nil
}
