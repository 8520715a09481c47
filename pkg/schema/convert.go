package schema

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dhruvkb/plsschema/pkg/plserrors"
)

const (
	nullTag      = "!!null"
	boolTag      = "!!bool"
	intTag       = "!!int"
	floatTag     = "!!float"
	timestampTag = "!!timestamp"
	mergeTag     = "!!merge"

	isoMillis = "2006-01-02T15:04:05.000Z"
)

// toValue converts a YAML node into a JSON-compatible value. Mappings become
// [*Object], sequences become []any.
func toValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}

		return toValue(n.Content[0])

	case yaml.AliasNode:
		return toValue(n.Alias)

	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := toValue(c)
			if err != nil {
				return nil, err
			}

			arr = append(arr, v)
		}

		return arr, nil

	case yaml.MappingNode:
		obj := NewObject()
		if err := fillObject(obj, n); err != nil {
			return nil, err
		}

		return obj, nil

	case yaml.ScalarNode:
		return scalarValue(n)
	}

	return nil, fmt.Errorf("%w: unsupported node kind %d at line %d", plserrors.ErrInvalidDocument, n.Kind, n.Line)
}

// fillObject sets the pairs of mapping n on obj. Explicit keys must be unique
// and override merged keys; merged keys never override keys already set.
func fillObject(obj *Object, n *yaml.Node) error {
	explicit := map[string]bool{}

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := resolve(n.Content[i])
		valNode := n.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeTag {
			if err := merge(obj, valNode); err != nil {
				return err
			}

			continue
		}

		key, err := keyString(keyNode)
		if err != nil {
			return err
		}

		if explicit[key] {
			return fmt.Errorf("%w: duplicate key %q at line %d", plserrors.ErrInvalidDocument, key, keyNode.Line)
		}

		explicit[key] = true

		v, err := toValue(valNode)
		if err != nil {
			return err
		}

		obj.Set(key, v)
	}

	return nil
}

// merge expands a `<<` value, which is a mapping or a sequence of mappings.
// Earlier mappings in a sequence take precedence over later ones.
func merge(obj *Object, n *yaml.Node) error {
	n = resolve(n)

	switch n.Kind {
	case yaml.MappingNode:
		src := NewObject()
		if err := fillObject(src, n); err != nil {
			return err
		}

		for _, k := range src.Keys() {
			if obj.Has(k) {
				continue
			}

			v, _ := src.Get(k)
			obj.Set(k, v)
		}

		return nil

	case yaml.SequenceNode:
		for _, c := range n.Content {
			if resolve(c).Kind != yaml.MappingNode {
				return fmt.Errorf("%w: merge sequence entries must be mappings (line %d)",
					plserrors.ErrInvalidDocument, c.Line)
			}

			if err := merge(obj, c); err != nil {
				return err
			}
		}

		return nil
	}

	return fmt.Errorf("%w: cannot merge non-mapping value at line %d", plserrors.ErrInvalidDocument, n.Line)
}

func scalarValue(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case nullTag:
		return nil, nil

	case boolTag:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", plserrors.ErrDecodeYAML, n.Line, err)
		}

		return b, nil

	case intTag:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", plserrors.ErrDecodeYAML, n.Line, err)
		}

		return v, nil

	case floatTag:
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", plserrors.ErrDecodeYAML, n.Line, err)
		}

		// JSON has no representation for these.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil
		}

		return f, nil

	case timestampTag:
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", plserrors.ErrDecodeYAML, n.Line, err)
		}

		return t.UTC().Format(isoMillis), nil
	}

	return n.Value, nil
}

func keyString(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%w: unsupported non-scalar key at line %d", plserrors.ErrInvalidDocument, n.Line)
	}

	v, err := scalarValue(n)
	if err != nil {
		return "", err
	}

	switch t := v.(type) {
	case nil:
		return "null", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	default:
		return fmt.Sprint(t), nil
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	return n
}
