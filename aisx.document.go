package aisx

import (
	"errors"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Document path formatting
const (
	docPathRoot    = "$"
	docPathField   = "."
	docPathIndexLo = "["
	docPathIndexHi = "]"
)

// ParseDocument decodes a YAML (or JSON) element document into a renderable value.
//
// Scalars are text, sequences are arrays, and a mapping describes one node
// through exactly one of these keys:
//
//	tag: section            # literal tag, with optional attrs and children
//	fragment: [...]         # children concatenated without a tag
//	component: Greeting     # registered component, with optional props and children
//	pending: value          # pending value, settled after optional delay (e.g. "50ms")
//	reject: message         # pending value that fails, after optional delay
//
// Attribute order follows the document.
func (e *Engine) ParseDocument(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewDocumentError(ErrMsgDocumentInvalid, docPathRoot, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return e.decodeNode(doc.Content[0], docPathRoot)
}

func (e *Engine) decodeNode(n *yaml.Node, path string) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return e.decodeNode(n.Alias, path)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, NewDocumentError(ErrMsgDocumentInvalid, path, err)
		}
		return v, nil
	case yaml.SequenceNode:
		return e.decodeList(n, path)
	case yaml.MappingNode:
		return e.decodeMapping(n, path)
	default:
		return nil, NewDocumentError(ErrMsgDocumentInvalid, path, nil)
	}
}

func (e *Engine) decodeList(n *yaml.Node, path string) ([]any, error) {
	items := make([]any, 0, len(n.Content))
	for i, child := range n.Content {
		v, err := e.decodeNode(child, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// decodeChildren accepts a sequence of children or a single child.
func (e *Engine) decodeChildren(n *yaml.Node, path string) ([]any, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind == yaml.SequenceNode {
		return e.decodeList(n, path)
	}
	v, err := e.decodeNode(n, path)
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}

func (e *Engine) decodeAttrs(n *yaml.Node, path string) (Attrs, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, NewDocumentError(ErrMsgDocumentAttrs, path, nil)
	}
	attrs := make(Attrs, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		v, err := e.decodeNode(n.Content[i+1], fieldPath(path, key))
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, A(key, v))
	}
	return attrs, nil
}

func (e *Engine) decodeMapping(n *yaml.Node, path string) (any, error) {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}

	shape := ""
	for _, key := range []string{DocKeyTag, DocKeyFragment, DocKeyComponent, DocKeyPending, DocKeyReject} {
		if _, ok := fields[key]; !ok {
			continue
		}
		if shape != "" {
			return nil, NewDocumentError(ErrMsgDocumentNodeShape, path, nil)
		}
		shape = key
	}

	switch shape {
	case DocKeyTag:
		attrs, err := e.decodeAttrs(fields[DocKeyAttrs], fieldPath(path, DocKeyAttrs))
		if err != nil {
			return nil, err
		}
		children, err := e.decodeChildren(fields[DocKeyChildren], fieldPath(path, DocKeyChildren))
		if err != nil {
			return nil, err
		}
		return El(fields[DocKeyTag].Value, attrs, children...), nil

	case DocKeyFragment:
		children, err := e.decodeChildren(fields[DocKeyFragment], fieldPath(path, DocKeyFragment))
		if err != nil {
			return nil, err
		}
		return Frag(children...), nil

	case DocKeyComponent:
		name := fields[DocKeyComponent].Value
		c, ok := e.LookupComponent(name)
		if !ok {
			return nil, NewComponentNotFoundError(name, e.ListComponents())
		}
		props, err := e.decodeAttrs(fields[DocKeyProps], fieldPath(path, DocKeyProps))
		if err != nil {
			return nil, err
		}
		children, err := e.decodeChildren(fields[DocKeyChildren], fieldPath(path, DocKeyChildren))
		if err != nil {
			return nil, err
		}
		return c.El(props, children...), nil

	case DocKeyPending:
		delay, err := decodeDelay(fields[DocKeyDelay], fieldPath(path, DocKeyDelay))
		if err != nil {
			return nil, err
		}
		v, err := e.decodeNode(fields[DocKeyPending], fieldPath(path, DocKeyPending))
		if err != nil {
			return nil, err
		}
		if delay <= 0 {
			return Resolved(v), nil
		}
		return After(delay, v), nil

	case DocKeyReject:
		delay, err := decodeDelay(fields[DocKeyDelay], fieldPath(path, DocKeyDelay))
		if err != nil {
			return nil, err
		}
		cause := errors.New(fields[DocKeyReject].Value)
		if delay <= 0 {
			return Rejected(cause), nil
		}
		f := NewFuture()
		time.AfterFunc(delay, func() { f.Complete(nil, cause) })
		return f, nil

	default:
		return nil, NewDocumentError(ErrMsgDocumentNodeShape, path, nil)
	}
}

func decodeDelay(n *yaml.Node, path string) (time.Duration, error) {
	if n == nil {
		return 0, nil
	}
	d, err := time.ParseDuration(n.Value)
	if err != nil {
		return 0, NewDocumentError(ErrMsgDocumentDelay, path, err)
	}
	return d, nil
}

func fieldPath(path, key string) string {
	return path + docPathField + key
}

func indexPath(path string, i int) string {
	return path + docPathIndexLo + strconv.Itoa(i) + docPathIndexHi
}
