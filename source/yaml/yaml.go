// Package yaml decodes YAML documents into StructuredValues by walking the
// yaml.v3 node tree, so mapping key order survives the conversion.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	yamlv3 "gopkg.in/yaml.v3"

	jsontool "github.com/useManner/json-tool"
)

// DuplicateKeyError reports a repeated mapping key with both positions.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// ErrEmpty is returned when the stream holds no document.
var ErrEmpty = errors.New("yaml: empty document stream")

// maxAliasExpansions bounds alias dereferences per document.
const maxAliasExpansions = 10000

// Decode parses data. A single document yields its value; a multi-document
// stream yields a sequence with one element per document.
func Decode(data []byte, b jsontool.Budget) (any, error) {
	if b.MaxBytes > 0 && int64(len(data)) > b.MaxBytes {
		return nil, jsontool.NewIssue(jsontool.CodeTooBig, "max bytes exceeded", nil)
	}
	docs, err := DecodeAll(bytes.NewReader(data), b)
	if err != nil {
		return nil, err
	}
	switch len(docs) {
	case 0:
		return nil, ErrEmpty
	case 1:
		return docs[0], nil
	}
	return docs, nil
}

// DecodeAll reads every document from r.
func DecodeAll(r io.Reader, b jsontool.Budget) ([]any, error) {
	dec := yamlv3.NewDecoder(r)
	var out []any
	for {
		var root yamlv3.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		w := &walker{budget: b}
		v, err := w.node(&root, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// IsScalar reports whether v is neither a mapping nor a sequence.
func IsScalar(v any) bool {
	switch v.(type) {
	case *jsontool.Map, []any:
		return false
	}
	return true
}

type walker struct {
	budget  jsontool.Budget
	aliases int
}

func (w *walker) node(n *yamlv3.Node, depth int) (any, error) {
	switch n.Kind {
	case yamlv3.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.node(n.Content[0], depth)
	case yamlv3.AliasNode:
		w.aliases++
		if w.aliases > maxAliasExpansions {
			return nil, jsontool.NewIssue(jsontool.CodeTooBig, "too many alias expansions", nil)
		}
		return w.node(n.Alias, depth)
	case yamlv3.MappingNode:
		if err := w.enter(n, depth); err != nil {
			return nil, err
		}
		return w.mapping(n, depth+1)
	case yamlv3.SequenceNode:
		if err := w.enter(n, depth); err != nil {
			return nil, err
		}
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.node(c, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yamlv3.ScalarNode:
		return scalar(n)
	}
	return nil, nil
}

func (w *walker) enter(n *yamlv3.Node, depth int) error {
	if depth+1 > w.budget.DepthLimit() {
		return jsontool.Issues{{Path: fmt.Sprintf("line %d", n.Line), Code: jsontool.CodeTooDeep, Message: "max depth exceeded"}}
	}
	return nil
}

// mapping builds an ordered map. Merge keys ("<<") contribute entries first;
// explicit keys then override them in place.
func (w *walker) mapping(n *yamlv3.Node, depth int) (any, error) {
	m := jsontool.NewMap(len(n.Content) / 2)
	var merges []*yamlv3.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Tag == "!!merge" {
			merges = append(merges, n.Content[i+1])
		}
	}
	for _, src := range merges {
		if err := w.merge(m, src, depth); err != nil {
			return nil, err
		}
	}
	first := make(map[string][2]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Tag == "!!merge" {
			continue
		}
		key, err := keyText(k)
		if err != nil {
			return nil, err
		}
		if pos, dup := first[key]; dup && w.budget.OnDuplicate == jsontool.DuplicateError {
			return nil, &DuplicateKeyError{Key: key, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
		}
		first[key] = [2]int{k.Line, k.Column}
		val, err := w.node(v, depth)
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}
	return m, nil
}

func (w *walker) merge(dst *jsontool.Map, src *yamlv3.Node, depth int) error {
	if src.Kind == yamlv3.SequenceNode {
		for _, c := range src.Content {
			if err := w.merge(dst, c, depth); err != nil {
				return err
			}
		}
		return nil
	}
	v, err := w.node(src, depth)
	if err != nil {
		return err
	}
	mm, ok := v.(*jsontool.Map)
	if !ok {
		return fmt.Errorf("yaml: merge value at line %d is not a mapping", src.Line)
	}
	mm.Range(func(k string, val any) bool {
		if !dst.Has(k) {
			dst.Set(k, val)
		}
		return true
	})
	return nil
}

func keyText(k *yamlv3.Node) (string, error) {
	for k.Kind == yamlv3.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind != yamlv3.ScalarNode {
		return "", fmt.Errorf("yaml: unsupported non-scalar key at line %d", k.Line)
	}
	v, err := scalar(k)
	if err != nil {
		return "", err
	}
	return jsontool.FormatScalar(v), nil
}

// scalar resolves a scalar node by its tag. Tags the model cannot represent
// (timestamps, binary, custom) keep their source text.
func scalar(n *yamlv3.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return n.Value, nil
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return jsontool.Number(f), nil
		}
		return n.Value, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return n.Value, nil
		}
		return jsontool.Number(f), nil
	}
	return n.Value, nil
}
