package export

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"

	jsontool "github.com/useManner/json-tool"
)

// YAML renders v as a YAML document, keeping mapping order. Strings that
// would read back as another type are quoted.
func YAML(v any) ([]byte, error) {
	n, err := yamlNode(v)
	if err != nil {
		return nil, exportError("yaml", err)
	}
	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, exportError("yaml", err)
	}
	if err := enc.Close(); err != nil {
		return nil, exportError("yaml", err)
	}
	return buf.Bytes(), nil
}

func scalarNode(tag, value string) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tag, Value: value}
}

func yamlNode(v any) (*yamlv3.Node, error) {
	switch t := v.(type) {
	case nil:
		return scalarNode("!!null", "null"), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(t)), nil
	case string:
		return scalarNode("!!str", t), nil
	case int64:
		return scalarNode("!!int", strconv.FormatInt(t, 10)), nil
	case float64:
		switch {
		case math.IsNaN(t):
			return scalarNode("!!float", ".nan"), nil
		case math.IsInf(t, 1):
			return scalarNode("!!float", ".inf"), nil
		case math.IsInf(t, -1):
			return scalarNode("!!float", "-.inf"), nil
		}
		return scalarNode("!!float", jsontool.FormatScalar(t)), nil
	case []any:
		n := &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: "!!seq"}
		if len(t) == 0 {
			n.Style = yamlv3.FlowStyle
		}
		for _, item := range t {
			c, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *jsontool.Map:
		n := &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: "!!map"}
		if t.Len() == 0 {
			n.Style = yamlv3.FlowStyle
		}
		var err error
		t.Range(func(k string, item any) bool {
			var c *yamlv3.Node
			if c, err = yamlNode(item); err != nil {
				return false
			}
			n.Content = append(n.Content, scalarNode("!!str", k), c)
			return true
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	switch n := jsontool.Normalize(v).(type) {
	case int64, float64, []any, *jsontool.Map:
		return yamlNode(n)
	}
	return nil, fmt.Errorf("cannot encode %T", v)
}
