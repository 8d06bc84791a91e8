package export

import (
	"fmt"
	"strconv"
	"strings"

	jsontool "github.com/useManner/json-tool"
)

// Tree renders v as an indented outline, one node per line. Containers show
// their kind and size; scalars show their JSON text.
//
//	(root): object{2}
//	  name: "ann"
//	  tags: array[1]
//	    0: "a"
func Tree(v any) string {
	var b strings.Builder
	treeNode(&b, "(root)", v, 0)
	return b.String()
}

func treeNode(b *strings.Builder, label string, v any, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(label)
	b.WriteString(": ")
	switch t := v.(type) {
	case *jsontool.Map:
		fmt.Fprintf(b, "object{%d}\n", t.Len())
		t.Range(func(k string, item any) bool {
			treeNode(b, k, item, depth+1)
			return true
		})
	case []any:
		fmt.Fprintf(b, "array[%d]\n", len(t))
		for i, item := range t {
			treeNode(b, strconv.Itoa(i), item, depth+1)
		}
	default:
		text, err := jsontool.EncodeJSON(v, jsontool.EncodeOptions{})
		if err != nil {
			text = []byte(fmt.Sprint(v))
		}
		b.Write(text)
		b.WriteByte('\n')
	}
}
