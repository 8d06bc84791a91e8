package enhance

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/source/gojson"
	"github.com/useManner/json-tool/synth"
)

func js(t *testing.T, s string) any {
	t.Helper()
	v, err := gojson.DecodeString(s, jsontool.Budget{})
	require.NoError(t, err)
	return v
}

func seeded() *Enhancer {
	return New(synth.New(synth.WithRand(rand.New(rand.NewPCG(3, 4)))))
}

func TestLiteralDirective(t *testing.T) {
	e := seeded()
	data := js(t, `[{"id":1,"status":"active"},{"id":2}]`)
	for i := 0; i < 20; i++ {
		got := e.Enhance(data, jsontool.MapOf("status", "=locked")).([]any)
		for _, r := range got {
			s, _ := r.(*jsontool.Map).Get("status")
			assert.Equal(t, "locked", s)
		}
	}
	eq := e.Enhance(js(t, `{"a":1}`), jsontool.MapOf("a", "==x", "b", "="))
	assert.True(t, jsontool.Equal(js(t, `{"a":"=x","b":""}`), eq))
}

func TestGeneratedStatus(t *testing.T) {
	e := seeded()
	data := js(t, `[{},{},{},{},{},{},{},{}]`)
	for i := 0; i < 20; i++ {
		for _, r := range e.Enhance(data, jsontool.MapOf("status", "status")).([]any) {
			s, _ := r.(*jsontool.Map).Get("status")
			assert.True(t, slices.Contains(synth.Statuses, s.(string)), "status %v", s)
		}
	}
}

func TestPerRecordValuesAndStructure(t *testing.T) {
	e := seeded()
	data := js(t, `{"users":[{"n":1}],"rows":[[{"n":2}],[{"n":3}],"leaf",4]}`)
	before := jsontool.Clone(data)

	got := e.Enhance(data, jsontool.MapOf("id", "uuid", "tier", `["gold","silver"]`, "n", 0))
	top := got.(*jsontool.Map)
	assert.Equal(t, []string{"users", "rows", "id", "tier", "n"}, top.Keys())
	n, _ := top.Get("n")
	assert.Equal(t, int64(0), n)
	tier, _ := top.Get("tier")
	assert.Contains(t, []any{"gold", "silver"}, tier)

	rows, _ := top.Get("rows")
	inner := rows.([]any)
	a, _ := inner[0].([]any)[0].(*jsontool.Map).Get("n")
	assert.Equal(t, int64(2), a)
	assert.Equal(t, "leaf", inner[2])
	assert.Equal(t, int64(4), inner[3])
	assert.True(t, jsontool.Equal(before, data), "input mutated")

	ids := map[any]bool{}
	for _, r := range e.Enhance(js(t, `[{},{},{},{},{}]`), jsontool.MapOf("id", "uuid")).([]any) {
		id, _ := r.(*jsontool.Map).Get("id")
		ids[id] = true
	}
	assert.Len(t, ids, 5)

	assert.Equal(t, "plain", e.Enhance("plain", jsontool.MapOf("x", "=y")))
	assert.Equal(t, "unknownType", func() any {
		v, _ := e.Enhance(js(t, `{}`), jsontool.MapOf("x", "unknownType")).(*jsontool.Map).Get("x")
		return v
	}())
}

func TestParseSpec(t *testing.T) {
	_, err := ParseSpec(js(t, `["status"]`))
	assert.ErrorIs(t, err, jsontool.ErrSchema)
	m, err := ParseSpec(js(t, `{"status":"=locked"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}
