package synth_test

import (
	"math/rand/v2"
	"testing"

	"github.com/davecgh/go-spew/spew"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/detect"
	"github.com/useManner/json-tool/synth"
)

// Anything the engine generates survives a JSON encode and auto-detection.
func TestGeneratedValuesRoundTrip(t *testing.T) {
	templates := []string{
		`{"id":"uuid","name":"name","tags":["word"],"profile":{"age":"age","price":"price","ok":"boolean","none":"null"}}`,
		`[{"email":"email","status":"status","ip":"ip"}]`,
		`{"type":"object","properties":{"n":{"type":"number","minimum":-5,"maximum":5},"s":{"type":"string","format":"date"},"a":{"type":"array","items":{"type":"integer"}}},"required":["n","s","a"]}`,
	}
	e := synth.New(synth.WithRand(rand.New(rand.NewPCG(7, 11))))
	for _, tmpl := range templates {
		for i := 0; i < 25; i++ {
			v, err := e.GenerateJSON(tmpl)
			if err != nil {
				t.Fatalf("generate %s: %v", tmpl, err)
			}
			b, err := jsontool.EncodeJSON(v, jsontool.EncodeOptions{Indent: 2})
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			res, err := detect.Detect(string(b))
			if err != nil {
				t.Fatalf("detect %s: %v", b, err)
			}
			if !jsontool.Equal(res.Value, v) {
				t.Fatalf("round trip mismatch:\n%s\n%s", spew.Sdump(v), spew.Sdump(res.Value))
			}
		}
	}
}
