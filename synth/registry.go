package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	jsontool "github.com/useManner/json-tool"
)

// Generator produces one value for a semantic type.
type Generator func(r *rand.Rand, now time.Time) any

// Registry maps semantic type names to generators. Lookups ignore case. A
// Registry is never modified after construction.
type Registry struct {
	gens map[string]Generator
}

// NewRegistry builds a registry from entries. Names are folded to lower case.
func NewRegistry(entries map[string]Generator) *Registry {
	r := &Registry{gens: make(map[string]Generator, len(entries))}
	for k, g := range entries {
		r.gens[strings.ToLower(k)] = g
	}
	return r
}

// With returns a copy of r with name bound to g.
func (r *Registry) With(name string, g Generator) *Registry {
	out := &Registry{gens: make(map[string]Generator, len(r.gens)+1)}
	for k, v := range r.gens {
		out.gens[k] = v
	}
	out.gens[strings.ToLower(name)] = g
	return out
}

// Lookup returns the generator registered for name.
func (r *Registry) Lookup(name string) (Generator, bool) {
	g, ok := r.gens[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

// Names lists the registered names in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.gens))
	for k := range r.gens {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Statuses is the fixed enumeration produced by the "status" type.
var Statuses = []string{"active", "inactive", "pending", "locked"}

var defaultRegistry = NewRegistry(map[string]Generator{
	"string":   pick("张三", "李四", "测试数据", "示例"),
	"name":     pick("李雷", "韩梅梅", "小红", "王大锤"),
	"number":   intIn(1, 100),
	"int":      intIn(1, 100),
	"float":    floatIn(0, 100),
	"boolean":  func(r *rand.Rand, _ time.Time) any { return r.IntN(2) == 0 },
	"null":     func(*rand.Rand, time.Time) any { return nil },
	"date":     func(_ *rand.Rand, now time.Time) any { return now.Format(time.DateOnly) },
	"time":     func(_ *rand.Rand, now time.Time) any { return now.Format(time.TimeOnly) },
	"datetime": func(_ *rand.Rand, now time.Time) any { return now.UTC().Format(time.RFC3339) },
	"email":    func(r *rand.Rand, _ time.Time) any { return fmt.Sprintf("user%d@example.com", 1+r.IntN(100)) },
	"uuid":     newUUID,
	"url":      func(r *rand.Rand, _ time.Time) any { return fmt.Sprintf("https://example.com/page/%d", 1+r.IntN(100)) },
	"avatar":   func(r *rand.Rand, _ time.Time) any { return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", 1+r.IntN(70)) },
	"phone": func(r *rand.Rand, _ time.Time) any {
		prefix := []string{"3", "5", "7", "8", "9"}[r.IntN(5)]
		return fmt.Sprintf("1%s%d", prefix, 100000000+r.IntN(900000000))
	},
	"address": pick("北京市朝阳区三里屯街道", "上海市浦东新区张江路", "广州市天河区体育西路", "深圳市南山区科技园"),
	"color":   func(r *rand.Rand, _ time.Time) any { return fmt.Sprintf("#%06x", r.IntN(1<<24)) },
	"status":  pick(Statuses...),
	"ip": func(r *rand.Rand, _ time.Time) any {
		return fmt.Sprintf("%d.%d.%d.%d", 1+r.IntN(254), r.IntN(256), r.IntN(256), 1+r.IntN(254))
	},
	"company": pick("示例科技有限公司", "Acme Corp", "Globex", "Initech"),
	"word":    pick("alpha", "bravo", "charlie", "delta", "echo"),
	"text":    pick("这是一段示例文本。", "Lorem ipsum dolor sit amet.", "The quick brown fox jumps over the lazy dog."),
	"age":     intIn(18, 80),
	"price":   floatIn(1, 1000),
	"id":      intIn(1, 10000),
})

// DefaultRegistry returns the built-in semantic types.
func DefaultRegistry() *Registry { return defaultRegistry }

func pick[T any](choices ...T) Generator {
	return func(r *rand.Rand, _ time.Time) any { return choices[r.IntN(len(choices))] }
}

func intIn(lo, hi int64) Generator {
	return func(r *rand.Rand, _ time.Time) any { return lo + r.Int64N(hi-lo+1) }
}

func floatIn(lo, hi float64) Generator {
	return func(r *rand.Rand, _ time.Time) any { return round2(lo + r.Float64()*(hi-lo)) }
}

func round2(f float64) any { return jsontool.Number(math.Round(f*100) / 100) }

// randReader adapts a *rand.Rand to io.Reader so uuid generation follows the
// engine's seed.
type randReader struct{ r *rand.Rand }

func (rr randReader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := rr.r.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

func newUUID(r *rand.Rand, _ time.Time) any {
	id, err := uuid.NewRandomFromReader(randReader{r})
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
