// Package i18n localizes issue codes. English and Simplified Chinese are
// built in.
package i18n

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	jsontool "github.com/useManner/json-tool"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "format" or "kind").
type Translator interface {
	Message(code string, data map[string]string) string
}

var dict = map[string]map[string]string{
	"en": {
		jsontool.CodeUnrecognizedFormat: "unrecognized input format",
		jsontool.CodeSchemaError:        "invalid schema",
		jsontool.CodeTransformParam:     "invalid transform parameters ({kind})",
		jsontool.CodeParseError:         "parse error ({format})",
		jsontool.CodeTooBig:             "input too large",
		jsontool.CodeTooDeep:            "nesting too deep",
		jsontool.CodeDuplicateKey:       "duplicate key",
		jsontool.CodeQueryError:         "invalid JSONPath expression",
		jsontool.CodeExportError:        "export failed ({format})",
		jsontool.CodeTruncated:          "truncated",
	},
	"zh": {
		jsontool.CodeUnrecognizedFormat: "无法识别的输入格式",
		jsontool.CodeSchemaError:        "Schema 无效",
		jsontool.CodeTransformParam:     "转换参数无效（{kind}）",
		jsontool.CodeParseError:         "解析错误（{format}）",
		jsontool.CodeTooBig:             "输入过大",
		jsontool.CodeTooDeep:            "嵌套层级过深",
		jsontool.CodeDuplicateKey:       "键重复",
		jsontool.CodeQueryError:         "JSONPath 表达式无效",
		jsontool.CodeExportError:        "导出失败（{format}）",
		jsontool.CodeTruncated:          "已截断",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

// Message returns the template for code with {name} placeholders filled from
// data. Placeholders without data are dropped along with their brackets.
func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dict[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", v)
	}
	for _, br := range [][2]string{{" (", ")"}, {"（", "）"}} {
		if i := strings.Index(tmpl, br[0]+"{"); i >= 0 {
			if j := strings.Index(tmpl[i:], "}"+br[1]); j >= 0 {
				tmpl = tmpl[:i] + tmpl[i+j+len("}"+br[1]):]
			}
		}
	}
	return tmpl
}

// New returns the built-in Translator for lang. Tags like "zh-CN" or
// "zh_CN.UTF-8" select Chinese; anything unknown falls back to English.
func New(lang string) Translator {
	l := strings.ToLower(lang)
	if i := strings.IndexAny(l, "-_."); i >= 0 {
		l = l[:i]
	}
	if _, ok := dict[l]; !ok {
		l = "en"
	}
	return dictTranslator{lang: l}
}

// Languages lists the built-in language tags.
func Languages() []string {
	out := make([]string, 0, len(dict))
	for k := range dict {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Describe renders err for display. Issues are rendered one per line as
// "path: message: detail"; other errors use their own text.
func Describe(tr Translator, err error) string {
	if err == nil {
		return ""
	}
	if tr == nil {
		tr = New("en")
	}
	iss, ok := jsontool.AsIssues(err)
	if !ok {
		return err.Error()
	}
	lines := make([]string, 0, len(iss))
	for _, it := range iss {
		data := make(map[string]string, len(it.Params))
		for k, v := range it.Params {
			data[k] = fmt.Sprint(v)
		}
		line := tr.Message(it.Code, data)
		if it.Path != "" && it.Path != "/" {
			line = it.Path + ": " + line
		}
		if detail := detailOf(it); detail != "" && detail != line {
			line += ": " + detail
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func detailOf(it jsontool.Issue) string {
	if it.Cause != nil && !errors.Is(it.Cause, jsontool.ErrUnrecognizedFormat) {
		return it.Cause.Error()
	}
	if it.Code == jsontool.CodeUnrecognizedFormat {
		return ""
	}
	return it.Message
}
