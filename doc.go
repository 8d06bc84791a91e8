// Package jsontool provides:
//
// - An ordered StructuredValue model shared by every component (Map, Equal, Clone)
// - A stable error model via Issues (path, code, message)
// - Format identifiers and decode budgets used by the detector and decoders
//
// Design policy:
// - Keep only the value model and error model in the root package.
// - Put format decoders under source/, the detection cascade under detect/,
//   template generation under synth/, transforms under transform/, the
//   enhancer under enhance/, serializers under export/ and the CLI under
//   cmd/jsontool.
// - Every core operation is a pure in-memory computation; callers serialize
//   access themselves.
//
// Typical usage:
//
//	res, err := detect.Detect(raw)
//	out := transform.Apply(res.Value, steps)
//	text, err := export.JSON(out, export.Options{Indent: 2})
package jsontool
