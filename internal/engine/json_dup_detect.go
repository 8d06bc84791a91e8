package engine

import (
	"errors"
	"io"
)

// CollectDuplicateKeys drains src and reports every repeated object key.
// maxIssues < 0 means unlimited; 0 disables collection; > 0 caps the result
// and appends a truncated marker.
func CollectDuplicateKeys(src TokenSource, maxIssues int) ([]SimpleIssue, error) {
	if maxIssues == 0 {
		return nil, nil
	}
	var issues []SimpleIssue
	truncated := false
	sink := func(si SimpleIssue) {
		if truncated {
			return
		}
		issues = append(issues, si)
		if maxIssues > 0 && len(issues) >= maxIssues {
			issues = append(issues, SimpleIssue{Code: "truncated", Path: "/", Message: "max issues reached"})
			truncated = true
		}
	}
	wrapped := WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupWarn, IssueSink: sink})
	for {
		_, err := wrapped.NextToken()
		if errors.Is(err, io.EOF) {
			return issues, nil
		}
		if err != nil {
			return issues, err
		}
	}
}
