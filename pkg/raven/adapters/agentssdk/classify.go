package agentssdk

import (
	"context"
	"errors"
	"strings"
)

// Error kinds reported in the "error.kind" tag.
const (
	KindError     = "error"
	KindTimeout   = "timeout"
	KindCanceled  = "canceled"
	KindGuardrail = "guardrail"
)

var guardrailPatterns = []string{
	"guardrail",
	"content policy",
	"safety filter",
	"blocked by policy",
}

// classifyError determines the error kind. Guardrail detection is a
// message heuristic.
func classifyError(err error) string {
	if err == nil {
		return KindError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	msg := strings.ToLower(err.Error())
	for _, p := range guardrailPatterns {
		if strings.Contains(msg, p) {
			return KindGuardrail
		}
	}
	return KindError
}
