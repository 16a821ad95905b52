package agentssdk

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, KindError},
		{"plain", errors.New("boom"), KindError},
		{"deadline", fmt.Errorf("llm call: %w", context.DeadlineExceeded), KindTimeout},
		{"canceled", context.Canceled, KindCanceled},
		{"guardrail", errors.New("Input Guardrail tripped"), KindGuardrail},
		{"content policy", errors.New("response blocked: CONTENT POLICY"), KindGuardrail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
