package raven

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExceptionsFromError_Nil(t *testing.T) {
	assert.Nil(t, exceptionsFromError(nil, inAppRules{}))
}

func TestExceptionsFromError_InnermostFirst(t *testing.T) {
	inner := errors.New("inner")
	err := fmt.Errorf("outer: %w", inner)

	chain := exceptionsFromError(err, inAppRules{})
	require.Len(t, chain, 2)

	assert.Equal(t, "inner", chain[0].Value)
	assert.Equal(t, "*errors.errorString", chain[0].Type)
	assert.Equal(t, "errors", chain[0].Module)

	assert.Equal(t, "outer: inner", chain[1].Value)
	assert.Equal(t, "*fmt.wrapError", chain[1].Type)
	assert.Equal(t, "fmt", chain[1].Module)
}

func TestExceptionsFromError_CaptureSiteStackOnOutermost(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New("inner"))

	chain := exceptionsFromError(err, inAppRules{})
	require.Len(t, chain, 2)

	assert.Empty(t, chain[0].Stacktrace)
	require.NotEmpty(t, chain[1].Stacktrace)

	newest := chain[1].Stacktrace[len(chain[1].Stacktrace)-1]
	assert.Equal(t, "TestExceptionsFromError_CaptureSiteStackOnOutermost", newest.Function)
	assert.Equal(t, "exception_test.go", newest.Filename)
	assert.NotZero(t, newest.Lineno)
}

func TestExceptionsFromError_PkgErrorsStack(t *testing.T) {
	err := pkgerrors.Wrap(newRootCause(), "loading config")

	chain := exceptionsFromError(err, inAppRules{})
	require.Len(t, chain, 2)

	assert.Equal(t, "root cause", chain[0].Value)
	require.NotEmpty(t, chain[0].Stacktrace)
	newest := chain[0].Stacktrace[len(chain[0].Stacktrace)-1]
	assert.Equal(t, "newRootCause", newest.Function)

	assert.Equal(t, "loading config: root cause", chain[1].Value)
	assert.Equal(t, "*errors.withMessage", chain[1].Type)
	assert.NotEmpty(t, chain[1].Stacktrace, "stack of the wrapping withStack is kept")
}

var errSentinel = errors.New("boom")

func TestExceptionsFromError_WithStackKeepsCauseType(t *testing.T) {
	err := pkgerrors.WithStack(errSentinel)

	chain := exceptionsFromError(err, inAppRules{})
	require.Len(t, chain, 1)

	assert.Equal(t, "boom", chain[0].Value)
	assert.Equal(t, "*errors.errorString", chain[0].Type)
	assert.Equal(t, "errors", chain[0].Module)
	require.NotEmpty(t, chain[0].Stacktrace, "stack moves from the wrapper to the cause")
	newest := chain[0].Stacktrace[len(chain[0].Stacktrace)-1]
	assert.Equal(t, "TestExceptionsFromError_WithStackKeepsCauseType", newest.Function)
}

func TestExceptionsFromError_WithStackOverPkgErrorsKeepsInnerStack(t *testing.T) {
	err := pkgerrors.WithStack(newRootCause())

	chain := exceptionsFromError(err, inAppRules{})
	require.Len(t, chain, 1)

	assert.Equal(t, "*errors.fundamental", chain[0].Type)
	require.NotEmpty(t, chain[0].Stacktrace)
	newest := chain[0].Stacktrace[len(chain[0].Stacktrace)-1]
	assert.Equal(t, "newRootCause", newest.Function)
}

func newRootCause() error {
	return pkgerrors.New("root cause")
}

func TestExceptionsFromError_JoinedFollowsFirstBranch(t *testing.T) {
	first := errors.New("first")
	err := errors.Join(first, errors.New("second"))

	chain := exceptionsFromError(err, inAppRules{})
	require.Len(t, chain, 2)
	assert.Equal(t, "first", chain[0].Value)
	assert.Equal(t, "first\nsecond", chain[1].Value)
}

func TestExceptionsFromError_BoundedDepth(t *testing.T) {
	var err error = errors.New("base")
	for i := 0; i < maxChainDepth*2; i++ {
		err = fmt.Errorf("level %d: %w", i, err)
	}

	chain := exceptionsFromError(err, inAppRules{})
	assert.Len(t, chain, maxChainDepth)
	assert.True(t, strings.HasPrefix(chain[len(chain)-1].Value, fmt.Sprintf("level %d:", maxChainDepth*2-1)))
}

func TestErrorFromRecovered(t *testing.T) {
	err := errorFromRecovered("boom")
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, "panic", errorTypeName(err))
	assert.Empty(t, errorModule(err))

	orig := errors.New("an error")
	assert.Same(t, orig, errorFromRecovered(orig))
}
