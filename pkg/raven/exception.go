// exception.go walks an error's cause chain into wire exception values.

package raven

import (
	"fmt"
	"reflect"

	pkgerrors "github.com/pkg/errors"
)

const maxChainDepth = 32

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// panicValue carries a recovered value that is not an error.
type panicValue struct {
	value any
}

func (p *panicValue) Error() string {
	return fmt.Sprintf("%v", p.value)
}

// errorFromRecovered turns a recovered panic value into an error.
func errorFromRecovered(recovered any) error {
	if err, ok := recovered.(error); ok {
		return err
	}
	return &panicValue{value: recovered}
}

// exceptionsFromError returns the chain of err, innermost cause first.
// Links carrying a github.com/pkg/errors stack keep it; when no link does,
// the capture-site stack is attached to the outermost link.
func exceptionsFromError(err error, rules inAppRules) []Exception {
	if err == nil {
		return nil
	}

	var chain []Exception
	hasStack := false
	for e := err; e != nil && len(chain) < maxChainDepth; e = unwrapFirst(e) {
		ex := Exception{
			Type:   errorTypeName(e),
			Value:  e.Error(),
			Module: errorModule(e),
		}
		if st, ok := e.(stackTracer); ok {
			pcs := make([]uintptr, len(st.StackTrace()))
			for i, f := range st.StackTrace() {
				pcs[i] = uintptr(f)
			}
			ex.Stacktrace = framesFromPCs(pcs, rules, false)
			hasStack = hasStack || len(ex.Stacktrace) > 0
		}

		// Wrappers that only add a stack repeat their cause's message. The
		// cause keeps its own type; it inherits the wrapper's stack if it
		// has none.
		if n := len(chain); n > 0 && chain[n-1].Value == ex.Value {
			if len(ex.Stacktrace) == 0 {
				ex.Stacktrace = chain[n-1].Stacktrace
			}
			chain[n-1] = ex
			continue
		}
		chain = append(chain, ex)
	}

	if !hasStack {
		chain[0].Stacktrace = callerFrames(rules)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// unwrapFirst follows Unwrap() error, or the first branch of Unwrap() []error.
func unwrapFirst(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if e != nil {
				return e
			}
		}
	}
	return nil
}

func errorTypeName(err error) string {
	if _, ok := err.(*panicValue); ok {
		return "panic"
	}
	return reflect.TypeOf(err).String()
}

func errorModule(err error) string {
	if _, ok := err.(*panicValue); ok {
		return ""
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath()
}
