// Package raven captures errors, panics and messages and delivers them as
// JSON events to a Sentry-compatible error tracker.
//
// # Core Components
//
//   - Event: the canonical captured occurrence with level, exception chain, tags and contexts
//   - Client: builds events from every capture shape and sends them without blocking the caller
//   - Transport: destination for serialized packets (http, cxdb, stderr, multi)
//   - Scrubber: redacts sensitive data with fail-closed behavior
//
// The noop package provides a Client that records nothing, for tests and
// disabled configurations.
//
// # Quick Start
//
//	transport, err := httptransport.FromEnv()
//	if err != nil {
//	    return err
//	}
//	client := raven.NewClient(
//	    append(raven.OptionsFromEnv(),
//	        raven.WithTransport(transport),
//	        raven.WithDefaultScrubbing(),
//	    )...,
//	)
//	defer client.Close()
//
//	id := client.CaptureException(ctx, err).Wait()
//
// # Results
//
// Every capture returns a *Pending. Events resolve to their ID once the
// transport accepted them, or "" when nothing was recorded: the client is
// disabled or closed, the event was sampled out or dropped, or the send
// failed. Capture calls never return errors. Only programmer mistakes, such
// as capturing a nil error, panic.
//
// # Exception Chains
//
// Errors are unwrapped with Unwrap. The chain is sent root cause first and
// outermost wrapper last. Stack traces from github.com/pkg/errors are used
// when present; otherwise the capture-site stack is attached to the
// outermost link.
package raven
