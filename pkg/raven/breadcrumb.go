// breadcrumb.go keeps a bounded, request-scoped trail of operations that is
// copied into every event captured with the same context.

package raven

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxBreadcrumbs bounds a trail created without an explicit size.
const DefaultMaxBreadcrumbs = 100

type breadcrumbsKey struct{}

// breadcrumbTrail is a bounded ring buffer.
type breadcrumbTrail struct {
	mu       sync.Mutex
	records  []Breadcrumb
	maxSize  int
	writeIdx int
}

// add appends a record, evicting the oldest if the trail is full.
func (b *breadcrumbTrail) add(crumb Breadcrumb) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.records) < b.maxSize {
		b.records = append(b.records, crumb)
		return
	}
	b.records[b.writeIdx] = crumb
	b.writeIdx = (b.writeIdx + 1) % b.maxSize
}

// snapshot returns a copy of the trail, oldest first.
func (b *breadcrumbTrail) snapshot() []Breadcrumb {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.records) == 0 {
		return nil
	}
	result := make([]Breadcrumb, len(b.records))
	if len(b.records) < b.maxSize {
		copy(result, b.records)
		return result
	}
	// writeIdx points at the oldest record once the buffer has wrapped
	copy(result, b.records[b.writeIdx:])
	copy(result[len(b.records)-b.writeIdx:], b.records[:b.writeIdx])
	return result
}

// WithBreadcrumbs returns a context carrying a new, empty trail that keeps at
// most maxSize breadcrumbs. A non-positive maxSize uses DefaultMaxBreadcrumbs.
func WithBreadcrumbs(ctx context.Context, maxSize int) context.Context {
	if maxSize <= 0 {
		maxSize = DefaultMaxBreadcrumbs
	}
	return context.WithValue(ctx, breadcrumbsKey{}, &breadcrumbTrail{maxSize: maxSize})
}

// AddBreadcrumb records crumb on the trail carried by ctx.
// It reports false when ctx carries no trail.
func AddBreadcrumb(ctx context.Context, crumb Breadcrumb) bool {
	trail, ok := ctx.Value(breadcrumbsKey{}).(*breadcrumbTrail)
	if !ok {
		return false
	}
	if crumb.Timestamp.IsZero() {
		crumb.Timestamp = time.Now()
	}
	trail.add(crumb)
	return true
}

// BreadcrumbsFromContext returns a copy of the trail carried by ctx, oldest first.
func BreadcrumbsFromContext(ctx context.Context) []Breadcrumb {
	trail, ok := ctx.Value(breadcrumbsKey{}).(*breadcrumbTrail)
	if !ok {
		return nil
	}
	return trail.snapshot()
}
