// Package notification fans decision and track events out to registered
// handlers.
//
// The center is a typed, synchronous pub/sub: handlers run on the sender's
// goroutine in registration order. A panicking handler is logged and the
// remaining handlers still run. Registration returns
// an ID used to remove the handler later.
//
// # Usage
//
//	center := notification.NewCenter()
//	id := center.OnDecision(func(n notification.Decision) {
//		log.Printf("decided %s for %s", n.VariationKey, n.UserID)
//	})
//	defer center.RemoveDecision(id)
package notification
