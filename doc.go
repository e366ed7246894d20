// Package flagkit is an experimentation and feature-flag SDK core: given a
// user, a parsed datafile snapshot, and runtime attributes, it decides which
// variation the user is bucketed into and ships decision and conversion
// events to a collection endpoint without blocking the caller.
//
// The Client is the entry point. It runs the layered decision pipeline
// (forced variation, whitelist, sticky bucketing, remote CMAB, audience-gated
// hash bucketing), publishes notifications, and feeds the batching event
// processor. Datafile parsing, transport, and refresh scheduling are the
// host's responsibility; the SDK consumes a datafile.ProjectConfig and an
// event.Dispatcher.
//
// # Usage
//
//	client, err := flagkit.NewClient(cfg,
//		flagkit.WithProfileService(profile.NewMemoryStore()),
//		flagkit.WithEventDispatcher(myDispatcher),
//	)
//	if err != nil {
//		// handle
//	}
//	defer client.Close(context.Background())
//
//	d, err := client.Decide(ctx, datafile.User{
//		ID:         "user-42",
//		Attributes: map[string]any{"plan": "pro"},
//	}, "checkout_redesign", decision.IncludeReasons)
//	if d.Enabled {
//		// serve the new checkout
//	}
//
// Decisions are deterministic: the same user, flag and datafile always
// produce the same variation, across calls and across processes.
package flagkit
