// Package notification implements the core of the service: a capped,
// per-user notification log and the kind-based dispatch policy that routes
// inbound events to the log and/or the outbound email sink.
//
// # Architecture
//
// The package is layered:
//
//   - MergeAndCap: the pure merge/sort/truncate function every upsert
//     expresses, independent of any backend
//   - Storage: the per-user log contract (Get, List, Upsert) with an
//     in-memory implementation and a MongoDB one
//   - Dispatcher: the routing table from event kind to side effects, plus
//     the read-flip and list operations
//
// # Retention semantics
//
// A user's log retains at most N notifications (default 3), newest first by
// timestamp. Every upsert merges the incoming notification into the retained
// set, re-sorts descending and truncates to N. Retention is capacity-based,
// not read-based: an unread notification can be evicted by newer writes, at
// which point its ID is no longer reachable.
//
// # Dispatch policy
//
// The routing table is the entire business rule:
//
//	registration  -> email only
//	new_message   -> store only
//	new_post      -> store only
//	new_login     -> store and email
//
// Unknown kinds are rejected by ParseKind at decode time, so Dispatch is
// total over the enumeration. The two effects of new_login are attempted in
// order store->email with no atomicity or rollback between them.
//
// # Basic usage
//
//	storage := notification.NewMemoryStorage(notification.DefaultRetentionCap)
//	dispatcher := notification.NewDispatcher(storage, sender)
//
//	err := dispatcher.Dispatch(ctx, notification.Event{
//	    UserID: "662f4be6a594321f98f444e1",
//	    Kind:   notification.KindNewMessage,
//	})
//
// For production, wire NewMongoStorage with a database from pkg/mongo.
package notification
