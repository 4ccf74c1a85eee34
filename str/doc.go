// Package str implements the managed string value behind the bridge.
//
// # Model
//
// A String owns a backing buffer of capacity bytes plus one hidden spare
// byte reserved for the C terminator. The logical length never exceeds
// the capacity; shrinking never deallocates, and growing the capacity is
// an explicit step (Expand) distinct from moving the logical length
// (Resize, SetLen).
//
// # Materialization
//
// Bytes and CString return borrowed views over the backing buffer. A view
// stays valid until the next mutating call on the same String: mutations
// may reallocate storage, and all of them reset the coderange cache.
// Callers that write into a materialized view directly must call Modify
// first and publish the new extent with SetLen.
//
// Views are never nil, even for empty strings.
//
// # Coderange
//
// The coderange classification (7-bit, valid, broken) is a lazily
// computed cache. Every mutation resets it to unknown; Coderange rescans
// on demand.
//
// # Concurrency
//
// Strings are not internally synchronized: no two mutating operations may
// run concurrently on the same String without external locking, matching
// the semantics foreign string callers already expect. Table and the
// intern pool are safe for concurrent use.
package str
