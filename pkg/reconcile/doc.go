// Package reconcile keeps the anchored objects of a scene in step with a note collection.
//
// A Reconciler is driven by ticks. Each tick diffs the notes against the anchors it
// owns and applies removals, then creations, then pose and content updates. Direct
// manipulation (drag, focus) goes through the same Reconciler and writes the final
// placement back into the note collection.
//
// A Reconciler is not safe for concurrent use. Loop confines it to one goroutine and
// serializes interaction callbacks with ticks.
package reconcile
