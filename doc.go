// Package spatialnotes is the Composition Root for the spatial notes engine.
//
// It connects the note collection (Domain Layer) with the infrastructure
// adapters (a JSON notes file on disk) and with a scene host, where every note
// is shown as an anchored panel kept in sync by the reconciler.
//
// Features:
//
//   - **Note Collection**: Ordered, concurrency-safe notes with categories and sizes.
//   - **Safe Persistence**: One JSON file, written atomically and saved 0.5s after the last change.
//   - **Anchor Reconciliation**: Each tick creates, moves, re-renders, and removes anchors so the
//     scene mirrors the collection.
//   - **Camera Aware**: Unplaced notes appear in front of the observer; Focus brings a note close.
//   - **Extensible**: Any engine can host the scene by implementing `scene.Host`.
//
// Usage:
//
//	session, err := spatialnotes.Open("./vault",
//		spatialnotes.WithLogger(logger),
//		spatialnotes.WithWatch(true),
//	)
//	if err := session.Start(ctx); err != nil { ... }
//	defer session.Close(ctx)
//
//	// Interactions run on the reconciler's goroutine
//	session.Do(ctx, func(r *reconcile.Reconciler) { r.Focus(id, reconcile.DefaultFocusDistance) })
package spatialnotes
