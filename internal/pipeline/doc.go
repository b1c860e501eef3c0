// Package pipeline drives the per-item processing flow and its bounded
// fan-out over the manifest.
//
// One item moves through download, classification, metadata embedding, and
// timestamp finalization. Every failure is caught at the item boundary and
// converted into a reported outcome; nothing an item does can abort the
// batch or disturb another item. The orchestrator multiplexes items over a
// fixed pool of workers, which also caps memory and connection usage.
package pipeline
