// Package renderqueue coordinates sequential renders of a scene across a
// list of world saves. One controller owns the queue; at most one render
// process runs at a time, and every job outcome is absorbed so the queue
// always drains back to idle.
package renderqueue
