// Package chunky supervises headless invocations of the Chunky renderer.
//
// Each render is one launcher process. Two pipe readers feed a bounded
// hand-off channel and a single forwarder drains it to the subscriber, so a
// slow log consumer never stalls the renderer's own pipes. There is no
// mid-render cancellation; Wait returns the natural exit code.
package chunky
