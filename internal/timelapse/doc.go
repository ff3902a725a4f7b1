// Package timelapse assembles a scene's annotated snapshots into one
// chronologically ordered video, stamping each frame with the in-game day
// of the world it came from.
package timelapse
