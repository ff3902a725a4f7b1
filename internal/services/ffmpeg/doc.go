// Package ffmpeg builds and runs the ffmpeg invocation that turns annotated
// snapshot frames into a single video file.
//
// Frames are piped as PNG over stdin (image2pipe) at the configured frame
// rate; stderr is captured so encode failures surface the tool's own
// diagnostics. A failed session removes its partial output file.
package ffmpeg
