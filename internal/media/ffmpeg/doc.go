// Package ffmpeg connects the codec to real video files through the ffmpeg
// and ffprobe executables.
//
// Probe reads stream metadata as JSON. Source decodes a video into raw bgr24
// frames on ffmpeg's stdout, and Sink pipes raw bgr24 frames into an ffmpeg
// process that writes the output container (MJPEG in AVI by default).
// Each process drains stderr on its own goroutine so failures carry the tail
// of ffmpeg's diagnostics.
package ffmpeg
