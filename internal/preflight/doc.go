// Package preflight provides readiness checks for the filesystem paths and
// external binaries vidna depends on.
//
// The CLI "vidna doctor" command renders every result. Encode and decode call
// RunAll before starting so a missing output directory or ffmpeg binary fails
// before any frames are read.
package preflight
