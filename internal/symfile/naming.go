package symfile

import (
	"path/filepath"
	"strings"
)

const encodingSuffix = "_encoding.txt"

// EncodingName returns "<video>_<tag>_encoding.txt" for the video's base
// name, with the zstd extension appended when compress is set.
func EncodingName(video, tag string, compress bool) string {
	name := filepath.Base(video) + "_" + tag + encodingSuffix
	if compress {
		name += CompressedExt
	}
	return name
}

// DecodedName derives "<stem>_<tag>_<mutation>.<container>" from an encoding
// path. Encodings that do not follow EncodingName keep their stem.
func DecodedName(encoding, mutation, container string) string {
	name := filepath.Base(encoding)
	if Compressed(name) {
		name = name[:len(name)-len(CompressedExt)]
	}
	if stem, ok := strings.CutSuffix(name, encodingSuffix); ok {
		name = stem
		if i := strings.LastIndex(stem, "_"); i > 0 {
			video, tag := stem[:i], stem[i+1:]
			name = strings.TrimSuffix(video, filepath.Ext(video)) + "_" + tag
		}
	} else {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name + "_" + mutation + "." + strings.TrimPrefix(container, ".")
}

// IsEncoding reports whether path names a symbol file rather than a video.
func IsEncoding(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, CompressedExt)
	return strings.HasSuffix(name, ".txt")
}
