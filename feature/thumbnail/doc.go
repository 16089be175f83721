// Package thumbnail downloads libretro thumbnails for playlist entries.
//
// Images are stored under <root>/thumbnails/<playlist>/<category>/<label>.png
// where the label has the characters RetroArch cannot use in file names replaced
// by "_". Files already present are left alone. A failed download is logged and
// the remaining images are still fetched.
package thumbnail
