// Package playlist writes RetroArch playlists (".lpl") listing reconciled bundles.
//
// A playlist lives at <root>/playlists/<name>. An existing file is loaded so keys
// this package does not manage (display modes, default core) survive a rewrite;
// its items are always replaced.
package playlist
