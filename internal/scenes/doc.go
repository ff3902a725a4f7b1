// Package scenes reads and edits Chunky scene directories.
//
// A scene is a directory under the scenes dir holding a same-named JSON
// description file. The only field chunklapse ever mutates is the nested
// world.path string; everything else in the file belongs to Chunky. The
// package also owns the pre-render cleanup of octree and dump artifacts.
package scenes
