// Package snapshots finds, classifies, and renames the progress images the
// renderer writes, by filename pattern only. Renaming moves a file in place;
// snapshots are never copied.
package snapshots
