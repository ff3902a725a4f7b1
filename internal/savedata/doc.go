// Package savedata reads the fragments of a Minecraft save chunklapse needs:
// the world age from level.dat, used to derive per-frame day labels.
package savedata
