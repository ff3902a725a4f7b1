// Package services holds shared error classification for the external tools
// chunklapse drives, plus one subpackage per tool client.
package services
