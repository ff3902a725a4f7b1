// Package worlds discovers Minecraft world saves and derives their render
// order from trailing -YYMMDD date tokens in the directory names.
package worlds
