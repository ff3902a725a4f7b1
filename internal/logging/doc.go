// Package logging assembles structured slog loggers and formatting helpers
// shared by the chunklapse commands and queue machinery.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes attr helpers plus a no-op logger so wiring
// code and tests never need hand-rolled slog setup.
package logging
