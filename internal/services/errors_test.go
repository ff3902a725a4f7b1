package services_test

import (
	"errors"
	"testing"

	"chunklapse/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("permission denied")
	err := services.Wrap(services.ErrConfigWrite, "render", "update scene", "base-250101", cause)

	if !errors.Is(err, services.ErrConfigWrite) {
		t.Fatalf("expected ErrConfigWrite marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestIsJobScoped(t *testing.T) {
	cases := []struct {
		marker error
		want   bool
	}{
		{services.ErrLaunch, true},
		{services.ErrConfigWrite, true},
		{services.ErrCleanup, true},
		{services.ErrRename, true},
		{services.ErrCodecInit, false},
		{services.ErrFrameRead, false},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "stage", "op", "", nil)
		if got := services.IsJobScoped(err); got != tc.want {
			t.Fatalf("IsJobScoped(%v) = %v, want %v", tc.marker, got, tc.want)
		}
	}
}
