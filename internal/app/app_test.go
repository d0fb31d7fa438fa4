package app

import (
	"context"
	"errors"
	"testing"

	"github.com/Faultbox/tux-viewer/internal/config"
	"github.com/Faultbox/tux-viewer/internal/engine/renderer"
	"github.com/Faultbox/tux-viewer/internal/engine/window"
	"github.com/Faultbox/tux-viewer/internal/logger"
	"github.com/Faultbox/tux-viewer/internal/mascot/viewer"
)

func stubHost(t *testing.T, win func(window.Config) (*window.Window, error), rnd func(renderer.Config, renderer.Drawable) (*renderer.Renderer, error)) {
	t.Helper()
	logger.Nop()
	origWindow, origRenderer := openWindow, openRenderer
	openWindow, openRenderer = win, rnd
	t.Cleanup(func() { openWindow, openRenderer = origWindow, origRenderer })
}

func assertInert(t *testing.T, a *App) {
	t.Helper()
	if !errors.Is(a.Viewer().Err(), viewer.ErrHostUnavailable) {
		t.Errorf("expected inert viewer, got err %v", a.Viewer().Err())
	}
	if err := a.Run(context.Background()); err != nil {
		t.Errorf("Run on inert viewer returned %v", err)
	}
	a.Close()
}

func TestNewWithoutWindow(t *testing.T) {
	rendererCalled := false
	stubHost(t,
		func(window.Config) (*window.Window, error) { return nil, errors.New("no video device") },
		func(renderer.Config, renderer.Drawable) (*renderer.Renderer, error) {
			rendererCalled = true
			return nil, nil
		},
	)

	a := New(config.Default(), Options{})
	if rendererCalled {
		t.Error("renderer must not be created without a window")
	}
	assertInert(t, a)
}

func TestNewWithoutRenderer(t *testing.T) {
	stubHost(t,
		func(window.Config) (*window.Window, error) { return &window.Window{}, nil },
		func(renderer.Config, renderer.Drawable) (*renderer.Renderer, error) {
			return nil, errors.New("failed to initialize OpenGL")
		},
	)

	a := New(config.Default(), Options{})
	if a.window != nil {
		t.Error("window should be released when the renderer fails")
	}
	if a.renderer != nil {
		t.Error("expected no renderer")
	}
	assertInert(t, a)
}

func TestWindowTitle(t *testing.T) {
	tests := []struct {
		status viewer.Status
		want   string
	}{
		{viewer.StatusModel, "Tux"},
		{viewer.StatusLoading, "Tux (loading)"},
		{viewer.StatusFallback, "Tux (fallback)"},
		{viewer.StatusEmpty, "Tux (empty)"},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := windowTitle("Tux", tt.status); got != tt.want {
				t.Errorf("windowTitle = %q, want %q", got, tt.want)
			}
		})
	}
}
