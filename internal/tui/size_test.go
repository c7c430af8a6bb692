package tui

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckSize(t *testing.T) {
	if err := CheckSize(80, 24); err != nil {
		t.Fatalf("expected 80x24 to fit, got %v", err)
	}
	if err := CheckSize(MinWidth, MinHeight); err != nil {
		t.Fatalf("expected minimum size to fit, got %v", err)
	}

	err := CheckSize(80, MinHeight-1)
	if !errors.Is(err, ErrTerminalTooSmall) || !strings.Contains(err.Error(), "screen height too small") {
		t.Fatalf("unexpected height error: %v", err)
	}
	err = CheckSize(MinWidth-1, 24)
	if !errors.Is(err, ErrTerminalTooSmall) || !strings.Contains(err.Error(), "screen width too small") {
		t.Fatalf("unexpected width error: %v", err)
	}
	err = CheckSize(10, 5)
	if err == nil || !strings.Contains(err.Error(), "height") {
		t.Fatalf("expected height to be checked first, got %v", err)
	}
}

func TestDefaultLength(t *testing.T) {
	if got := DefaultLength(80); got != 39 {
		t.Fatalf("expected 39, got %d", got)
	}
	if got := DefaultLength(43); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
	if got := DefaultLength(2); got != 1 {
		t.Fatalf("expected minimum of 1, got %d", got)
	}
}
