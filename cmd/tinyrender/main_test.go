package main

import (
	"errors"
	"testing"
)

func TestCheckModes(t *testing.T) {
	tests := []struct {
		name      string
		turntable int
		wireframe bool
		preview   int
		wantErr   bool
	}{
		{"single image", 0, false, 0, false},
		{"wireframe with preview", 0, true, 80, false},
		{"turntable", 24, false, 0, false},
		{"turntable with wireframe", 24, true, 0, true},
		{"turntable with preview", 24, false, 80, true},
		{"turntable with both", 24, true, 80, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkModes(tt.turntable, tt.wireframe, tt.preview)
			if tt.wantErr {
				if !errors.Is(err, ErrFlagConflict) {
					t.Errorf("checkModes() error = %v, want ErrFlagConflict", err)
				}
				return
			}
			if err != nil {
				t.Errorf("checkModes() unexpected error: %v", err)
			}
		})
	}
}
