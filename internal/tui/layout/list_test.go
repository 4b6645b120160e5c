package layout

import "testing"

func TestListHeight(t *testing.T) {
	cfg := DefaultConfig().List

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"normal", 24, 18},
		{"tall", 50, 44},
		{"clamps to min", 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ListHeight(tt.terminalHeight, cfg); got != tt.want {
				t.Errorf("ListHeight(%d) = %d, want %d", tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestVisibleItems(t *testing.T) {
	cfg := DefaultConfig().List

	if got := VisibleItems(18, cfg); got != 9 {
		t.Errorf("VisibleItems(18) = %d, want 9", got)
	}
	if got := VisibleItems(1, cfg); got != 1 {
		t.Errorf("VisibleItems(1) = %d, want 1", got)
	}
	if got := VisibleItems(5, ListConfig{}); got != 5 {
		t.Errorf("VisibleItems with zero LinesPerItem = %d, want 5", got)
	}
}

func TestViewportOffset(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		total    int
		visible  int
		want     int
	}{
		{"no scroll needed", 2, 5, 10, 0},
		{"selection near start", 1, 20, 10, 0},
		{"selection in middle", 10, 20, 10, 5}, // 10 - 10/2 = 5
		{"selection near end", 18, 20, 10, 10}, // max offset = 20-10 = 10
		{"selection at end", 19, 20, 10, 10},
		{"all items visible", 5, 8, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ViewportOffset(tt.selected, tt.total, tt.visible)
			if got != tt.want {
				t.Errorf("ViewportOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.visible, got, tt.want)
			}
		})
	}
}
