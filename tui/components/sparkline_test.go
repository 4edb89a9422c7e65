package components

import "testing"

func TestSparkline(t *testing.T) {
	data := []float64{0, 25, 50, 75, 100, 50, 25, 0}
	result := Sparkline(data, 8)
	if len([]rune(result)) != 8 {
		t.Errorf("expected 8 chars, got %d", len([]rune(result)))
	}
}

func TestSparklineEmpty(t *testing.T) {
	result := Sparkline(nil, 8)
	if result != "        " {
		t.Errorf("expected 8 spaces for empty data, got %q", result)
	}
}

func TestSparklineSingleValue(t *testing.T) {
	result := Sparkline([]float64{50}, 4)
	if len([]rune(result)) != 4 {
		t.Errorf("expected 4 chars, got %d", len([]rune(result)))
	}
}

func TestSparklineKeepsNewest(t *testing.T) {
	result := []rune(Sparkline([]float64{100, 0, 1}, 2))
	if result[0] != blocks[0] || result[1] != blocks[len(blocks)-1] {
		t.Errorf("expected newest two values scaled, got %q", string(result))
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		v        float64
		expected string
	}{
		{0, "0"},
		{42, "42"},
		{2.5, "2.5"},
		{1500, "1.5K"},
		{1_500_000, "1.5M"},
		{2_500_000_000, "2.5B"},
	}
	for _, tt := range tests {
		got := FormatCount(tt.v)
		if got != tt.expected {
			t.Errorf("FormatCount(%f) = %q, want %q", tt.v, got, tt.expected)
		}
	}
}
