package kiln

import "testing"

func TestRect_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"identical", Rect{0, 0, 10, 10}, Rect{0, 0, 10, 10}, true},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 4, 4}, true},
		{"partial", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, true},
		{"edge touching", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, false},
		{"corner touching", Rect{0, 0, 10, 10}, Rect{10, 10, 5, 5}, false},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 5, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_In(t *testing.T) {
	if !(Rect{0, 0, 128, 128}).In(128, 128) {
		t.Error("rect equal to bounds should be inside")
	}
	if (Rect{100, 100, 64, 64}).In(128, 128) {
		t.Error("rect past the edge should not be inside")
	}
	if (Rect{-1, 0, 4, 4}).In(128, 128) {
		t.Error("negative origin should not be inside")
	}
}

func TestAtlasID_String(t *testing.T) {
	if AtlasGameplay.String() != "gameplay" || AtlasTemporary.String() != "temporary" {
		t.Errorf("AtlasID names = %q %q", AtlasGameplay.String(), AtlasTemporary.String())
	}
}
