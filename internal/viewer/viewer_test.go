package viewer

import (
	"testing"

	"github.com/Faultbox/roundbox/internal/config"
	"github.com/Faultbox/roundbox/internal/export"
)

func TestShadingMode(t *testing.T) {
	tests := []struct {
		name    string
		want    int32
		wantErr bool
	}{
		{config.ShadingFace, shadeFace, false},
		{config.ShadingUV, shadeUV, false},
		{config.ShadingNormal, shadeNormal, false},
		{"phong", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shadingMode(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("shadingMode(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("shadingMode(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestFaceColorsMatchExport(t *testing.T) {
	got := faceColors()
	if len(got) != len(export.FaceColors) {
		t.Fatalf("got %d colours, want %d", len(got), len(export.FaceColors))
	}
	for i, c := range export.FaceColors {
		if got[i][0] != c[0] || got[i][1] != c[1] || got[i][2] != c[2] {
			t.Errorf("face %d: %v, want %v", i, got[i], c)
		}
	}
}
