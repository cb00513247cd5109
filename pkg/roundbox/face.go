package roundbox

import "fmt"

// Face labels one of the six faces of the box.
type Face uint32

const (
	FaceTop Face = iota
	FacePosX
	FacePosY
	FaceNegX
	FaceNegY
	FaceBottom

	// FaceCount is the number of faces.
	FaceCount = 6
)

var faceNames = [FaceCount]string{"top", "+x", "+y", "-x", "-y", "bottom"}

func (f Face) String() string {
	if int(f) < len(faceNames) {
		return faceNames[f]
	}
	return fmt.Sprintf("Face(%d)", uint32(f))
}

// IsSide reports whether f is one of the four side faces.
func (f Face) IsSide() bool {
	return f >= FacePosX && f <= FaceNegY
}

// sideFace returns the side face reached by walking k quarter turns
// counter-clockwise from +X.
func sideFace(k int) Face {
	return FacePosX + Face(k%4)
}

