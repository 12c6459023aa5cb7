package input

// Landmark is one normalized hand landmark as reported by a hand tracker. X and Y are in [0, 1]
// camera image coordinates with +Y down.
type Landmark struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// HandLandmarkCount is the number of landmarks in a full hand skeleton.
const HandLandmarkCount = 21

// Landmark indices used by gesture classification.
const (
	landmarkThumbIP   = 2
	landmarkThumbTip  = 4
	landmarkIndexMCP  = 5
	landmarkIndexTip  = 8
	landmarkMiddlePIP = 9
	landmarkMiddleTip = 12
	landmarkRingPIP   = 13
	landmarkRingTip   = 16
	landmarkPinkyPIP  = 17
	landmarkPinkyTip  = 20
)

// IsShootingGesture reports whether a hand skeleton forms a finger gun: index finger extended, the
// other three fingers curled and the thumb extended outward in the mirrored view.
func IsShootingGesture(lm []Landmark) bool {
	if len(lm) < HandLandmarkCount {
		return false
	}
	indexExtended := lm[landmarkIndexTip].Y < lm[landmarkIndexMCP].Y
	othersCurled := lm[landmarkMiddleTip].Y > lm[landmarkMiddlePIP].Y &&
		lm[landmarkRingTip].Y > lm[landmarkRingPIP].Y &&
		lm[landmarkPinkyTip].Y > lm[landmarkPinkyPIP].Y
	thumbExtended := lm[landmarkThumbTip].X < lm[landmarkThumbIP].X
	return indexExtended && othersCurled && thumbExtended
}

// AimPoint returns the normalized aiming position of a hand skeleton, which is the index finger tip.
func AimPoint(lm []Landmark) (float32, float32, bool) {
	if len(lm) < HandLandmarkCount {
		return 0, 0, false
	}
	return lm[landmarkIndexTip].X, lm[landmarkIndexTip].Y, true
}
