package capture

// Landmark is one normalized hand joint as produced by a MediaPipe-style
// hand landmark model. Y grows downward.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is the 21-landmark set for one detected hand.
type Hand []Landmark

const handLandmarks = 21

// Joint indexes for the four counted fingers.
const (
	indexPIP  = 6
	indexTip  = 8
	middlePIP = 10
	middleTip = 12
	ringPIP   = 14
	ringTip   = 16
	pinkyPIP  = 18
	pinkyTip  = 20
)

// raiseMargin is how far above its middle joint a fingertip must sit.
const raiseMargin = 0.02

// MaxFingers is the highest count CountRaisedFingers can report.
const MaxFingers = 4

var countedFingers = [MaxFingers][2]int{
	{indexTip, indexPIP},
	{middleTip, middlePIP},
	{ringTip, ringPIP},
	{pinkyTip, pinkyPIP},
}

// CountRaisedFingers counts raised index, middle, ring and pinky fingers.
// The thumb is never counted. A hand with fewer than 21 landmarks counts
// as zero.
func CountRaisedFingers(h Hand) int {
	if len(h) < handLandmarks {
		return 0
	}
	count := 0
	for _, f := range countedFingers {
		if h[f[0]].Y < h[f[1]].Y-raiseMargin {
			count++
		}
	}
	return count
}

// CountFromHands counts fingers on the first detected hand; no hands is zero.
func CountFromHands(hands []Hand) int {
	if len(hands) == 0 {
		return 0
	}
	return CountRaisedFingers(hands[0])
}
