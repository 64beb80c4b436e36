package minigame

import (
	"hash/fnv"
	"math"
	"time"
)

const (
	bubbleMinRadius = 18.0
	bubbleMaxRadius = 42.0
	bubbleMinSpeed  = 40.0 // initial fall speed, px/s
	bubbleMaxSpeed  = 90.0
	bubbleMaxAccel  = 15.0 // px/s²
	bubbleColors    = 6
	wobbleMinAmp    = 4.0
	wobbleMaxAmp    = 14.0
	wobbleFreq      = 2.0 // rad/s
)

// BubbleParams are the derived attributes of one spawnable bubble. They are
// a pure function of the session seed and the slot index, so any client can
// reconstruct any bubble at any time without having observed its spawn.
type BubbleParams struct {
	Radius      float64
	X0          float64
	FallSpeed   float64
	FallAccel   float64
	Color       int
	WobblePhase float64
	WobbleAmp   float64
}

// ParamsFor derives the bubble for the given slot index. The generator is
// re-seeded per call from hash(seed)+slot, so call order and caller history
// never affect the result.
func ParamsFor(cfg Config, seed string, slot int64) BubbleParams {
	r := newSlotRand(seed, slot)

	radius := bubbleMinRadius + r.float()*(bubbleMaxRadius-bubbleMinRadius)
	return BubbleParams{
		Radius:      radius,
		X0:          radius + r.float()*(cfg.Width-2*radius),
		FallSpeed:   bubbleMinSpeed + r.float()*(bubbleMaxSpeed-bubbleMinSpeed),
		FallAccel:   r.float() * bubbleMaxAccel,
		Color:       int(r.next() % bubbleColors),
		WobblePhase: r.float() * 2 * math.Pi,
		WobbleAmp:   wobbleMinAmp + r.float()*(wobbleMaxAmp-wobbleMinAmp),
	}
}

// PositionAt returns the bubble center after age seconds of falling.
// Vertical motion is projectile kinematics from just above the region top;
// horizontal motion is a sinusoidal wobble around the spawn column.
func (p BubbleParams) PositionAt(age float64) (x, y float64) {
	y = -p.Radius + p.FallSpeed*age + 0.5*p.FallAccel*age*age
	x = p.X0 + math.Sin(age*wobbleFreq+p.WobblePhase)*p.WobbleAmp
	return x, y
}

// SlotAt maps a time offset from the session epoch to a slot index.
func SlotAt(cfg Config, elapsed time.Duration) int64 {
	if elapsed < 0 {
		return -1
	}
	return int64(elapsed / cfg.SpawnInterval)
}

// SlotAge returns seconds since the given slot's spawn instant.
func SlotAge(cfg Config, elapsed time.Duration, slot int64) float64 {
	return (elapsed - time.Duration(slot)*cfg.SpawnInterval).Seconds()
}

// slotRand is a splitmix64 stream seeded from (seed, slot). It is local to
// a single ParamsFor call; no generator state survives between calls.
type slotRand struct {
	state uint64
}

func newSlotRand(seed string, slot int64) *slotRand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return &slotRand{state: h.Sum64() + uint64(slot)}
}

func (r *slotRand) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// float returns a value in [0, 1).
func (r *slotRand) float() float64 {
	return float64(r.next()>>11) / (1 << 53)
}
