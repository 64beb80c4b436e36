package minigame

import "time"

// Config holds the fixed tuning values for a minigame session. Every client
// in a session runs with the same values; nothing here is negotiated at
// runtime.
type Config struct {
	Width  float64 // playable region width in px
	Height float64 // playable region height in px

	Gravity     float64 // px/s² downward, applied to actors
	Damping     float64 // fractional velocity loss per second
	ActorRadius float64
	Restitution float64 // wall/ceiling bounce factor

	SpawnInterval time.Duration // one bubble slot per interval
	SlotLookback  int64         // max slots re-examined after a stall or on join

	MinPower float64 // launch speed bounds, px/s
	MaxPower float64

	// Grounded assessment thresholds for the local actor.
	GroundedMaxHeight float64 // max height above the floor resting line
	GroundedMaxSpeed  float64

	// Remote position reconciliation thresholds.
	HardSnapDist float64 // beyond this, teleport to the sample
	DeadZoneDist float64 // below this, ignore the sample
	PosBlend     float64 // blend fraction toward sample position
	VelBlend     float64 // blend fraction toward sample velocity

	SyncInterval  time.Duration // outbound position sample period while airborne
	MaxFrameDelta time.Duration // frame delta clamp after a stall
}

// DefaultConfig returns the standard session tuning.
func DefaultConfig() Config {
	return Config{
		Width:  800,
		Height: 600,

		Gravity:     900,
		Damping:     0.15,
		ActorRadius: 22,
		Restitution: 0.5,

		SpawnInterval: 2 * time.Second,
		SlotLookback:  8,

		MinPower: 120,
		MaxPower: 760,

		GroundedMaxHeight: 4,
		GroundedMaxSpeed:  12,

		HardSnapDist: 140,
		DeadZoneDist: 6,
		PosBlend:     0.35,
		VelBlend:     0.5,

		SyncInterval:  150 * time.Millisecond,
		MaxFrameDelta: 100 * time.Millisecond,
	}
}

// floorY returns the resting line for an actor center.
func (c Config) floorY() float64 {
	return c.Height - c.ActorRadius
}
