package component

import "github.com/milk9111/ropesim/anchor"

// Anchor decides where a rope is pinned each tick. A Source, when set, wins
// over the pointer.
type Anchor struct {
	Source anchor.Source
	// FollowInput pins the rope to the entity's Input cursor.
	FollowInput bool
	// Speed limits how fast the anchor chases the cursor, in units per
	// second. Zero snaps straight to it.
	Speed   float64
	TargetX float64
	TargetY float64
}

var AnchorComponent = NewComponent[Anchor]()
