package scenegraph

// Path is the node property a channel animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Interpolation selects how a channel samples between keyframes.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
)

// Channel is one keyframed property of one node. Values holds one entry per
// time; translation and scale use the first three components, rotation all
// four as (x, y, z, w).
type Channel struct {
	Target        *Node
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        [][4]float32
}

// Clip is a named, time-indexed set of channels. Duration is the last keyframe
// time across all channels, in seconds.
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}
