package engine

// RegionId uniquely identifies a Region within its owning Track.
type RegionId uint32

// Region is a time-positioned piece of timeline content: either a
// BufferRegion (audio clip) or a NoteRegion (note sequence).
type Region interface {
	ID() RegionId
	Name() string
	SetName(string)

	StartTime() Beats
	SetStartTime(Beats)

	Duration() Beats
	SetDuration(Beats)

	// Scale multiplies Duration by factor and, for note regions, every
	// note's start beat and duration; for buffer regions it instead adjusts
	// playback rate to fit the new duration (spec.md §4.2).
	Scale(factor float64)

	// Clone returns an independent copy for use by Track.Clone.
	Clone() Region
}

// regionBase holds the bookkeeping common to BufferRegion and NoteRegion.
type regionBase struct {
	id        RegionId
	name      string
	startTime Beats
	duration  Beats
}

func (r *regionBase) ID() RegionId        { return r.id }
func (r *regionBase) Name() string        { return r.name }
func (r *regionBase) SetName(n string)    { r.name = n }
func (r *regionBase) StartTime() Beats    { return r.startTime }
func (r *regionBase) SetStartTime(b Beats) { r.startTime = b }
func (r *regionBase) Duration() Beats     { return r.duration }
func (r *regionBase) SetDuration(b Beats) { r.duration = b }

// activeAt reports whether the region is sounding at beat b:
// start_time <= b < start_time + duration.
func (r *regionBase) activeAt(b Beats) bool {
	return b >= r.startTime && b < r.startTime+r.duration
}
