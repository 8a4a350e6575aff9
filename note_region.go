package engine

// NoteId uniquely identifies a Note within its owning NoteRegion, assigned
// monotonically as notes are added.
type NoteId uint32

// Note is a single MIDI-like note event within a NoteRegion. Notes within a
// region may overlap.
type Note struct {
	ID         NoteId
	Pitch      uint8 // 0..=127
	Velocity   uint8 // 0..=127
	StartBeat  Beats
	Duration   Beats
}

// NoteRegion is an ordered-by-id set of Notes placed on the timeline.
type NoteRegion struct {
	regionBase

	notes  map[NoteId]Note
	order  []NoteId
	nextID NoteId
}

// NewNoteRegion creates an empty note region at the given timeline position.
func NewNoteRegion(id RegionId, name string, start, duration Beats) *NoteRegion {
	return &NoteRegion{
		regionBase: regionBase{id: id, name: name, startTime: start, duration: duration},
		notes:      make(map[NoteId]Note),
	}
}

// AddNote appends a new note, clamping pitch/velocity into 0..=127, and
// returns its assigned id.
func (r *NoteRegion) AddNote(pitch, velocity uint8, startBeat, duration Beats) NoteId {
	if pitch > 127 {
		pitch = 127
	}
	if velocity > 127 {
		velocity = 127
	}
	r.nextID++
	id := r.nextID
	r.notes[id] = Note{ID: id, Pitch: pitch, Velocity: velocity, StartBeat: startBeat, Duration: duration}
	r.order = append(r.order, id)
	return id
}

// RemoveNote deletes a note by id. Removing an id that does not exist is a
// no-op.
func (r *NoteRegion) RemoveNote(id NoteId) {
	if _, ok := r.notes[id]; !ok {
		return
	}
	delete(r.notes, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// ModifyNote overwrites the fields of an existing note. Modifying a missing
// id is a no-op.
func (r *NoteRegion) ModifyNote(id NoteId, pitch, velocity uint8, startBeat, duration Beats) {
	n, ok := r.notes[id]
	if !ok {
		return
	}
	if pitch > 127 {
		pitch = 127
	}
	if velocity > 127 {
		velocity = 127
	}
	n.Pitch, n.Velocity, n.StartBeat, n.Duration = pitch, velocity, startBeat, duration
	r.notes[id] = n
}

// GetNote returns a note by id.
func (r *NoteRegion) GetNote(id NoteId) (Note, bool) {
	n, ok := r.notes[id]
	return n, ok
}

// Notes returns every note in insertion (id) order.
func (r *NoteRegion) Notes() []Note {
	out := make([]Note, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.notes[id])
	}
	return out
}

// NotesStartingAt returns the notes that begin exactly at region-local beat
// b, used by NoteTrack's per-tick render (spec.md §4.3).
func (r *NoteRegion) NotesStartingAt(b Beats) []Note {
	var out []Note
	for _, id := range r.order {
		n := r.notes[id]
		if n.StartBeat == b {
			out = append(out, n)
		}
	}
	return out
}

// Scale multiplies Duration and every note's StartBeat and Duration by
// factor (spec.md §4.2's note-region branch of Scale).
func (r *NoteRegion) Scale(factor float64) {
	r.duration = Beats(float64(r.duration) * factor)
	for _, id := range r.order {
		n := r.notes[id]
		n.StartBeat = Beats(float64(n.StartBeat) * factor)
		n.Duration = Beats(float64(n.Duration) * factor)
		r.notes[id] = n
	}
}

// Clone returns an independent copy.
func (r *NoteRegion) Clone() Region {
	cp := &NoteRegion{
		regionBase: r.regionBase,
		notes:      make(map[NoteId]Note, len(r.notes)),
		order:      append([]NoteId(nil), r.order...),
		nextID:     r.nextID,
	}
	for k, v := range r.notes {
		cp.notes[k] = v
	}
	return cp
}
