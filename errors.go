package engine

import "errors"

var (
	ErrTrackNotFound     = errors.New("engine: track not found")
	ErrNodeNotFound      = errors.New("engine: node not found")
	ErrRegionNotFound    = errors.New("engine: region not found")
	ErrNodeNotRemovable  = errors.New("engine: input/output node cannot be removed")
	ErrWouldCycle        = errors.New("engine: connection would create a cycle")
	ErrPortTagMismatch   = errors.New("engine: connector port tags do not match")
	ErrPortNotFound      = errors.New("engine: port not found")
	ErrWrongRegionType   = errors.New("engine: operation does not apply to this region type")
	ErrWrongTrackType    = errors.New("engine: region type does not match track type")
	ErrMixerNotPrepared  = errors.New("engine: mixer failed to prepare, mix aborted")
	ErrNotShaderNode     = errors.New("engine: node is not an AudioShaderNode")
)
