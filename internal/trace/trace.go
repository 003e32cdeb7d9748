// Package trace records per-frame car telemetry as a stream of CBOR records.
package trace

import (
	"errors"
	"fmt"
	"io"

	"raycast-car/internal/sim"

	"github.com/fxamacker/cbor/v2"
)

// Pose is a position and a quaternion (w, x, y, z).
type Pose struct {
	Position    [3]float64 `cbor:"p"`
	Orientation [4]float64 `cbor:"q"`
}

// Wheel is the recorded state of one wheel.
type Wheel struct {
	Pose             Pose    `cbor:"pose"`
	InContact        bool    `cbor:"contact"`
	SuspensionLength float64 `cbor:"susp_len"`
	SuspensionForce  float64 `cbor:"susp_force"`
	Rotation         float64 `cbor:"rot"`
	Sliding          bool    `cbor:"sliding"`
}

// Frame is one record.
type Frame struct {
	Tick         uint64  `cbor:"tick"`
	Time         float64 `cbor:"time"`
	Chassis      Pose    `cbor:"chassis"`
	Wheels       []Wheel `cbor:"wheels"`
	Speed        float64 `cbor:"speed"`
	EngineForce  float64 `cbor:"engine"`
	Steering     float64 `cbor:"steer"`
	EngineActive bool    `cbor:"engine_active"`
}

// FromSnapshot converts a simulation snapshot to a frame.
func FromSnapshot(s sim.Snapshot) Frame {
	f := Frame{
		Tick:         s.Tick,
		Time:         s.Time,
		Chassis:      pose(s.Chassis.Position, s.Chassis.Orientation.W, s.Chassis.Orientation.V),
		Speed:        s.SpeedKmHour,
		EngineForce:  s.EngineForce,
		Steering:     s.Steering,
		EngineActive: s.EngineActive,
		Wheels:       make([]Wheel, len(s.Wheels)),
	}
	for i, w := range s.Wheels {
		f.Wheels[i] = Wheel{
			Pose:             pose(w.Pose.Position, w.Pose.Orientation.W, w.Pose.Orientation.V),
			InContact:        w.InContact,
			SuspensionLength: w.SuspensionLength,
			SuspensionForce:  w.SuspensionForce,
			Rotation:         w.Rotation,
			Sliding:          w.Sliding,
		}
	}
	return f
}

func pose(p [3]float64, w float64, v [3]float64) Pose {
	return Pose{Position: p, Orientation: [4]float64{w, v[0], v[1], v[2]}}
}

// Recorder writes frames to an underlying writer.
type Recorder struct {
	enc    *cbor.Encoder
	frames int
}

// NewRecorder returns a recorder writing to w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return &Recorder{enc: em.NewEncoder(w)}, nil
}

// Record appends one frame.
func (r *Recorder) Record(f Frame) error {
	if err := r.enc.Encode(f); err != nil {
		return fmt.Errorf("trace: encode frame %d: %w", f.Tick, err)
	}
	r.frames++
	return nil
}

// Frames is the number of frames recorded so far.
func (r *Recorder) Frames() int { return r.frames }

// Reader decodes frames written by a Recorder.
type Reader struct {
	dec *cbor.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next frame, or io.EOF at the end of the stream.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("trace: decode: %w", err)
	}
	return f, nil
}

// ReadAll decodes every remaining frame.
func (r *Reader) ReadAll() ([]Frame, error) {
	var frames []Frame
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}
