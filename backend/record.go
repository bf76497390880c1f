package backend

import "github.com/gogpu/fx/fxtest"

// init registers the recording backend on package import.
func init() {
	Register(Record, func() (Device, error) {
		return recordDevice{fxtest.NewDevice()}, nil
	})
}

// recordDevice gives fxtest.Device the Close the registry expects.
type recordDevice struct {
	*fxtest.Device
}

func (recordDevice) Close() {}

// Recorder returns the fxtest device behind a device opened on the Record
// backend.
func Recorder(d Device) (*fxtest.Device, bool) {
	r, ok := d.(recordDevice)
	if !ok {
		return nil, false
	}
	return r.Device, true
}
