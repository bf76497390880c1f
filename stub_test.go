package fx

type stubDevice struct {
	key DeviceKey
}

func newStubDevice() *stubDevice { return &stubDevice{key: NewDeviceKey()} }

func (d *stubDevice) Key() DeviceKey { return d.key }

func (d *stubDevice) CreateConstantBuffer(string, int) (Buffer, error) { return stubResource{}, nil }

func (d *stubDevice) CreateProgram(desc *ProgramDesc) (Program, error) {
	return stubResource{kind: desc.Kind}, nil
}

func (d *stubDevice) CreateSampler(SamplerDesc) (Sampler, error) { return stubResource{}, nil }

type stubResource struct {
	kind Kind
}

func (stubResource) Size() int    { return 16 }
func (stubResource) Release()     {}
func (r stubResource) Kind() Kind { return r.kind }
