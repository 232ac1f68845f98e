package encoder

// Policy is the byte-size/dimension ceiling a provider family enforces on
// transmitted images. A zero MaxDimension means no dimension limit.
// Policies are pure values, re-derived per call and never shared.
type Policy struct {
	MaxBytes     int
	MaxDimension int
}

// Payload is a provider-compliant encoded image. Produced once, consumed
// by the dispatcher, then discarded.
type Payload struct {
	Data       []byte
	Width      int
	Height     int
	WasResized bool
}
