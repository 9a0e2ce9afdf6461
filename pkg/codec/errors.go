package codec

import "fmt"

// Stage identifies which half of a codec round trip failed.
type Stage string

const (
	StageEncode Stage = "encode"
	StageDecode Stage = "decode"
)

// Failure wraps an encode or decode error from a codec's external process
// or library call. It aborts the affected (tile, codec) unit only.
type Failure struct {
	Codec string
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Codec, f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func encodeFailure(name string, err error) error {
	return &Failure{Codec: name, Stage: StageEncode, Err: err}
}

func decodeFailure(name string, err error) error {
	return &Failure{Codec: name, Stage: StageDecode, Err: err}
}
