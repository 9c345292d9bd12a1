package api

import "github.com/myankochan/scff-imaging-core/internal/imaging"

// noopCapture/noopScaler stand in for x11capture/avscale in tests that only
// exercise HTTP wiring, never real pixels.

type noopCapture struct{}

func newNoopCaptureFunc(flipVertical bool, params []imaging.LayoutParameter, dst []*imaging.Image) imaging.Capture {
	return noopCapture{}
}

func (noopCapture) Init() imaging.ErrorCode         { return imaging.NoError }
func (noopCapture) Run() imaging.ErrorCode          { return imaging.NoError }
func (noopCapture) CurrentError() imaging.ErrorCode { return imaging.NoError }
func (noopCapture) Close()                          {}

type noopScaler struct{}

func newNoopScalerFunc() imaging.Scaler { return noopScaler{} }

func (noopScaler) Init(input, output *imaging.Image, config imaging.SwscaleConfig) imaging.ErrorCode {
	return imaging.NoError
}
func (noopScaler) Run() imaging.ErrorCode          { return imaging.NoError }
func (noopScaler) Rebind(output *imaging.Image)    {}
func (noopScaler) CurrentError() imaging.ErrorCode { return imaging.NoError }
func (noopScaler) Close()                          {}
