package renderer

import "errors"

var (
	ErrSceneNotDefined      = errors.New("renderer: no scene defined")
	ErrCameraNotDefined     = errors.New("renderer: no camera defined")
	ErrInvalidFrameSize     = errors.New("renderer: invalid frame size")
	ErrInvalidSupersampling = errors.New("renderer: invalid supersampling factor")
	ErrFrameTooLarge        = errors.New("renderer: frame too large")
	ErrInvalidBVHOptions    = errors.New("renderer: invalid bvh options")
	ErrInvalidSSAOOptions   = errors.New("renderer: invalid ssao options")
	ErrRendererClosed       = errors.New("renderer: renderer is closed")
)
