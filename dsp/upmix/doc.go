// Package upmix extracts a center channel from stereo audio.
//
// The [Upmixer] runs a streaming short-time Fourier transform over a stereo
// [Source]. For every analysis window both channels are transformed, and for
// every frequency bin the coefficient of the quieter channel is taken as the
// center estimate (see [Selector]). The center spectrum is transformed back,
// overlap-added across windows and normalized by 1/(WindowSize*Overlap). The
// [Sink] receives three interleaved channels per frame:
//
//	left - center, right - center, center
//
// Output frames are aligned with input frames and the number of frames
// written always equals the number of frames read. The first output frames
// become available once WindowSize-SkipSize frames beyond them have been
// read; the windows that produce them include zero history from before the
// stream start.
//
// For whole buffers in memory use [Process]:
//
//	cfg, err := upmix.NewConfig(upmix.WithWindowSize(4096), upmix.WithOverlap(128))
//	out, err := upmix.Process(stereo, cfg)
//
// An Upmixer is not safe for concurrent use.
package upmix
