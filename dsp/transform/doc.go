// Package transform adapts FFT libraries to the fixed-size, two-channel
// real transforms used by the streaming center extractor.
//
// An [Engine] is planned once for a transform size and reused for every
// analysis window of a stream. Forward transforms take one interleaved stereo
// window and produce the half spectra (Size/2+1 bins) of both channels.
// Inverse transforms turn a half spectrum back into Size real samples and are
// unnormalized, so a forward/inverse round trip scales the signal by Size.
//
// Two engines are available:
//
//   - [KindAlgoFFT] packs both channels into one complex FFT per window
//     (left in the real part, right in the imaginary part) and separates the
//     spectra afterwards. This is the default.
//   - [KindGonum] runs two independent real FFTs per window.
//
// Engines are not safe for concurrent use.
package transform
