// Package buffer provides the fixed-length sliding windows used by the
// streaming STFT stages. A [Ring] holds interleaved multi-channel frames,
// advances without shifting memory, and still exposes its contents as one
// contiguous slice for transform engines.
package buffer
