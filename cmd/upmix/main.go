// Command upmix converts a stereo recording into a three-channel
// left/right/center WAV file.
//
// Usage:
//
//	upmix [flags] <input> <output>
//
// The input may be WAV, MP3 or FLAC and must have exactly two channels. The
// output is 24-bit PCM WAV at the input sample rate with channels ordered
// left residual, right residual, center.
//
// Examples:
//
//	upmix song.wav song-3ch.wav
//	upmix --overlap 64 --window-size 2048 song.flac out.wav
//	upmix --engine gonum --config upmix.yaml song.mp3 out.wav
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-upmix/cmd/upmix/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
