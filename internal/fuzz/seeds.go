package fuzztests

import (
	"testing"

	"github.com/frmsvrt/Halide/internal/demo"
	"github.com/frmsvrt/Halide/internal/irwire"
)

// maxFuzzInput bounds a single input so the harness stays fast.
const maxFuzzInput = 64 << 10

// corpusSeeds encodes every demo program, keyed by its encoding.
func corpusSeeds(tb testing.TB) map[string]demo.Program {
	tb.Helper()
	seeds := make(map[string]demo.Program)
	for _, p := range demo.All() {
		root := p.Build()
		data, err := irwire.Marshal(root)
		root.Release()
		if err != nil {
			tb.Fatalf("seed %s: %v", p.Name, err)
		}
		seeds[string(data)] = p
	}
	return seeds
}

// addCorpusSeeds registers the demo encodings with f and returns them so the
// harness can hold intact seeds to an exact decode.
func addCorpusSeeds(f *testing.F) map[string]demo.Program {
	f.Helper()
	seeds := corpusSeeds(f)
	for key := range seeds {
		data := []byte(key)
		f.Add(data)
		// truncations and a flipped byte give the fuzzer near-valid starting
		// points
		f.Add(data[:len(data)/2])
		flipped := append([]byte(nil), data...)
		flipped[len(flipped)-1] ^= 0xff
		f.Add(flipped)
	}
	f.Add([]byte{})
	f.Add([]byte{0x80})
	return seeds
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
