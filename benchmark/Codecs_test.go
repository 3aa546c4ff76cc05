/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package benchmark

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cbm "github.com/flanglet/cbm-go"
	"github.com/flanglet/cbm-go/codec"
	"github.com/flanglet/cbm-go/driver"
)

const _INPUT_SIZE = 1024 * 1024

// Mix of text and noise, compressible by every codec
func makeInput(size int) []byte {
	r := rand.New(rand.NewSource(1234567))
	words := strings.Fields("the of and to in is was that for it with as his on be at by had")
	buf := make([]byte, 0, size+16)

	for len(buf) < size {
		if r.Intn(16) == 0 {
			buf = append(buf, byte(r.Intn(256)))
			continue
		}

		buf = append(buf, words[r.Intn(len(words))]...)
		buf = append(buf, ' ')
	}

	return buf[0:size]
}

func newDriver(b *testing.B, codecName string, opts cbm.Params, testName string) *driver.Driver {
	b.Helper()
	dir := b.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "input.bin"), makeInput(_INPUT_SIZE), 0644); err != nil {
		b.Fatalf("cannot write input: %v", err)
	}

	c, err := codec.New(codecName, opts)

	if err != nil {
		b.Fatalf("cannot create codec: %v", err)
	}

	d, err := driver.New(codecName, c)

	if err != nil {
		b.Fatalf("cannot create driver: %v", err)
	}

	if err = d.Configure(cbm.Params{cbm.PARAM_INPUT_DIR: dir}); err != nil {
		b.Fatalf("configure failed: %v", err)
	}

	// Preflight: load, compress and verify the round trip
	if err = d.Prepare(testName); err != nil {
		b.Fatalf("prepare failed: %v", err)
	}

	if err = d.Warmup(testName); err != nil {
		b.Fatalf("warmup failed: %v", err)
	}

	return d
}

func benchmarkCodec(b *testing.B, codecName string, opts cbm.Params, op cbm.Operation) {
	testName := driver.TestName{Operation: op, FileName: "input.bin"}.String()
	d := newDriver(b, codecName, opts, testName)

	b.ReportAllocs()
	b.SetBytes(int64(d.UncompressedLength()))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := d.Run(testName); err != nil {
			b.Fatalf("run failed: %v", err)
		}
	}

	b.StopTimer()
	b.ReportMetric(float64(d.CompressedLength())/float64(d.UncompressedLength()), "ratio")
}

func BenchmarkNone(b *testing.B) {
	b.Run("C", func(b *testing.B) { benchmarkCodec(b, "none", nil, cbm.COMPRESS) })
	b.Run("U", func(b *testing.B) { benchmarkCodec(b, "none", nil, cbm.UNCOMPRESS) })
}

func BenchmarkKanzi(b *testing.B) {
	opts := cbm.Params{"transform": "TEXT+LZ", "entropy": "HUFFMAN"}
	b.Run("C", func(b *testing.B) { benchmarkCodec(b, "kanzi", opts, cbm.COMPRESS) })
	b.Run("U", func(b *testing.B) { benchmarkCodec(b, "kanzi", opts, cbm.UNCOMPRESS) })
}

func BenchmarkKanziTransform(b *testing.B) {
	opts := cbm.Params{"transform": "BWT+SRT+ZRLT"}
	b.Run("C", func(b *testing.B) { benchmarkCodec(b, "kanzi-transform", opts, cbm.COMPRESS) })
	b.Run("U", func(b *testing.B) { benchmarkCodec(b, "kanzi-transform", opts, cbm.UNCOMPRESS) })
}

func BenchmarkZstd(b *testing.B) {
	for _, level := range []string{"fastest", "default", "better"} {
		opts := cbm.Params{"level": level}
		b.Run(level+"/C", func(b *testing.B) { benchmarkCodec(b, "zstd", opts, cbm.COMPRESS) })
		b.Run(level+"/U", func(b *testing.B) { benchmarkCodec(b, "zstd", opts, cbm.UNCOMPRESS) })
	}
}

func BenchmarkS2(b *testing.B) {
	b.Run("C", func(b *testing.B) { benchmarkCodec(b, "s2", nil, cbm.COMPRESS) })
	b.Run("U", func(b *testing.B) { benchmarkCodec(b, "s2", nil, cbm.UNCOMPRESS) })
}

func BenchmarkSnappy(b *testing.B) {
	b.Run("C", func(b *testing.B) { benchmarkCodec(b, "snappy", nil, cbm.COMPRESS) })
	b.Run("U", func(b *testing.B) { benchmarkCodec(b, "snappy", nil, cbm.UNCOMPRESS) })
}

func BenchmarkLZ4(b *testing.B) {
	for _, level := range []string{"fast", "9"} {
		opts := cbm.Params{"level": level}
		b.Run(level+"/C", func(b *testing.B) { benchmarkCodec(b, "lz4", opts, cbm.COMPRESS) })
		b.Run(level+"/U", func(b *testing.B) { benchmarkCodec(b, "lz4", opts, cbm.UNCOMPRESS) })
	}
}

func BenchmarkFlate(b *testing.B) {
	for _, name := range []string{"deflate", "gzip", "zlib"} {
		name := name
		b.Run(name+"/C", func(b *testing.B) { benchmarkCodec(b, name, nil, cbm.COMPRESS) })
		b.Run(name+"/U", func(b *testing.B) { benchmarkCodec(b, name, nil, cbm.UNCOMPRESS) })
	}
}

func BenchmarkBrotli(b *testing.B) {
	opts := cbm.Params{"level": "5"}
	b.Run("C", func(b *testing.B) { benchmarkCodec(b, "brotli", opts, cbm.COMPRESS) })
	b.Run("U", func(b *testing.B) { benchmarkCodec(b, "brotli", opts, cbm.UNCOMPRESS) })
}

func BenchmarkXZ(b *testing.B) {
	b.Run("xz/C", func(b *testing.B) { benchmarkCodec(b, "xz", nil, cbm.COMPRESS) })
	b.Run("xz/U", func(b *testing.B) { benchmarkCodec(b, "xz", nil, cbm.UNCOMPRESS) })
	b.Run("lzma/C", func(b *testing.B) { benchmarkCodec(b, "lzma", nil, cbm.COMPRESS) })
	b.Run("lzma/U", func(b *testing.B) { benchmarkCodec(b, "lzma", nil, cbm.UNCOMPRESS) })
}
