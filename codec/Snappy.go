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

package codec

import (
	"github.com/golang/snappy"
)

// SnappyCodec compresses blocks with the Snappy block format
type SnappyCodec struct {
}

// NewSnappyCodec creates a new instance of SnappyCodec
func NewSnappyCodec() *SnappyCodec {
	return &SnappyCodec{}
}

// Compress returns the Snappy block for src
func (this *SnappyCodec) Compress(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

// Decompress decodes a Snappy block
func (this *SnappyCodec) Decompress(src []byte) ([]byte, error) {
	return snappy.Decode(nil, src)
}
