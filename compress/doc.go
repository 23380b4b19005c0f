// Package compress implements the decompressor contract used for long remote values.
//
// A compressed wire value is the base64 text of a compressed frame. Supported frames:
//   - gzip (github.com/klauspost/compress/gzip)
//   - zstd (github.com/klauspost/compress/zstd)
//   - lz4 frame format (github.com/pierrec/lz4/v4)
//
// Auto detects the frame from its magic bytes, so a remote console can hold values produced by
// any of the three. The Codec also compresses, which is what rcctl uses to produce values.
//
//	codec, err := compress.New(compress.Auto)
//	jsonText, err := codec.Decompress(wireValue)
//
// Decompressed output is capped at MaxDecompressedSize.
package compress
