package metrics

// RawBytes is the uncompressed size of an RGB tile: 8 bits per channel,
// 3 channels, so 3 bytes per pixel.
func RawBytes(w, h int) int {
	return w * h * 3
}

// CompressionRatio is raw size over encoded size. Higher is better. The
// encoded size is floored at one byte so a degenerate encoder output can
// not divide by zero.
func CompressionRatio(rawBytes, encodedBytes int) float64 {
	if encodedBytes < 1 {
		encodedBytes = 1
	}
	return float64(rawBytes) / float64(encodedBytes)
}
