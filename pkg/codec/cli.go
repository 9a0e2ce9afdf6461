package codec

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// EnsureTools verifies that the named CLI tools are on PATH. CLI-backed
// codecs shell out per encode/decode, so a missing tool should fail the
// run up front rather than on the first tile.
func EnsureTools(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, err := exec.LookPath(n); err != nil {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required CLI tool(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// encodeViaCLI writes img to a temporary PNG, runs tool with arguments
// built from the input and output paths, and returns the output file
// contents. outExt includes the dot (".jxl").
func encodeViaCLI(img *image.RGBA, tool, outExt string, args func(in, out string) []string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "wsibench-enc-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out"+outExt)
	f, err := os.Create(in)
	if err != nil {
		return nil, err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp png: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	cmd := exec.Command(tool, args(in, out)...)
	if msg, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", tool, err, strings.TrimSpace(string(msg)))
	}
	return os.ReadFile(out)
}

// decodeViaCLI writes data to a temporary file with inExt, runs tool, and
// decodes the PNG the tool produced.
func decodeViaCLI(data []byte, tool, inExt string, args func(in, out string) []string) (*image.RGBA, error) {
	dir, err := os.MkdirTemp("", "wsibench-dec-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in"+inExt)
	out := filepath.Join(dir, "out.png")
	if err := os.WriteFile(in, data, 0o644); err != nil {
		return nil, err
	}

	cmd := exec.Command(tool, args(in, out)...)
	if msg, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", tool, err, strings.TrimSpace(string(msg)))
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s output: %w", tool, err)
	}
	return toRGBA(img), nil
}
