package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/protoson/pson"
	"github.com/protoson/pson/arena"
	"github.com/protoson/pson/bridge"
)

func main() {
	var (
		inFormat    = pflag.String("from", "pson", "Input format: pson, json, yaml, cbor")
		outFormat   = pflag.String("to", "json", "Output format: json, yaml, cbor, pson")
		outFile     = pflag.StringP("out", "o", "", "Output file (default stdout)")
		ringSize    = pflag.Int("ring", 0, "Decode with a ring allocator of N bytes (0 = heap)")
		verbose     = pflag.BoolP("verbose", "v", false, "Log decode statistics")
		interactive = pflag.BoolP("interactive", "i", false, "Interactive mode with TUI")
	)
	pflag.Parse()

	input := pflag.Arg(0)

	if *interactive {
		if input == "" {
			fmt.Fprintln(os.Stderr, "Usage: pson -i <file.pson>")
			os.Exit(1)
		}
		if err := runInteractive(input, *ringSize); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(input, *inFormat, *outFormat, *outFile, *ringSize, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, inFormat, outFormat, outFile string, ringSize int, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		logger = dev
		defer logger.Sync()
	}

	data, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var alloc arena.Allocator
	allocName := "heap"
	if ringSize > 0 {
		alloc = arena.NewRing(ringSize)
		allocName = fmt.Sprintf("ring(%d)", ringSize)
	}

	v, err := load(data, inFormat, alloc)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inFormat, err)
	}
	logger.Info("decoded document",
		zap.String("format", inFormat),
		zap.Int("bytes", len(data)),
		zap.String("allocator", allocName),
		zap.String("kind", v.Type().String()),
	)

	out, binary, err := render(v, outFormat)
	if err != nil {
		return fmt.Errorf("encode %s: %w", outFormat, err)
	}
	logger.Info("encoded document",
		zap.String("format", outFormat),
		zap.Int("bytes", len(out)),
	)

	return writeOutput(outFile, out, binary)
}

func readInput(input string) ([]byte, error) {
	if input == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(input)
}

func load(data []byte, format string, alloc arena.Allocator) (*pson.Value, error) {
	switch format {
	case "pson":
		return pson.Parse(data, alloc)
	case "json":
		return bridge.UnmarshalJSON(data, alloc)
	case "yaml":
		return bridge.UnmarshalYAML(data, alloc)
	case "cbor":
		return bridge.UnmarshalCBOR(data, alloc)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func render(v *pson.Value, format string) (out []byte, binary bool, err error) {
	switch format {
	case "json":
		out, err = bridge.MarshalJSON(v)
		out = append(out, '\n')
	case "yaml":
		out, err = bridge.MarshalYAML(v)
	case "cbor":
		out, err = bridge.MarshalCBOR(v)
		binary = true
	case "pson":
		var buf bytes.Buffer
		err = pson.NewEncoder(&buf).Encode(v)
		out = buf.Bytes()
		binary = true
	default:
		err = fmt.Errorf("unknown output format %q", format)
	}
	return out, binary, err
}

// writeOutput refuses to dump raw binary onto an interactive terminal and
// hex-encodes it instead.
func writeOutput(outFile string, out []byte, binary bool) error {
	if outFile != "" {
		return os.WriteFile(outFile, out, 0o644)
	}
	if binary && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(hex.EncodeToString(out))
		return nil
	}
	_, err := os.Stdout.Write(out)
	return err
}
