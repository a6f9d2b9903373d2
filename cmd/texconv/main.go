// Command texconv decodes GPU texture payloads to image files.
//
// Usage:
//
//	texconv decode [flags] input.dds output.(png|bmp|tiff|raw)
//	texconv raw [flags] input.bin output.(png|bmp|tiff|raw|dds)
//	texconv info input.(dds|meta)
//	texconv batch [flags] input_dir output_dir
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/EchoTools/texdecode/pkg/archive"
	"github.com/EchoTools/texdecode/pkg/texture"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("command is required")
	}

	command, args := args[0], args[1:]
	switch command {
	case "decode":
		return runDecode(args)
	case "raw":
		return runRaw(args)
	case "info":
		return runInfo(args)
	case "batch":
		return runBatch(args)
	case "help", "-h", "-help", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println("texconv - GPU texture decoder")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  texconv decode [flags] <input.dds> <output>     # DDS -> png/bmp/tiff/raw")
	fmt.Println("  texconv raw [flags] <input.bin> <output>        # headerless payload -> image")
	fmt.Println("  texconv info <input.dds|input.meta>             # Show texture info")
	fmt.Println("  texconv batch [flags] <input_dir> <output_dir>  # Decode a directory tree")
	fmt.Println()
	fmt.Println("Run 'texconv <command> -h' for the flags of a command.")
}

func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: texconv %s %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// newLogger builds the stderr logger shared by the CLI and the decoder.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	texture.SetLogger(logger)
	return logger
}

// decodeOptions are the flags shared by decode, raw and batch.
type decodeOptions struct {
	flags    texture.DecodeFlags
	mip      int
	hdr      bool
	preview  int
	strict   bool
	rawCodec archive.Codec
	verbose  bool
}

func (o *decodeOptions) register(fs *flag.FlagSet) {
	o.rawCodec = archive.CodecZSTD
	fs.Func("flags", "post-processing, comma separated: ycocg, normalize, invert, hemioct, ldr", func(s string) error {
		flags, err := texture.ParseFlags(s)
		if err != nil {
			return err
		}
		o.flags = flags
		return nil
	})
	fs.IntVar(&o.mip, "mip", 0, "mip level to decode")
	fs.BoolVar(&o.hdr, "hdr", false, "keep float precision for HDR formats (raw output only)")
	fs.IntVar(&o.preview, "preview", 0, "shrink the image so neither edge exceeds N pixels")
	fs.BoolVar(&o.strict, "strict", false, "fail on reserved BC6H/BC7 block modes")
	fs.Func("raw-codec", "compression of .raw outputs: zstd, lz4 (default zstd)", func(s string) error {
		codec, err := archive.ParseCodec(s)
		if err != nil {
			return err
		}
		if codec == archive.CodecNone {
			return errors.New(".raw outputs are always compressed, use zstd or lz4")
		}
		o.rawCodec = codec
		return nil
	})
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
}

// decode decodes one image into a new surface.
func (o *decodeOptions) decode(data []byte, format texture.Format, width, height int) (*texture.Surface, error) {
	layout := texture.LayoutBGRA8
	if o.hdr {
		layout = texture.PreferredLayout(format, o.flags)
	}
	s := texture.NewSurface(width, height, layout)

	var opts []texture.Option
	if o.strict {
		opts = append(opts, texture.WithStrictModes())
	}
	if err := texture.Decode(s, data, format, o.flags, opts...); err != nil {
		return nil, err
	}
	return s, nil
}
