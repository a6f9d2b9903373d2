package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/EchoTools/texdecode/pkg/container"
)

func runInfo(args []string) error {
	fs := newFlagSet("info", "input.(dds|meta)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("info needs one input path")
	}

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".meta") {
		m, err := container.ParseMetadata(f)
		if err != nil {
			return err
		}
		fmt.Println(m)
		info, err := m.Info()
		if err != nil {
			return err
		}
		printMips(os.Stdout, info)
		return nil
	}

	info, err := container.ParseDDS(f)
	if err != nil {
		return fmt.Errorf("parse header: %w", err)
	}
	printInfo(os.Stdout, path, info)
	return nil
}

func printInfo(w io.Writer, path string, info *container.DDSInfo) {
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Dimensions: %dx%d\n", info.Width, info.Height)
	fmt.Fprintf(w, "Mip levels: %d\n", info.MipLevels)
	if info.FourCC != "" && info.FourCC != "DX10" {
		fmt.Fprintf(w, "Format: %s (FourCC %s)\n", info.Format, info.FourCC)
	} else {
		fmt.Fprintf(w, "Format: %s (DXGI %d, %s)\n", info.Format, info.DXGIFormat, container.DXGIName(info.DXGIFormat))
	}
	fmt.Fprintf(w, "Data offset: 0x%x\n", info.DataOffset)
	size := info.DataSize()
	fmt.Fprintf(w, "Data size: %d bytes (%.2f KB)\n", size, float64(size)/1024)
	printMips(w, info)
}

func printMips(w io.Writer, info *container.DDSInfo) {
	for level := 0; level < int(info.MipLevels); level++ {
		mip, err := info.MipRange(level)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "  mip %d: %dx%d, %d bytes at 0x%x\n", mip.Level, mip.Width, mip.Height, mip.Size, mip.Offset)
	}
}
