package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/format"
)

// outputOptions control how a resulting source map is written.
type outputOptions struct {
	output     string
	file       string
	sourceRoot string
	format     string
}

func (o *outputOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.output, "output", "o", "", "output file, stdout if empty")
	fs.StringVar(&o.file, "file", "", `"file" property of the written source map`)
	fs.StringVar(&o.sourceRoot, "source-root", "", `"sourceRoot" property of the written source map`)
	fs.StringVar(&o.format, "format", string(format.String), "output format: string, inline or object")
}

func (o *outputOptions) formatOptions() format.Options {
	return format.Options{
		File:       o.file,
		SourceRoot: o.sourceRoot,
		Format:     format.Kind(o.format),
	}
}

// writeMap stringifies the map and writes it to the output file, or to w if
// no output file is set.
func (o *outputOptions) writeMap(sm *sourcemap.SourceMap, w io.Writer) error {
	result, err := sm.Stringify(o.formatOptions())
	if err != nil {
		return err
	}
	data := []byte(result.Text)
	if result.Map != nil {
		if data, err = result.Map.Marshal(); err != nil {
			return err
		}
	}
	if o.output != "" {
		err = writeFileAtomic(o.output, data)
	} else {
		_, err = w.Write(data)
	}
	if err != nil {
		return fmt.Errorf("failed to write source map: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
