package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/format"
	"github.com/gopherjs/sourcemap/internal/errorList"
	"github.com/gopherjs/sourcemap/internal/sourcemapx"
)

const mappingURLPrefix = "//# sourceMappingURL="

func newConcatCmd(opts *options) *cobra.Command {
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "concat -o <bundle.js> <file.js>...",
		Short: "Concatenate JavaScript files and merge their source maps",
		Long: `Concatenate JavaScript files into a bundle and write the merged source map
next to it as <bundle.js>.map.

A file's own map is taken from <file.js>.map if it exists. Files without a
map are mapped line by line onto themselves, with their text embedded as
source content.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out.output == "" {
				return fmt.Errorf("--output is required")
			}
			c := &concatenator{loader: newLoader(opts), projectRoot: opts.projectRoot}
			return c.run(cmd.Context(), args, out)
		},
	}
	out.register(cmd.Flags())
	return cmd
}

type concatenator struct {
	loader      *loader
	projectRoot string
}

// input is a JavaScript file to be bundled.
type input struct {
	path string
	code []byte
	// Source map of the file, nil if it has none.
	sm *sourcemap.SourceMap
}

func (c *concatenator) readInputs(ctx context.Context, paths []string) ([]input, error) {
	inputs := make([]input, len(paths))
	var mapPaths []string
	var mapped []int
	var errs errorList.ErrorList
	for i, path := range paths {
		code, err := os.ReadFile(path)
		if err != nil {
			errs = errs.Append(err)
			continue
		}
		inputs[i] = input{path: path, code: stripMappingURL(code)}
		if _, err := os.Stat(path + ".map"); err == nil {
			mapPaths = append(mapPaths, path+".map")
			mapped = append(mapped, i)
		}
	}
	if err := errs.Trim(c.loader.maxErrors).ErrOrNil(); err != nil {
		return nil, err
	}

	maps, err := c.loader.loadAll(ctx, mapPaths)
	if err != nil {
		return nil, err
	}
	for j, i := range mapped {
		inputs[i].sm = maps[j]
	}
	return inputs, nil
}

// bundle writes the inputs into w and returns the source map of the result.
func (c *concatenator) bundle(inputs []input, w io.Writer) (*sourcemap.SourceMap, error) {
	result := sourcemap.New(c.projectRoot)
	chunks := map[string]*sourcemap.SourceMap{}
	var errs errorList.ErrorList

	filter := &sourcemapx.Filter{
		Writer: w,
		MappingCallback: func(generatedLine, generatedColumn int, origin sourcemapx.Origin) {
			errs = errs.Append(result.AddIndexedMapping(sourcemap.Mapping{
				Generated: sourcemap.Position{Line: generatedLine, Column: generatedColumn},
				Original:  &sourcemap.Position{Line: origin.Line, Column: origin.Column},
				Source:    origin.Source,
				Name:      origin.Name,
			}, 0, 0))
		},
		ChunkCallback: func(generatedLine, generatedColumn int, chunk sourcemapx.Chunk) {
			if err := result.AddSourceMap(chunks[chunk.ID], generatedLine-1, generatedColumn); err != nil {
				errs = errs.Append(fmt.Errorf("%s: %w", chunk.ID, err))
			}
		},
	}

	for _, in := range inputs {
		if in.sm != nil {
			chunks[in.path] = in.sm
		} else {
			result.SetSourceContent(in.path, string(in.code))
		}
		if err := writeInput(filter, in); err != nil {
			return nil, err
		}
	}
	return result, errs.ErrOrNil()
}

// writeInput writes the code of a single input, terminated by a newline.
//
// Code with its own map is preceded by a chunk hint. Other code gets a hint at
// the start of every line, mapping it onto the same line of the source. Only
// hints are scanned by the filter, the code itself is written verbatim.
func writeInput(f *sourcemapx.Filter, in input) error {
	code := in.code
	if len(code) > 0 && code[len(code)-1] != '\n' {
		code = append(code[:len(code):len(code)], '\n')
	}
	if in.sm != nil {
		if _, err := io.WriteString(f, sourcemapx.Chunk{ID: in.path}.EncodeHint()); err != nil {
			return err
		}
		_, err := f.WriteVerbatim(code)
		return err
	}
	for i, line := range bytes.SplitAfter(code, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if _, err := io.WriteString(f, sourcemapx.Origin{Source: in.path, Line: i + 1}.EncodeHint()); err != nil {
			return err
		}
		if _, err := f.WriteVerbatim(line); err != nil {
			return err
		}
	}
	return nil
}

func (c *concatenator) run(ctx context.Context, paths []string, out *outputOptions) error {
	inputs, err := c.readInputs(ctx, paths)
	if err != nil {
		return err
	}

	code := &bytes.Buffer{}
	sm, err := c.bundle(inputs, code)
	if err != nil {
		return err
	}

	mapPath := out.output + ".map"
	fmt.Fprint(code, format.MappingURLComment(filepath.Base(mapPath)))
	if err := writeFileAtomic(out.output, code.Bytes()); err != nil {
		return err
	}

	mapOut := *out
	mapOut.output = mapPath
	if mapOut.file == "" {
		mapOut.file = filepath.Base(out.output)
	}
	if err := mapOut.writeMap(sm, nil); err != nil {
		return err
	}
	log.Infof("Bundled %d files into %s.", len(inputs), out.output)
	return nil
}

// stripMappingURL removes sourceMappingURL comment lines, which would point
// to the input's map from within the bundle.
func stripMappingURL(code []byte) []byte {
	lines := bytes.SplitAfter(code, []byte("\n"))
	result := make([]byte, 0, len(code))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(string(line)), mappingURLPrefix) {
			continue
		}
		result = append(result, line...)
	}
	return result
}
