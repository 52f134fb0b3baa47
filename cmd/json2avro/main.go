package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	jsonavro "github.com/reoring/jsonavro"
	"github.com/reoring/jsonavro/avsc"
	"github.com/reoring/jsonavro/codec"
	"github.com/reoring/jsonavro/i18n"
)

const (
	modeJSON2Avro      = "json2avro"
	modeAvro2JSON      = "avro2json"
	modeJSON2Avro2JSON = "json2avro2json"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cli struct {
	schema, input, output string
	mode, config, sel     string
	compression, lang     string
	debug                 bool
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(fs.Output(), "json2avro: convert JSON documents to Avro records and back\n\nUsage:\n  json2avro -s schema.avsc [-i input] [-o output] [-m json2avro|avro2json|json2avro2json]\n\nFlags:")
		fs.PrintDefaults()
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("json2avro", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)
	var c cli
	fs.StringVar(&c.schema, "s", "", "Avro schema file (.avsc JSON, or .yaml/.yml)")
	fs.StringVar(&c.input, "i", "-", "input file, - for stdin")
	fs.StringVar(&c.output, "o", "-", "output file, - for stdout")
	fs.StringVar(&c.mode, "m", modeJSON2Avro, "mode: json2avro, avro2json or json2avro2json")
	fs.StringVar(&c.config, "config", "", "YAML conversion config")
	fs.StringVar(&c.sel, "select", "", "gjson path selecting the document inside the input")
	fs.StringVar(&c.compression, "codec", codec.CompressionNull, "container compression: null, deflate or snappy")
	fs.StringVar(&c.lang, "lang", "en", "message language: en or ja")
	fs.BoolVar(&c.debug, "debug", false, "log each stage")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if c.schema == "" {
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if c.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	i18n.SetLanguage(c.lang)

	if err := c.exec(logger, stdin, stdout); err != nil {
		report(logger, err)
		return 1
	}
	return 0
}

func report(logger *slog.Logger, err error) {
	if iss, ok := jsonavro.AsIssues(err); ok {
		for _, it := range iss {
			logger.Error(it.Message, "code", it.Code, "path", it.Path)
		}
		return
	}
	logger.Error(err.Error())
}

func (c cli) exec(logger *slog.Logger, stdin io.Reader, stdout io.Writer) error {
	s, err := loadSchema(c.schema)
	if err != nil {
		return err
	}
	logger.Debug("schema loaded", "name", s.Name, "fields", len(s.Fields))
	avro, err := codec.ForSchema(s)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c.config)
	if err != nil {
		return err
	}
	opts, err := cfg.options(logger)
	if err != nil {
		return err
	}
	opts.Decode.Select = c.sel
	conv := jsonavro.New(opts)

	in, closeIn, err := openInput(c.input, stdin)
	if err != nil {
		return err
	}
	defer closeIn()
	out, closeOut, err := openOutput(c.output, stdout)
	if err != nil {
		return err
	}

	switch c.mode {
	case modeJSON2Avro:
		recs, err := c.convert(logger, conv, s, in)
		if err == nil {
			err = avro.WriteContainer(out, c.compression, recs...)
		}
		return closeOut(err)
	case modeAvro2JSON:
		w := bufio.NewWriter(out)
		err := avro.ReadContainer(in, func(i int, rec *jsonavro.Record) error {
			logger.Debug("record read", "index", i)
			return writeLine(w, rec)
		})
		if err == nil {
			err = w.Flush()
		}
		return closeOut(err)
	case modeJSON2Avro2JSON:
		recs, err := c.convert(logger, conv, s, in)
		w := bufio.NewWriter(out)
		for i := 0; err == nil && i < len(recs); i++ {
			var bin []byte
			if bin, err = avro.Binary(recs[i]); err != nil {
				break
			}
			logger.Debug("record encoded", "index", i, "bytes", len(bin))
			var back *jsonavro.Record
			if back, err = avro.Decode(bin); err != nil {
				break
			}
			err = writeLine(w, back)
		}
		if err == nil {
			err = w.Flush()
		}
		return closeOut(err)
	}
	return closeOut(fmt.Errorf("unknown mode %q", c.mode))
}

func (c cli) convert(logger *slog.Logger, conv *jsonavro.Converter, s *avsc.Schema, in io.Reader) ([]*jsonavro.Record, error) {
	if c.sel != "" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		rec, err := conv.ConvertBytes(data, s)
		if err != nil {
			return nil, err
		}
		logger.Debug("record converted", "index", 0, "select", c.sel)
		return []*jsonavro.Record{rec}, nil
	}
	var recs []*jsonavro.Record
	err := conv.ConvertReader(in, s, func(i int, rec *jsonavro.Record) error {
		logger.Debug("record converted", "index", i)
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

func writeLine(w io.Writer, rec *jsonavro.Record) error {
	b, err := codec.MarshalJSON(rec)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func loadSchema(path string) (*avsc.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return avsc.ParseYAML(data)
	}
	return avsc.Parse(data)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// openOutput returns the writer and a finisher that closes it and keeps the
// first error.
func openOutput(path string, stdout io.Writer) (io.Writer, func(error) error, error) {
	if path == "" || path == "-" {
		return stdout, func(err error) error { return err }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func(err error) error {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}
