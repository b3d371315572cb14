package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/reader"
)

// Config is the content of a JSON config file. Command line flags overwrite
// all values of the file.
type Config struct {
	Input     string `json:"input"`
	OutputDir string `json:"outputdir"`
	Format    string `json:"format"`
	Validate  *bool  `json:"validate"`
	Workers   int    `json:"workers"`
	Quiet     bool   `json:"quiet"`
	Debug     bool   `json:"debug"`
	Progress  string `json:"progress"`
}

const defaultOutputDir = "."
const defaultProgress = 5 * time.Second

type Options struct {
	Input       string
	OutputDir   string
	Format      reader.Format
	Validate    bool
	Workers     int
	Quiet       bool
	Debug       bool
	Progress    time.Duration
	ConfigFile  string
	Httpprofile string
}

type convertFlags struct {
	*flag.FlagSet
	opts   Options
	format string
}

func newConvertFlags(output io.Writer) *convertFlags {
	f := &convertFlags{FlagSet: flag.NewFlagSet("convert", flag.ContinueOnError)}
	f.SetOutput(output)
	f.StringVar(&f.opts.Input, "input", "", "OSM file (.osm, .osm.gz, .osm.pbf, .osc), - for stdin")
	f.StringVar(&f.opts.OutputDir, "outputdir", defaultOutputDir, "directory for the CSV files")
	f.StringVar(&f.format, "format", string(reader.FormatAuto), "input format: auto, xml, pbf or osc")
	f.BoolVar(&f.opts.Validate, "validate", true, "skip elements that do not match the table schema")
	f.IntVar(&f.opts.Workers, "workers", 1, "number of shaping goroutines")
	f.BoolVar(&f.opts.Quiet, "quiet", false, "only log warnings and errors")
	f.BoolVar(&f.opts.Debug, "debug", false, "log debug messages")
	f.DurationVar(&f.opts.Progress, "progress", defaultProgress, "progress log interval, 0 to disable")
	f.StringVar(&f.opts.ConfigFile, "config", "", "config (json)")
	f.StringVar(&f.opts.Httpprofile, "httpprofile", "", "bind address for profile server")
	return f
}

func (f *convertFlags) isSet(name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

func (f *convertFlags) updateFromConfig() error {
	if f.opts.ConfigFile == "" {
		return nil
	}
	r, err := os.Open(f.opts.ConfigFile)
	if err != nil {
		return errors.Wrap(err, "opening config")
	}
	defer r.Close()

	conf := Config{}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&conf); err != nil {
		return errors.Wrapf(err, "parsing config %s", f.opts.ConfigFile)
	}

	if conf.Input != "" && !f.isSet("input") {
		f.opts.Input = conf.Input
	}
	if conf.OutputDir != "" && !f.isSet("outputdir") {
		f.opts.OutputDir = conf.OutputDir
	}
	if conf.Format != "" && !f.isSet("format") {
		f.format = conf.Format
	}
	if conf.Validate != nil && !f.isSet("validate") {
		f.opts.Validate = *conf.Validate
	}
	if conf.Workers != 0 && !f.isSet("workers") {
		f.opts.Workers = conf.Workers
	}
	if conf.Quiet && !f.isSet("quiet") {
		f.opts.Quiet = true
	}
	if conf.Debug && !f.isSet("debug") {
		f.opts.Debug = true
	}
	if conf.Progress != "" && !f.isSet("progress") {
		d, err := time.ParseDuration(conf.Progress)
		if err != nil {
			return errors.Wrapf(err, "parsing progress of config %s", f.opts.ConfigFile)
		}
		f.opts.Progress = d
	}
	return nil
}

func (f *convertFlags) check() []error {
	errs := []error{}
	if f.opts.Input == "" {
		errs = append(errs, errors.New("missing input"))
	}
	format, err := reader.ParseFormat(f.format)
	if err != nil {
		errs = append(errs, err)
	}
	f.opts.Format = format
	if f.opts.Workers < 1 {
		errs = append(errs, errors.Errorf("workers must be at least 1, got %d", f.opts.Workers))
	} else if f.opts.Workers > 4*runtime.NumCPU() {
		errs = append(errs, errors.Errorf("workers must not exceed %d", 4*runtime.NumCPU()))
	}
	if f.opts.Quiet && f.opts.Debug {
		errs = append(errs, errors.New("-quiet and -debug are exclusive"))
	}
	if f.opts.Progress < 0 {
		errs = append(errs, errors.New("progress interval must not be negative"))
	}
	return errs
}

// ConfigErrors contains all problems of the options.
type ConfigErrors []error

func (e ConfigErrors) Error() string {
	msg := "errors in config/options:"
	for _, err := range e {
		msg += "\n\t" + err.Error()
	}
	return msg
}

// ParseConvert parses the arguments of the convert command. The input can
// also be passed as the only positional argument. Errors of invalid flags
// are returned as is, all other problems are collected in ConfigErrors.
func ParseConvert(args []string) (Options, error) {
	return parseConvert(args, os.Stderr)
}

func parseConvert(args []string, output io.Writer) (Options, error) {
	f := newConvertFlags(output)
	if err := f.Parse(args); err != nil {
		return Options{}, err
	}
	var arg string
	switch f.NArg() {
	case 0:
	case 1:
		if f.opts.Input != "" {
			return Options{}, ConfigErrors{errors.New("input given as flag and argument")}
		}
		arg = f.Arg(0)
	default:
		return Options{}, ConfigErrors{errors.Errorf("only one input supported, got %d", f.NArg())}
	}
	if err := f.updateFromConfig(); err != nil {
		return Options{}, err
	}
	// the argument overwrites the config file like the -input flag
	if arg != "" {
		f.opts.Input = arg
	}
	if errs := f.check(); len(errs) != 0 {
		return Options{}, ConfigErrors(errs)
	}
	return f.opts, nil
}

// UsageConvert prints the flags of the convert command.
func UsageConvert(w io.Writer, cmd string) {
	fmt.Fprintf(w, "Usage: %s convert [args] [input]\n\n", cmd)
	f := newConvertFlags(w)
	f.PrintDefaults()
}
