package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/camstack/camstack/imgrec"
	"github.com/camstack/camstack/ocam"
	"github.com/camstack/camstack/util"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/pkg/errors"

	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "ocamremap.yml"

	// EnvPrefix prefixes environment variables that override the config file
	EnvPrefix = "OCAMREMAP_"

	k = koanf.New(".")

	envKeys = map[string]string{
		"OUTPUTDIR": "OutputDir",
		"MODES":     "Modes",
		"VERIFY":    "Verify",
	}
)

type config struct {
	// OutputDir is the folder the tables are written to
	OutputDir string `koanf:"OutputDir" yaml:"OutputDir"`

	// Modes lists the sensor modes to generate tables for, by name or ID
	Modes []string `koanf:"Modes" yaml:"Modes"`

	// Verify reads the files back after writing and checks them
	Verify bool `koanf:"Verify" yaml:"Verify"`
}

func defaults() config {
	return config{
		OutputDir: ".",
		Modes:     []string{ocam.Full.Name, ocam.Binned.Name},
		Verify:    true,
	}
}

// envValue maps an OCAMREMAP_ variable onto its config key, splitting
// list values on commas
func envValue(name, value string) (string, interface{}) {
	key := envKeys[strings.TrimPrefix(name, EnvPrefix)]
	if key != "Modes" {
		return key, value
	}
	modes := []string{}
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			modes = append(modes, s)
		}
	}
	return key, modes
}

func setupconfig() {
	k = koanf.New(".")
	k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		log.Fatalf("error loading environment: %v", err)
	}
}

func loadconfig() config {
	c := config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	return c
}

func root() {
	str := `ocamremap generates the pixel remapping tables of the OCAM2K EMCCD.
The tables turn the interleaved 8-amplifier framegrabber readout into
a geometrically correct sensor image and back.

Usage:
	ocamremap [command]

Commands:
	run (default)
	check
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `ocamremap is amenable to configuration via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

When no configuration is provided, the defaults are used.  Keys are case-sensitive.
The command mkconf generates the configuration file with the default values.
Each key may also be set through the environment, e.g. OCAMREMAP_OUTPUTDIR=/tmp/maps
or OCAMREMAP_MODES=full,binned.

run writes, per mode, into OutputDir:
	full   (1): ocam2kpixi_1_REV.fits  240x240 sensor -> raw index
	            ocam2kpixi_1.fits      121x528 raw -> sensor index
	binned (3): ocam2kpixi_3_REV.fits  120x120 sensor -> raw index
	            ocam2kpixi_3.fits       62x528 raw -> sensor index

Files are written to a temporary name and renamed into place.  If writing
either file of a mode fails, both files of that mode are removed.

check reads the files in OutputDir and verifies that the reverse map is
injective, in range, and inverted by the forward map.`
	fmt.Println(str)
}

func mkconf() {
	c := loadconfig()
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := loadconfig()
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("ocamremap version %v\n", Version)
}

func parseModes(names []string) ([]ocam.Mode, error) {
	if len(names) == 0 {
		return nil, errors.New("no modes configured")
	}
	modes := make([]ocam.Mode, 0, len(names))
	for _, n := range names {
		m, err := ocam.ModeByName(n)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// generate builds, writes, and optionally re-reads the tables of each mode
func generate(cfg config) ([]ocam.Tables, error) {
	modes, err := parseModes(cfg.Modes)
	if err != nil {
		return nil, err
	}
	rec := &imgrec.Recorder{Root: cfg.OutputDir}
	out := make([]ocam.Tables, 0, len(modes))
	for _, m := range modes {
		t, err := ocam.Generate(m)
		if err != nil {
			return nil, err
		}
		log.Printf("%s: sensor shape (%d, %d)\n", m, t.Reverse.Rows, t.Reverse.Cols)
		paths, err := rec.WriteTables(t)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			log.Println("wrote", p)
		}
		if cfg.Verify {
			back, err := rec.ReadTables(m)
			if err != nil {
				return nil, err
			}
			if err = ocam.Validate(back); err != nil {
				return nil, errors.Wrap(err, "verifying written tables")
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// check validates the tables already on disk
func check(cfg config) error {
	modes, err := parseModes(cfg.Modes)
	if err != nil {
		return err
	}
	rec := &imgrec.Recorder{Root: cfg.OutputDir}
	for _, m := range modes {
		t, err := rec.ReadTables(m)
		if err != nil {
			return err
		}
		if err = ocam.Validate(t); err != nil {
			return err
		}
		rs, fs := t.Reverse.Shape(), t.Forward.Shape()
		log.Printf("%s: ok, %s shape %s, %s shape %s\n", m,
			m.ReverseName(), util.IntSliceToCSV(rs[:]),
			m.ForwardName(), util.IntSliceToCSV(fs[:]))
	}
	return nil
}

func run() {
	if _, err := generate(loadconfig()); err != nil {
		log.Fatal(err)
	}
}

func main() {
	setupconfig()
	cmd := "run"
	if len(os.Args) > 1 {
		cmd = strings.ToLower(os.Args[1])
	}
	switch cmd {
	case "help":
		root()
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "run":
		run()
		return
	case "check":
		if err := check(loadconfig()); err != nil {
			log.Fatal(err)
		}
		return
	case "version":
		pversion()
		return
	default:
		root()
		log.Fatal("unknown command")
	}
}
