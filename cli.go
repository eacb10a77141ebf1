package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"chipdec/emu/log"
)

type mode byte

const (
	convertMode mode = iota // Convert a music file to WAV
	infosMode               // Show file infos
	playMode                // Play on the audio device
	versionMode             // Show chipdec version
)

type (
	CLI struct {
		Convert Convert `cmd:"" help:"Convert a VGM or NSF file to WAV. (default command)" default:"withargs"`
		Infos   Infos   `cmd:"" help:"Show infos about a music file."`
		Play    Play    `cmd:"" help:"Play a music file on the default audio device."`
		Version Version `cmd:"" help:"Show chipdec version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Convert struct {
		Input  string `arg:"" name:"input" help:"${input_help}" required:"" type:"existingfile"`
		Output string `arg:"" name:"output" help:"Destination WAV file." required:""`
		Track  int    `arg:"" name:"track" help:"Track index to convert (NSF only)." optional:"" default:"0"`

		Volume    uint16 `name:"volume" help:"Chip volume in percent." default:"${default_volume}"`
		Rate      uint32 `name:"rate" help:"Output sample rate in Hz." default:"${default_rate}"`
		Duration  uint32 `name:"duration" help:"Duration cap in milliseconds." default:"${default_duration}"`
		NoFade    bool   `name:"no-fade" help:"Disable the end-of-track fade." default:"${default_nofade}"`
		AllTracks bool   `name:"all-tracks" help:"Convert every track to its own WAV file."`
	}

	Infos struct {
		Input string `arg:"" name:"input" type:"existingfile"`
		JSON  bool   `name:"json" help:"Emit machine-readable JSON."`
	}

	Play struct {
		Input string `arg:"" name:"input" required:"" type:"existingfile"`
		Track int    `arg:"" name:"track" optional:"" default:"0"`

		Volume   uint16 `name:"volume" help:"Chip volume in percent." default:"${default_volume}"`
		Duration uint32 `name:"duration" help:"Duration cap in milliseconds." default:"${default_duration}"`
		NoFade   bool   `name:"no-fade" help:"Disable the end-of-track fade." default:"${default_nofade}"`
	}

	Version struct{}
)

func parseArgs(args []string, cfg Config) CLI {
	vars := kong.Vars{
		"input_help":       "VGM or NSF file to decode.",
		"log_help":         "Enable logging for specified modules.",
		"default_volume":   fmt.Sprint(cfg.Volume),
		"default_rate":     fmt.Sprint(cfg.Rate),
		"default_duration": fmt.Sprint(cfg.DurationMs),
		"default_nofade":   fmt.Sprint(!cfg.Fade),
	}

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("chipdec"),
		kong.Description("Retro video-game music decoder. Converts VGM and NSF files to PCM."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch {
	case ctx.Command() == "version":
		cli.mode = versionMode
	case strings.HasPrefix(ctx.Command(), "infos"):
		cli.mode = infosMode
	case strings.HasPrefix(ctx.Command(), "play"):
		cli.mode = playMode
	default:
		cli.mode = convertMode
	}
	return cli
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}
