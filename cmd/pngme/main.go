// pngme — CLI entry point.
//
// This tool hides messages inside PNG files by storing them in extra
// chunks. The image data and every existing chunk are left untouched, so
// the file still opens in any viewer.
//
//	pngme encode <file> <chunk-type> <message> [output-file]
//	pngme decode <file> <chunk-type>
//	pngme remove <file> <chunk-type>
//	pngme print  <file>
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/1ureka/pngme/internal/app"
	"github.com/1ureka/pngme/internal/config"
	"github.com/1ureka/pngme/internal/payload"
	"github.com/1ureka/pngme/internal/png"
	"github.com/1ureka/pngme/internal/util"
)

var version = "dev"

// passphraseEnv is read when neither --passphrase nor --ask-passphrase is
// given.
const passphraseEnv = "PNGME_PASSPHRASE"

const usage = `Usage: pngme [--config FILE] [--debug] <command> [flags] <args>

Commands:
  encode <file> <chunk-type> <message> [output-file]   hide a message
  decode <file> <chunk-type>                           show a hidden message
  remove <file> <chunk-type>                           delete a hidden message
  print  <file>                                        list hidden messages

Run "pngme <command> --help" for command flags.
`

func main() {
	global := pflag.NewFlagSet("pngme", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := global.String("config", "", "YAML config file (default $"+config.EnvVar+")")
	debugMode := global.Bool("debug", false, "Enable debug logging")
	showVersion := global.Bool("version", false, "Print the version and exit")

	if err := global.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if *showVersion {
		pterm.Println(fmt.Sprintf("pngme %s", version))
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
	if *debugMode || cfg.Debug {
		util.EnableDebug()
	}

	args := global.Args()
	if len(args) == 0 {
		global.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "encode":
		runEncode(cfg, args[1:])
	case "decode":
		runDecode(args[1:])
	case "remove":
		runRemove(args[1:])
	case "print":
		runPrint(cfg, args[1:])
	default:
		util.LogError("unknown command %q", args[0])
		global.Usage()
		os.Exit(2)
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func runEncode(cfg *config.Config, args []string) {
	flags := newFlagSet("encode", "<file> <chunk-type> <message> [output-file]")
	compress := flags.Bool("compress", cfg.Encode.Compress, "zstd-compress the message")
	force := flags.Bool("force", false, "Overwrite output-file if it exists")
	secret := addPassphraseFlags(flags)
	args = parseFlags(flags, args, 3, 4)

	passphrase, err := secret.resolve(true)
	if err != nil {
		fail(err)
	}
	req := app.EncodeRequest{
		Path:      args[0],
		ChunkType: args[1],
		Message:   args[2],
		Force:     *force,
		Payload: payload.Options{
			Compress:   *compress,
			Passphrase: passphrase,
			WorkFactor: cfg.Encode.WorkFactor,
		},
	}
	if len(args) == 4 {
		req.Output = args[3]
	}

	written, err := app.Encode(req)
	if err != nil {
		fail(err)
	}
	pterm.Success.Println(fmt.Sprintf("The message has been added to '%s'.", filepath.Base(written)))
}

func runDecode(args []string) {
	flags := newFlagSet("decode", "<file> <chunk-type>")
	secret := addPassphraseFlags(flags)
	args = parseFlags(flags, args, 2, 2)

	passphrase, err := secret.resolve(false)
	if err != nil {
		fail(err)
	}
	message, found, err := app.Decode(args[0], args[1], passphrase)
	if err != nil {
		fail(err)
	}
	if !found {
		pterm.Warning.Println("Message not found")
		return
	}
	pterm.Info.Println(decodedLine(args[0], message))
}

func runRemove(args []string) {
	flags := newFlagSet("remove", "<file> <chunk-type>")
	secret := addPassphraseFlags(flags)
	args = parseFlags(flags, args, 2, 2)

	passphrase, err := secret.resolve(false)
	if err != nil {
		fail(err)
	}
	removed, err := app.Remove(args[0], args[1])
	if err != nil {
		fail(err)
	}

	message, err := app.Message(removed, passphrase)
	if err != nil {
		// The chunk is gone either way; only its content cannot be shown.
		util.LogDebug("removed chunk is not displayable: %v", err)
		pterm.Success.Println(fmt.Sprintf("Chunk %s (%d bytes) has been removed.", removed.Type(), removed.Length()))
		return
	}
	pterm.Success.Println(removedLine(message))
}

func runPrint(cfg *config.Config, args []string) {
	flags := newFlagSet("print", "<file>")
	all := flags.Bool("all", false, "List every chunk instead of hidden messages only")
	args = parseFlags(flags, args, 1, 1)

	if *all {
		printChunkTable(args[0])
		return
	}

	secrets, err := app.Secrets(args[0], cfg)
	if err != nil {
		fail(err)
	}
	if len(secrets) == 0 {
		pterm.Info.Println("No secret found.")
		return
	}
	for _, s := range secrets {
		pterm.Println(secretLine(s))
	}
}

// Result lines print messages verbatim between literal quotes.

func decodedLine(path, message string) string {
	return fmt.Sprintf("The message in '%s' is \"%s\".", filepath.Base(path), message)
}

func removedLine(message string) string {
	return fmt.Sprintf("\"%s\" message has been removed.", message)
}

func secretLine(s app.Secret) string {
	if s.Stages&payload.StageAge != 0 {
		return fmt.Sprintf("Key '%s' has an encrypted secret (%s)", s.ChunkType, s.Stages)
	}
	return fmt.Sprintf("Key '%s' has secret : \"%s\"", s.ChunkType, s.Message)
}

// printChunkTable renders every chunk of the file as a table.
func printChunkTable(path string) {
	infos, err := app.Inspect(path)
	if err != nil {
		fail(err)
	}

	data := pterm.TableData{{"#", "Offset", "Type", "Flags", "Length", "CRC", "BLAKE3"}}
	for _, info := range infos {
		data = append(data, []string{
			fmt.Sprintf("%d", info.Index),
			fmt.Sprintf("%d", info.Offset),
			info.Type.String(),
			app.Flags(info.Type),
			util.FormatBytes(uint64(info.Length)),
			fmt.Sprintf("%08x", info.CRC),
			info.Digest,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fail(err)
	}
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

// newFlagSet returns a subcommand flag set whose usage names its
// positional arguments.
func newFlagSet(name, positional string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pngme %s [flags] %s\n\nFlags:\n%s", name, positional, flags.FlagUsages())
	}
	return flags
}

// parseFlags parses args and exits unless the number of positional
// arguments lies in [lo, hi].
func parseFlags(flags *pflag.FlagSet, args []string, lo, hi int) []string {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	rest := flags.Args()
	if len(rest) < lo || len(rest) > hi {
		util.LogError("%s: expected %s, got %d", flags.Name(), argCount(lo, hi), len(rest))
		flags.Usage()
		os.Exit(2)
	}
	return rest
}

func argCount(lo, hi int) string {
	if lo == hi {
		return fmt.Sprintf("%d arguments", lo)
	}
	return fmt.Sprintf("%d to %d arguments", lo, hi)
}

// passphraseFlags holds the ways a passphrase can be supplied.
type passphraseFlags struct {
	value *string
	ask   *bool
}

func addPassphraseFlags(flags *pflag.FlagSet) passphraseFlags {
	return passphraseFlags{
		value: flags.String("passphrase", "", "Passphrase for age encryption (default $"+passphraseEnv+")"),
		ask:   flags.Bool("ask-passphrase", false, "Prompt for the passphrase"),
	}
}

// resolve returns the passphrase from the flag, the prompt or the
// environment, in that order. confirm asks twice when prompting.
func (p passphraseFlags) resolve(confirm bool) (string, error) {
	if *p.value != "" {
		return *p.value, nil
	}
	if *p.ask {
		return askPassphrase(terminalPrompt, confirm)
	}
	return os.Getenv(passphraseEnv), nil
}

// promptFunc reads one masked line from the user.
type promptFunc func(label string) (string, error)

func terminalPrompt(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.
		WithMask("*").
		WithDefaultText(label).
		Show()
}

// askPassphrase prompts until a non-empty passphrase is entered (and, with
// confirm, entered twice identically). A failing prompt, such as one with
// no terminal attached, ends the loop with its error.
func askPassphrase(prompt promptFunc, confirm bool) (string, error) {
	for {
		first, err := prompt("Passphrase")
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		first = strings.TrimRight(first, "\r\n")

		if first == "" {
			util.LogWarning("passphrase must not be empty")
			continue
		}
		if !confirm {
			return first, nil
		}

		second, err := prompt("Confirm passphrase")
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		if strings.TrimRight(second, "\r\n") == first {
			pterm.Println()
			return first, nil
		}

		util.LogWarning("passphrases do not match")
		pterm.Println()
	}
}

// fail logs err with a hint for the common failure kinds and exits.
func fail(err error) {
	switch {
	case errors.Is(err, png.ErrChecksum):
		util.LogError("%v (the file is corrupted)", err)
	case errors.Is(err, png.ErrTruncated):
		util.LogError("%v (the file is incomplete)", err)
	case errors.Is(err, payload.ErrPassphrase):
		util.LogError("%v (use --passphrase or --ask-passphrase)", err)
	default:
		util.LogError("%v", err)
	}
	os.Exit(1)
}
