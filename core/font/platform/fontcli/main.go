package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/npillmayer/platfont/core"
	"github.com/npillmayer/platfont/core/font/platform"
	"github.com/npillmayer/platfont/core/locate"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'platfont.cli'
func tracer() tracing.Trace {
	return tracing.Select("platfont.cli")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	adapter := flag.String("log", "go", "Trace adapter [go|logrus]")
	fontname := flag.String("font", "Go", "Font to load")
	size := flag.Uint("size", 16, "Pixel size of font")
	lenient := flag.Bool("lenient", false, "Keep fonts which cannot be loaded")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":       *adapter,
		"trace.platfont.cli":    *tlevel,
		"trace.platfont.font":   *tlevel,
		"trace.platfont.locate": *tlevel,
		"trace.platfont.raster": "Error",
		"app-key":               "platfont",
		"lenient-fonts":         *lenient,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the platform font CLI") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up REPL
	repl, err := readline.New("font > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{
		repl:     repl,
		conf:     conf,
		resolver: locate.NewSystemResolver(conf),
		charset:  platform.ANSI,
	}
	//
	// load font to use
	if err := intp.loadFont(*fontname, uint32(*size)); err != nil { // font name provided by flag
		core.UserError(err)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL() // go into interactive mode
	if intp.font != nil {
		intp.font.Close()
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	font     platform.PlatformFont
	repl     *readline.Instance
	conf     testconfig.Conf
	resolver locate.Resolver
	charset  platform.Charset
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		quit, err := intp.execute(cmd)
		if err != nil {
			core.UserError(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Command is a parsed input line: an operation and its (optional) argument.
type Command struct {
	code int
	arg  string
}

const (
	QUIT int = iota
	HELP
	FONT
	RESOLVE
	METRICS
	CHAR
	TEXT
	LIST
	CHARSET
	TRACE
)

var commands = map[string]int{
	"quit":    QUIT,
	"help":    HELP,
	"font":    FONT,
	"resolve": RESOLVE,
	"metrics": METRICS,
	"char":    CHAR,
	"text":    TEXT,
	"list":    LIST,
	"charset": CHARSET,
	"trace":   TRACE,
}

func parseCommand(line string) (Command, error) {
	word, arg := line, ""
	if sp := strings.IndexByte(line, ' '); sp > 0 {
		word, arg = line[:sp], strings.TrimSpace(line[sp+1:])
	}
	code, ok := commands[strings.ToLower(word)]
	if !ok {
		return Command{code: HELP}, fmt.Errorf("unknown command: %s", word)
	}
	tracer().Debugf("command %s(%q)", word, arg)
	return Command{code: code, arg: arg}, nil
}

func (intp *Intp) execute(cmd Command) (bool, error) {
	switch cmd.code {
	case QUIT:
		return true, nil
	case HELP:
		help()
	case FONT: // font <size> <name>
		size, name := uint64(16), cmd.arg
		if sp := strings.IndexByte(cmd.arg, ' '); sp > 0 {
			if n, err := strconv.ParseUint(cmd.arg[:sp], 10, 32); err == nil {
				size, name = n, strings.TrimSpace(cmd.arg[sp+1:])
			}
		}
		return false, intp.loadFont(name, uint32(size))
	case RESOLVE:
		if p := intp.resolver.Resolve(cmd.arg); p != "" {
			pterm.Printfln("%q resolves to %s", cmd.arg, p)
		} else {
			return false, locate.NotFound(cmd.arg)
		}
	case METRICS:
		if err := intp.checkFont(); err != nil {
			return false, err
		}
		intp.printMetrics()
	case CHAR:
		if err := intp.checkFont(); err != nil {
			return false, err
		}
		intp.renderChar(cmd.arg)
	case TEXT:
		if err := intp.checkFont(); err != nil {
			return false, err
		}
		return false, intp.charTable(cmd.arg)
	case LIST:
		listFonts(cmd.arg)
	case CHARSET:
		if cmd.arg == "" {
			pterm.Printfln("charset for new fonts is %s", intp.charset)
			break
		}
		cs, ok := platform.ParseCharset(cmd.arg)
		if !ok {
			return false, core.Error(core.EINVALID, "unknown charset: %s", cmd.arg)
		}
		intp.charset = cs
	case TRACE:
		setTraceLevel(cmd.arg)
	}
	return false, nil
}

func (intp *Intp) checkFont() error {
	if intp.font == nil {
		return core.Error(core.EMISSING, "no font loaded, use 'font <size> <name>'")
	}
	return nil
}

func (intp *Intp) loadFont(name string, size uint32) error {
	f, err := platform.CreatePlatformFont(name, size, intp.charset,
		platform.WithResolver(intp.resolver),
		platform.WithConfiguration(intp.conf))
	if err != nil {
		return err
	}
	if intp.font != nil {
		intp.font.Close()
	}
	intp.font = f
	intp.printMetrics()
	return nil
}

func (intp *Intp) printMetrics() {
	if f, ok := intp.font.(*platform.Font); ok {
		pterm.Printfln("font %q at %d px, charset %s", f.Name(), f.Size(), f.Charset())
		pterm.Printfln("file       = %s", f.Path())
		pterm.Printfln("family     = %s", f.Family())
	}
	pterm.Printfln("height     = %d px", intp.font.FontHeight())
	pterm.Printfln("baseline   = %d px", intp.font.FontBaseLine())
}

var shades = []rune(" ░▒▓█")

// renderChar prints a character's coverage bitmap with shaded blocks.
func (intp *Intp) renderChar(s string) {
	if !intp.font.IsValidCharString(s) {
		pterm.Error.Printfln("character %q is out of range", s)
	}
	ci := intp.font.CharInfoString(s)
	pterm.Printfln("%d × %d, origin (%d, %d), advance %d", ci.Width, ci.Height,
		ci.XOrigin, ci.YOrigin, ci.XIncrement)
	if !ci.Drawable() {
		pterm.Info.Println("nothing to draw")
		return
	}
	var b strings.Builder
	for j := 0; j < int(ci.Height); j++ {
		for i := 0; i < int(ci.Width); i++ {
			c := ci.Bitmap[j*int(ci.Width)+i]
			b.WriteRune(shades[int(c)*(len(shades)-1)/255])
		}
		if j == ci.YOrigin-1 {
			b.WriteString("  ← baseline")
		}
		b.WriteByte('\n')
	}
	pterm.Println(b.String())
}

// charTable prints the metrics of every character of s.
func (intp *Intp) charTable(s string) error {
	data := pterm.TableData{{"char", "valid", "width", "height", "x-origin", "y-origin", "advance"}}
	for len(s) > 0 {
		r, n := utf8.DecodeRuneInString(s)
		ci := intp.font.CharInfoString(s[:n])
		data = append(data, []string{
			fmt.Sprintf("%q", r),
			strconv.FormatBool(intp.font.IsValidChar(r)),
			strconv.Itoa(int(ci.Width)),
			strconv.Itoa(int(ci.Height)),
			strconv.Itoa(ci.XOrigin),
			strconv.Itoa(ci.YOrigin),
			strconv.Itoa(ci.XIncrement),
		})
		s = s[n:]
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func listFonts(prefix string) {
	fonts := platform.EnumeratePlatformFonts()
	if prefix != "" {
		p := strings.ToLower(prefix)
		filtered := fonts[:0]
		for _, f := range fonts {
			if strings.HasPrefix(strings.ToLower(f), p) {
				filtered = append(filtered, f)
			}
		}
		fonts = filtered
	}
	sort.Strings(fonts)
	pterm.Printfln("%d font families", len(fonts))
	for _, f := range fonts {
		pterm.Println("  " + f)
	}
}

func setTraceLevel(level string) {
	l := tracing.TraceLevelFromString(level)
	for _, key := range []string{"platfont.cli", "platfont.font", "platfont.locate", "platfont.raster"} {
		tracing.Select(key).SetTraceLevel(l)
	}
	pterm.Printfln("trace level set to %s", l)
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	font <size> <name>   load a font, e.g. 'font 24 DejaVu Sans:bold'
	resolve <name>       show the font file a name resolves to
	metrics              show line height and baseline of current font
	char <c>             render a character
	text <string>        show character metrics for a string
	list [prefix]        list installed font families
	charset [name]       show or set the charset for new fonts
	trace <level>        set trace level [Debug|Info|Error]
	quit                 leave the CLI
	`)
}
