// Command loom is an interactive REPL around a workbook: type a cell
// address and a value to set it, or one of a handful of colon commands
// to save, load, import, export, undo, redo, or serve a web UI.
// Grounded on aretext/main.go's flag-parsing shape (version/log flags,
// exitWithError), generalized from "open one
// file in a full-screen editor" to "read commands from stdin against
// one in-memory workbook."
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	"github.com/inkcell/inkcell/internal/config"
	"github.com/inkcell/inkcell/internal/eval"
	"github.com/inkcell/inkcell/internal/model"
	"github.com/inkcell/inkcell/internal/store"
	"github.com/inkcell/inkcell/internal/usermodel"
	"github.com/inkcell/inkcell/internal/webui"
	"github.com/inkcell/inkcell/internal/xlsx"
)

var version = "dev"

var (
	logpath   = flag.String("log", "", "log to file (log output is discarded otherwise)")
	noconfig  = flag.Bool("noconfig", false, "force default configuration")
	storeDir  = flag.String("storedir", "", "directory for saved workbooks (defaults to XDG data dir)")
	versionFl = flag.Bool("version", false, "print version")
)

var log = logrus.New()

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *versionFl {
		fmt.Println(version)
		return
	}

	if *logpath != "" {
		f, err := os.Create(*logpath)
		if err != nil {
			exitWithError(err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Default()
	if !*noconfig {
		loaded, err := config.LoadOrCreate()
		if err != nil {
			exitWithError(err)
		}
		cfg = loaded
	}

	dir := *storeDir
	if dir == "" {
		var err error
		dir, err = defaultStoreDir()
		if err != nil {
			exitWithError(err)
		}
	}
	fileStore, err := store.NewFileStore(dir)
	if err != nil {
		exitWithError(err)
	}

	e, err := eval.NewEngine(cfg.Locale, cfg.Language)
	if err != nil {
		exitWithError(err)
	}
	if _, err := e.AddSheet("Sheet1"); err != nil {
		exitWithError(err)
	}

	r := &repl{
		model:     usermodel.New(e, cfg.UndoLimit),
		store:     fileStore,
		sheetName: "Sheet1",
		out:       os.Stdout,
	}
	r.run(os.Stdin)
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [options...]\n", os.Args[0])
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

func defaultStoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := home + "/.local/share/loom/books"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// repl drives one UserModel from line-oriented commands read from in.
type repl struct {
	model     *usermodel.UserModel
	store     store.Store
	sheetName string
	out       io.Writer
}

func (r *repl) run(in io.Reader) {
	sc := bufio.NewScanner(in)
	fmt.Fprintln(r.out, "loom - type :help for commands")
	for {
		fmt.Fprint(r.out, "> ")
		if !sc.Scan() {
			return
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := r.dispatch(line); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *repl) dispatch(line string) error {
	if strings.HasPrefix(line, ":") {
		return r.command(line[1:])
	}
	return r.setCell(line)
}

// setCell handles "A1 42" and "A1 =SUM(B1:B3)".
func (r *repl) setCell(line string) error {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		return fmt.Errorf("expected '<ref> <value>', got %q", line)
	}
	addr, err := r.resolve(fields[0])
	if err != nil {
		return err
	}
	if err := r.model.SetUserInput(addr, strings.TrimSpace(fields[1])); err != nil {
		return err
	}
	if err := r.model.Engine.Evaluate(); err != nil {
		return err
	}
	display, err := r.model.Engine.GetFormattedCellValue(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s: %s\n", fields[0], display)
	return nil
}

func (r *repl) resolve(ref string) (model.CellAddress, error) {
	sheetID, ok := r.model.Engine.Book.Worksheets.IDByName(r.sheetName)
	if !ok {
		return model.CellAddress{}, fmt.Errorf("no such sheet %q", r.sheetName)
	}
	col, row, ok := model.ParseA1Ref(strings.ToUpper(ref))
	if !ok {
		return model.CellAddress{}, fmt.Errorf("bad cell reference %q", ref)
	}
	return model.CellAddress{WorksheetID: sheetID, Row: row, Column: col}, nil
}

func (r *repl) command(rest string) error {
	args, err := shlex.Split(rest)
	if err != nil || len(args) == 0 {
		return fmt.Errorf("bad command %q", rest)
	}
	switch args[0] {
	case "help":
		fmt.Fprint(r.out, helpText)
		return nil
	case "sheet":
		if len(args) == 2 {
			if _, ok := r.model.Engine.Book.Worksheets.IDByName(args[1]); ok {
				r.sheetName = args[1]
				return nil
			}
		}
		return r.addSheet(args[1:])
	case "sheets":
		return r.listSheets()
	case "get":
		return r.getCell(args[1:])
	case "clear":
		return r.clearCell(args[1:])
	case "undo":
		if !r.model.Undo() {
			fmt.Fprintln(r.out, "nothing to undo")
		}
		return nil
	case "redo":
		if !r.model.Redo() {
			fmt.Fprintln(r.out, "nothing to redo")
		}
		return nil
	case "save":
		return r.save(args[1:])
	case "load":
		return r.load(args[1:])
	case "import":
		return r.importXLSX(args[1:])
	case "export":
		return r.exportXLSX(args[1:])
	case "serve":
		return r.serve(args[1:])
	case "quit", "q":
		os.Exit(0)
	}
	return fmt.Errorf("unknown command %q", args[0])
}

const helpText = `commands:
  <ref> <value>       set a cell, e.g. A1 42  or  B2 =A1*2
  :sheet <name>        switch the active sheet (created if new)
  :sheets              list worksheet names
  :get <ref>           print a cell's formatted value
  :clear <ref>         clear a cell's contents
  :undo / :redo        step through edit history
  :save <id>           save the workbook under id
  :load <id>           load a workbook by id, replacing the current one
  :import <path.xlsx>  import a spreadsheet file into the current workbook
  :export <path.xlsx>  export the current workbook
  :serve <addr>        start the websocket server (e.g. :8080)
  :quit                exit
`

func (r *repl) addSheet(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :sheet <name>")
	}
	if _, err := r.model.AddSheet(args[0]); err != nil {
		return err
	}
	r.sheetName = args[0]
	return nil
}

func (r *repl) listSheets() error {
	for _, id := range r.model.Engine.Book.Worksheets.OrderedIDs() {
		name, _ := r.model.Engine.Book.Worksheets.NameByID(id)
		marker := " "
		if name == r.sheetName {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %s\n", marker, name)
	}
	return nil
}

func (r *repl) getCell(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :get <ref>")
	}
	addr, err := r.resolve(args[0])
	if err != nil {
		return err
	}
	display, err := r.model.Engine.GetFormattedCellValue(addr)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, display)
	return nil
}

func (r *repl) clearCell(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :clear <ref>")
	}
	addr, err := r.resolve(args[0])
	if err != nil {
		return err
	}
	r.model.ClearCellContents(addr)
	return r.model.Engine.Evaluate()
}

func (r *repl) save(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :save <id>")
	}
	return r.store.Save(args[0], r.model.Engine)
}

func (r *repl) load(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :load <id>")
	}
	e, err := r.store.Load(args[0])
	if err != nil {
		return err
	}
	r.model = usermodel.New(e, 100)
	if ids := e.Book.Worksheets.OrderedIDs(); len(ids) > 0 {
		name, _ := e.Book.Worksheets.NameByID(ids[0])
		r.sheetName = name
	}
	return nil
}

func (r *repl) importXLSX(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :import <path.xlsx>")
	}
	if err := xlsx.Import(args[0], r.model.Engine); err != nil {
		return err
	}
	return r.model.Engine.Evaluate()
}

func (r *repl) exportXLSX(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: :export <path.xlsx>")
	}
	return xlsx.Export(args[0], r.model.Engine)
}

func (r *repl) serve(args []string) error {
	addr := ":8080"
	if len(args) == 1 {
		addr = args[0]
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(addr, ":")); err != nil {
		return fmt.Errorf("bad address %q", addr)
	}
	srv := webui.NewServer(r.model)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.HandleWebSocket)
	fmt.Fprintf(r.out, "serving on %s\n", addr)
	log.WithField("addr", addr).Info("webui: listening")
	return http.ListenAndServe(addr, mux)
}
