// Command rasterkit dispatches raster analysis tools by name and records
// each run in a local provenance log.
//
// Tool parameters follow a "--" separator so they reach the tool verbatim:
//
//	rasterkit -run=AverageOverlay -wd=/data -v -- -i='a.dep;b.dep' -o=mean.dep
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kestrel-gis/rasterkit/internal/config"
	"github.com/kestrel-gis/rasterkit/internal/runlog"
	"github.com/kestrel-gis/rasterkit/internal/tools"
	"github.com/kestrel-gis/rasterkit/internal/version"
)

var (
	runTool    = flag.String("run", "", "Name of the tool to run")
	workDir    = flag.String("wd", ".", "Working directory for bare raster filenames")
	verbose    = flag.Bool("v", false, "Print per-row progress while tools run")
	listTools  = flag.Bool("listtools", false, "List available tools and exit")
	toolHelp   = flag.String("toolhelp", "", "Print a tool's parameters and exit")
	configPath = flag.String("config", config.DefaultSettingsPath, "Path to an optional settings JSON file")
	dbFile     = flag.String("dbfile", "rasterkit_runs.db", "Run-log database file")
	noLog      = flag.Bool("nolog", false, "Disable run-log recording")
	showRuns   = flag.Int("runs", 0, "Print the N most recent tool runs and exit")
	migrateDir = flag.String("migrate", "", "Apply run-log schema migrations from this directory and exit")
	showVer    = flag.Bool("version", false, "Print version information and exit")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: rasterkit [flags] -run=TOOL -- [tool parameters]\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Example:\n  %s\n\nFlags:\n", tools.NewAverageOverlay().ExampleUsage())
	flag.PrintDefaults()
}

// applySettings folds file-based settings under explicitly set flags:
// a flag given on the command line always wins over the settings file.
func applySettings(s *config.Settings, explicit map[string]bool) {
	if s == nil {
		return
	}
	if !explicit["wd"] && s.WorkingDir != nil {
		*workDir = *s.WorkingDir
	}
	if !explicit["v"] && s.Verbose != nil {
		*verbose = *s.Verbose
	}
	if !explicit["dbfile"] && s.DBFile != nil {
		*dbFile = *s.DBFile
	}
	if !explicit["nolog"] && s.DisableRunLog != nil {
		*noLog = *s.DisableRunLog
	}
}

func loadSettings(path string) *config.Settings {
	var (
		s   *config.Settings
		err error
	)
	if path == config.DefaultSettingsPath {
		s, err = config.LoadDefault()
	} else {
		s, err = config.Load(path)
	}
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	return s
}

// recordRun persists a provenance record. Logging problems are warnings:
// a tool run never fails because the run log is unavailable.
func recordRun(run *runlog.ToolRun) {
	db, err := runlog.NewDB(*dbFile)
	if err != nil {
		log.Printf("warning: run log unavailable: %v", err)
		return
	}
	defer db.Close()

	if err := db.RecordRun(run); err != nil {
		log.Printf("warning: failed to record run: %v", err)
	}
}

func printRecentRuns(n int) error {
	db, err := runlog.NewDB(*dbFile)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.RecentRuns(n)
	if err != nil {
		return err
	}
	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = "failed: " + r.ErrorText
		}
		fmt.Printf("%s  %-16s %8s  %s\n",
			time.Unix(0, r.CreatedAt).Format(time.RFC3339), r.ToolName, r.Elapsed, status)
	}
	return nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	applySettings(loadSettings(*configPath), explicit)

	switch {
	case *showVer:
		fmt.Println(version.String())
		return

	case *listTools:
		for _, t := range tools.All() {
			fmt.Printf("%-16s %s\n", t.Name(), t.Description())
		}
		return

	case *toolHelp != "":
		t, err := tools.Lookup(*toolHelp)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("%s: %s\n\n%s\nExample:\n  %s\n", t.Name(), t.Description(), t.Parameters(), t.ExampleUsage())
		return

	case *migrateDir != "":
		db, err := runlog.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("failed to open run log: %v", err)
		}
		defer db.Close()
		if err := db.MigrateUp(*migrateDir); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		version, dirty, err := db.MigrateVersion(*migrateDir)
		if err != nil {
			log.Fatalf("failed to read schema version: %v", err)
		}
		log.Printf("run-log schema at version %d (dirty=%v)", version, dirty)
		return

	case *showRuns > 0:
		if err := printRecentRuns(*showRuns); err != nil {
			log.Fatalf("failed to list runs: %v", err)
		}
		return
	}

	if *runTool == "" {
		usage()
		os.Exit(2)
	}

	tool, err := tools.Lookup(*runTool)
	if err != nil {
		log.Fatalf("%v", err)
	}

	start := time.Now()
	runErr := tool.Run(flag.Args(), *workDir, *verbose)
	elapsed := time.Since(start)

	if !*noLog {
		run := &runlog.ToolRun{
			ToolName:   tool.Name(),
			Args:       flag.Args(),
			WorkingDir: *workDir,
			Elapsed:    elapsed,
			Success:    runErr == nil,
		}
		if runErr != nil {
			run.ErrorText = runErr.Error()
		}
		recordRun(run)
	}

	if runErr != nil {
		log.Fatalf("%s failed: %v", tool.Name(), runErr)
	}
}
