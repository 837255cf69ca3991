package rewrite

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/unnet/onu-rewrite/pkg/changes"
	"github.com/unnet/onu-rewrite/pkg/dumpfile"
	"github.com/unnet/onu-rewrite/pkg/errlog"
	"github.com/unnet/onu-rewrite/pkg/onu"
	"github.com/unnet/onu-rewrite/pkg/program"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var version = "devel"

type options struct {
	output    string
	suffix    string
	inPlace   bool
	isCompare bool
	showNames bool
	jobs      int
}

func Main() int {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)

	// Setup custom usage function.
	fs.Usage = func() {
		prog := path.Base(os.Args[0])
		fmt.Fprintf(os.Stderr,
			"Usage: %s [options] FILE|PATTERN ...\n", prog)
		fs.PrintDefaults()
	}

	// Command line flags
	var o options
	fs.StringVarP(&o.output, "output", "o", "",
		`Write result to FILE, "-" for STDOUT`)
	fs.StringVarP(&o.suffix, "suffix", "s", "_hasil",
		"Suffix for names of output files")
	fs.BoolVarP(&o.inPlace, "in-place", "i", false,
		"Overwrite input files, keep backup")
	fs.BoolVarP(&o.isCompare, "compare", "C", false, "Compare only")
	fs.BoolVarP(&o.showNames, "names", "n", false,
		"Show compacted names of interfaces")
	fs.IntVarP(&o.jobs, "jobs", "j", 4, "Number of files processed in parallel")
	confFile := fs.StringP("config", "c", "", "Path of config file")
	logFile := fs.StringP("LOGFILE", "", "", "Path to redirect STDERR")
	quiet := fs.BoolP("quiet", "q", false, "No info messages")
	debug := fs.BoolP("debug", "d", false, "Show how blocks are processed")
	showVer := fs.BoolP("version", "v", false, "Show version")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return 1
	}
	if *showVer {
		fmt.Fprintf(os.Stderr, "version %s\n", version)
		return 0
	}

	// Argument processing
	args := fs.Args()
	if len(args) == 0 || o.jobs < 1 ||
		o.output != "" && (o.inPlace || o.isCompare) ||
		o.inPlace && o.isCompare {
		fs.Usage()
		return 1
	}
	return errlog.HandleAbort(func() int {
		errlog.Quiet = *quiet
		errlog.SetStderrLog(*logFile)
		cfg, err := program.LoadConfig(*confFile)
		if err != nil {
			errlog.Abort("%v", err)
		}
		files, err := expandArgs(args, o.suffix)
		if err != nil {
			errlog.Abort("%v", err)
		}
		jobs, err := getJobs(files, o)
		if err != nil {
			errlog.Abort("%v", err)
		}
		ctx := newLogger(*debug).WithContext(context.Background())
		results, err := run(ctx, onu.New(cfg.Options()), jobs, o.jobs)
		if err != nil {
			errlog.Abort("%v", err)
		}
		for _, res := range results {
			if err := report(res, cfg, o, len(results) > 1); err != nil {
				errlog.Abort("%v", err)
			}
		}
		return 0
	})
}

func newLogger(debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}
	w := zerolog.ConsoleWriter{Out: errlog.Writer(), NoColor: true}
	return zerolog.New(w).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// expandArgs replaces arguments having wildcard characters by matching
// files. Files generated by a previous run, i.e. having suffix in
// their name, are ignored. Duplicate names are removed.
func expandArgs(args []string, suffix string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			result = append(result, f)
		}
	}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		l, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("Invalid pattern %q: %v", arg, err)
		}
		count := 0
		for _, f := range l {
			if isGenerated(f, suffix) {
				continue
			}
			add(f)
			count++
		}
		if count == 0 {
			return nil, fmt.Errorf("No file matches %q", arg)
		}
	}
	return result, nil
}

func isGenerated(fname, suffix string) bool {
	if suffix == "" {
		return false
	}
	ext := path.Ext(fname)
	if ext == path.Base(fname) {
		ext = ""
	}
	return strings.HasSuffix(strings.TrimSuffix(fname, ext), suffix)
}

type job struct {
	in     string
	out    string
	write  bool
	backup bool
}

func getJobs(files []string, o options) ([]job, error) {
	if o.output != "" && len(files) != 1 {
		return nil, fmt.Errorf("Option --output needs exactly one input file")
	}
	var result []job
	for _, f := range files {
		if f == "-" {
			if len(files) != 1 {
				return nil, fmt.Errorf(
					"STDIN must not be used together with other files")
			}
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return nil, fmt.Errorf("Refusing to read from terminal")
			}
		}
		j := job{in: f, write: !o.isCompare}
		switch {
		case o.output != "":
			j.out = o.output
		case o.inPlace:
			j.out = f
			j.backup = true
		default:
			j.out = dumpfile.OutName(f, o.suffix)
		}
		if j.write && j.out != "-" && j.out == f && !j.backup {
			return nil, fmt.Errorf("Output would overwrite %s, use --in-place", f)
		}
		result = append(result, j)
	}
	return result, nil
}

type result struct {
	job
	orig string
	*onu.Result
}

// run processes jobs in parallel, at most limit at a time.
// Results are returned in order of jobs.
func run(ctx context.Context, r *onu.Rewriter, jobs []job, limit int,
) ([]result, error) {

	results := make([]result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := dumpfile.Read(j.in)
			if err != nil {
				return err
			}
			log := zerolog.Ctx(ctx).With().Str("file", j.in).Logger()
			res := r.Rewrite(log.WithContext(ctx), data)
			if j.write {
				if err := dumpfile.Write(j.out, res.Output, j.backup); err != nil {
					return err
				}
			}
			results[i] = result{job: j, orig: data, Result: res}
			return nil
		})
	}
	return results, g.Wait()
}

func report(res result, cfg *program.Config, o options, multi bool) error {
	for _, ref := range res.Unresolved {
		errlog.Warning("%s: No name found for pon-onu-mng %s", res.in, ref)
	}
	for _, n := range res.TooLong {
		errlog.Warning("%s: Name %s is longer than %d characters",
			res.in, n, cfg.MaxLength)
	}
	if o.showNames {
		for _, key := range res.Names.Keys() {
			name, _ := res.Names.Lookup(key)
			if multi {
				fmt.Printf("%s: %s %s\n", res.in, key, name)
			} else {
				fmt.Printf("%s %s\n", key, name)
			}
		}
	}
	if o.isCompare {
		changed, err := changes.Write(
			os.Stdout, res.in, res.out, res.orig, res.Output)
		if err != nil {
			return err
		}
		if changed {
			errlog.Info("comp: *** %s changed ***", res.in)
		} else {
			errlog.Info("comp: %s unchanged", res.in)
		}
		return nil
	}
	errlog.Info("%s -> %s: %d of %d interface names compacted,"+
		" %d of %d pon-onu-mng blocks linked",
		res.in, res.out, res.Compacted, res.Interfaces, res.Linked, res.PonMngs)
	return nil
}
