package main

import (
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/m4gshm/gollections/c"
	"github.com/m4gshm/gollections/collection/mutable/ordered"
	"github.com/m4gshm/gollections/collection/mutable/ordered/set"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/fieldassert/command"
	"github.com/m4gshm/fieldassert/logger"
	"github.com/m4gshm/fieldassert/model/util"
	"github.com/m4gshm/fieldassert/params"
	"github.com/m4gshm/fieldassert/use"
)

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "Usage of %s:\n", params.Name)
	_, _ = fmt.Fprintf(out, "\t%s [flags] -type T [command [command flags]] [directory]\n", params.Name)
	_, _ = fmt.Fprintf(out, "\t%s [flags] [directory] (requests are read from //%s comments)\n", params.Name, params.CommentConfigPrefix)
	_, _ = fmt.Fprintln(out, "Flags:")
	flag.PrintDefaults()
	command.PrintUsage(out)
}

func main() {
	log.SetPrefix(params.Name + ": ")
	log.SetFlags(0)

	config := params.NewConfig(flag.CommandLine)
	debug := params.Debug(flag.CommandLine)
	flag.Usage = usage
	flag.Parse()

	logger.Init(*debug)
	err := run(config, os.Args[1:], flag.Args())
	logger.Sync()
	if errors.Is(err, command.ErrNoType) {
		log.Print(err)
		flag.Usage()
		os.Exit(2)
	} else if err != nil {
		log.Fatal(err)
	}
}

type request struct {
	config   *params.Config
	commands []*command.Command
	args     []string
	comment  *ast.Comment
}

func (r *request) wrap(err error, fileSet *token.FileSet) error {
	if r.comment == nil {
		return err
	}
	return use.FileCommentErr(err, fileSet, r.comment)
}

func run(config *params.Config, cliArgs, args []string) error {
	commands, args, err := parseCommands(args)
	if err != nil {
		return err
	}
	if outputDir, err := outDir(args); err != nil {
		return err
	} else if len(outputDir) > 0 {
		if err := os.Chdir(outputDir); err != nil {
			return fmt.Errorf("out dir error: %w", err)
		}
	}

	fileSet := token.NewFileSet()
	pkgs, err := loadPackages(fileSet, *config.BuildTags, *config.PackagePattern, *config.Input)
	if err != nil {
		return err
	}

	var requests []*request
	if len(*config.Type) > 0 {
		requests = []*request{{config: config, commands: commands, args: cliArgs}}
	} else if requests, err = commentRequests(fileSet, pkgs, config); err != nil {
		return err
	} else if len(requests) == 0 {
		return command.ErrNoType
	}

	outputs := command.NewOutputs()
	for _, r := range requests {
		logger.Debugw("request", "type", *r.config.Type, "args", r.args)
		context := &command.Context{Config: r.config, Args: r.args, FileSet: fileSet, Packages: pkgs, Outputs: outputs}
		for _, cmd := range r.commands {
			if err := cmd.Run(context); err != nil {
				return r.wrap(err, fileSet)
			}
		}
	}

	const userWriteOtherRead = fs.FileMode(0644)
	for _, g := range outputs.All() {
		if g.Empty() {
			logger.Warnf("no methods generated for %s", g.OutFile)
			continue
		}
		src, err := g.FormatSrc()
		if err != nil {
			return fmt.Errorf("go src code formatting error: %w", err)
		} else if err := os.WriteFile(g.OutFile, src, userWriteOtherRead); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		logger.Infof("generated %s, methods %d", g.OutFile, len(g.Methods()))
	}
	return nil
}

// parseCommands reads a chain of commands with their flags; the rest of args is returned.
func parseCommands(args []string) ([]*command.Command, []string, error) {
	var commands []*command.Command
	for len(args) > 0 {
		cmd := command.Get(args[0])
		if cmd == nil {
			break
		}
		rest, err := cmd.Parse(args[1:])
		if err != nil {
			return nil, nil, err
		}
		commands = append(commands, cmd)
		args = rest
	}
	if len(commands) == 0 {
		commands = append(commands, command.Get(command.Default))
	}
	return commands, args, nil
}

// loadPackages loads the processed package and the packages of the additional input files.
func loadPackages(fileSet *token.FileSet, buildTags []string, pattern string, inputs []string) (*ordered.Set[*packages.Package], error) {
	var all []*packages.Package
	for _, fileName := range append([]string{pattern}, inputs...) {
		pkgs, err := util.ExtractPackages(fileSet, buildTags, fileName)
		if err != nil {
			return nil, err
		}
		for pkg := range pkgs.All {
			all = append(all, pkg)
		}
	}
	return set.Of(all...), nil
}

// commentRequests collects the requests of the config comments of the package files.
func commentRequests(fileSet *token.FileSet, pkgs c.Range[*packages.Package], shared *params.Config) ([]*request, error) {
	var (
		requests []*request
		seen     = map[string]struct{}{}
	)
	for pkg := range pkgs.All {
		for _, file := range pkg.Syntax {
			for _, commentGroup := range file.Comments {
				for _, comment := range commentGroup.List {
					position := fileSet.Position(comment.Pos()).String()
					if _, ok := seen[position]; ok {
						continue
					}
					seen[position] = struct{}{}
					r, err := newCommentRequest(comment.Text)
					if err != nil {
						return nil, use.FileCommentErr(err, fileSet, comment)
					} else if r != nil {
						r.comment = comment
						r.config = r.config.MergeWith(shared)
						requests = append(requests, r)
					}
				}
			}
		}
	}
	return requests, nil
}

func newCommentRequest(text string) (*request, error) {
	prefix := "//" + params.CommentConfigPrefix
	if !strings.HasPrefix(text, prefix) {
		return nil, nil
	}
	rest := text[len(prefix):]
	if len(rest) > 0 && rest[0] != ' ' && rest[0] != '\t' {
		return nil, nil
	}
	args, err := shlex.Split(rest)
	if err != nil {
		return nil, fmt.Errorf("parsing config comment %s: %w", text, err)
	}
	flagSet := flag.NewFlagSet(params.CommentConfigPrefix, flag.ContinueOnError)
	config := params.NewConfig(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing config comment %s: %w", text, err)
	}
	commands, unexpected, err := parseCommands(flagSet.Args())
	if err != nil {
		return nil, err
	} else if len(unexpected) > 0 {
		return nil, fmt.Errorf("unexpected arguments of config comment: %s", strings.Join(unexpected, " "))
	}
	return &request{config: config, commands: commands, args: args}, nil
}

func outDir(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		info, err := os.Stat(args[0])
		if err != nil {
			return "", err
		} else if !info.IsDir() {
			return "", fmt.Errorf("%s is not a directory", args[0])
		}
		return args[0], nil
	default:
		return "", fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
}
