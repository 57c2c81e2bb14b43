package params

import (
	"flag"
	"strings"

	"github.com/m4gshm/fieldassert/logger"
)

const (
	Name                = "fieldassert"
	DefaultFileSuffix   = "_assert.go"
	CommentConfigPrefix = "go:" + Name
)

func NewConfig(flagSet *flag.FlagSet) *Config {
	return &Config{
		Type:           flagSet.String("type", "", "type name; must be set"),
		Output:         flagSet.String("out", "", "output file name; default srcdir/<type>"+DefaultFileSuffix),
		Input:          MultiVal(flagSet, "in", []string{}, "go source file"),
		PackagePattern: flagSet.String("package", ".", "used package"),
		BuildTags:      MultiVal(flagSet, "buildTag", []string{Name}, "include build tag"),
	}
}

// Config holds the options shared by all commands.
type Config struct {
	Type           *string
	Output         *string
	Input          *[]string
	PackagePattern *string
	BuildTags      *[]string
}

// MergeWith fills the options not set in c by the values of src.
func (c *Config) MergeWith(src *Config) *Config {
	if src == nil {
		return c
	}
	logger.Debugw("config merging", "dest", c, "src", src)
	if len(*c.Type) == 0 {
		c.Type = src.Type
	}
	if len(*c.Output) == 0 {
		c.Output = src.Output
	}
	if len(*c.Input) == 0 {
		c.Input = src.Input
	}
	return c
}

// OutputFile returns the configured output file name or the default one based on the type name.
func (c *Config) OutputFile() string {
	if out := *c.Output; len(out) > 0 {
		return out
	}
	return strings.ToLower(*c.Type + DefaultFileSuffix)
}

func Nolint(flagSet *flag.FlagSet) *bool {
	return flagSet.Bool("nolint", false, "add //nolint comment")
}

func Debug(flagSet *flag.FlagSet) *bool {
	return flagSet.Bool("debug", false, "enable debug logging")
}
