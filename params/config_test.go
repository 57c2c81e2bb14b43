package params

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ConfigDefaults(t *testing.T) {
	flagSet := flag.NewFlagSet(Name, flag.ContinueOnError)
	config := NewConfig(flagSet)
	require.NoError(t, flagSet.Parse([]string{"-type", "User"}))

	assert.Equal(t, "User", *config.Type)
	assert.Equal(t, "user_assert.go", config.OutputFile())
	assert.Equal(t, []string{Name}, *config.BuildTags)
}

func Test_ConfigMerge(t *testing.T) {
	cliFlags := flag.NewFlagSet(Name, flag.ContinueOnError)
	cli := NewConfig(cliFlags)
	require.NoError(t, cliFlags.Parse([]string{"-out", "all_assert.go"}))

	commentFlags := flag.NewFlagSet(Name, flag.ContinueOnError)
	comment := NewConfig(commentFlags)
	require.NoError(t, commentFlags.Parse([]string{"-type", "Point", "-out", "point.go"}))

	merged := cli.MergeWith(comment)
	assert.Equal(t, "Point", *merged.Type)
	assert.Equal(t, "all_assert.go", merged.OutputFile())
}

func Test_MultiValDuplicated(t *testing.T) {
	flagSet := flag.NewFlagSet(Name, flag.ContinueOnError)
	values := MultiVal(flagSet, "exclude", []string{}, "excluded field")

	require.NoError(t, flagSet.Parse([]string{"-exclude", "ID", "-exclude", "Name"}))
	assert.Equal(t, []string{"ID", "Name"}, *values)

	flagSet = flag.NewFlagSet(Name, flag.ContinueOnError)
	flagSet.SetOutput(discard{})
	MultiVal(flagSet, "exclude", []string{}, "excluded field")
	assert.Error(t, flagSet.Parse([]string{"-exclude", "ID", "-exclude", "ID"}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
