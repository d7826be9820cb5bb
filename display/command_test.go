package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCmd() (*cobra.Command, *cobra.Command) {
	root := &cobra.Command{Use: "root"}
	child := &cobra.Command{Use: "child", RunE: func(*cobra.Command, []string) error { return nil }}
	child.Flags().Bool("json", false, "")
	root.AddCommand(child)
	return root, child
}

func TestShouldOutputJSON(t *testing.T) {
	assert.False(t, ShouldOutputJSON(nil))

	root, child := newCmd()
	root.SetArgs([]string{"child"})
	require.NoError(t, root.Execute())
	assert.False(t, ShouldOutputJSON(child))

	root, child = newCmd()
	root.SetArgs([]string{"child", "--json"})
	require.NoError(t, root.Execute())
	assert.True(t, ShouldOutputJSON(child))
}

func TestOutputJSON(t *testing.T) {
	_, child := newCmd()
	var buf bytes.Buffer
	child.SetOut(&buf)

	require.NoError(t, OutputJSON(child, map[string]int{"n": 1277}))
	assert.Equal(t, "{\n  \"n\": 1277\n}\n", buf.String())
}
