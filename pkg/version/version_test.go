package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Contains(t, Full(), Protocol)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  ProtocolRevision
	}{
		{"1.14", ProtocolRevision{Version: 1, Revision: 14}},
		{"1.0", ProtocolRevision{Version: 1}},
		{"2.255", ProtocolRevision{Version: 2, Revision: 255}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.input, got.String())
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "1", "abc", "1.14.0", "1.x", "-1.0", "1.256", ".14"} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}

func TestSupports(t *testing.T) {
	t.Parallel()

	cur := Current()
	assert.Equal(t, Protocol, cur.String())
	assert.True(t, cur.Supports(ProtocolRevision{Version: 1, Revision: 4}))
	assert.True(t, cur.Supports(cur))
	assert.False(t, cur.Supports(ProtocolRevision{Version: 1, Revision: cur.Revision + 1}))
	assert.False(t, cur.Supports(ProtocolRevision{Version: 2}))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "msv-device"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, Full()+"\n", out.String())
}
