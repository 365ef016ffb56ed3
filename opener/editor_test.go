package opener

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChain fails every command whose name is in failing.
func scriptedChain(preferred string, failing ...string) (*EditorChain, *[][]string) {
	var calls [][]string
	bad := make(map[string]bool)
	for _, f := range failing {
		bad[f] = true
	}
	chain := NewEditorChain(preferred, "/tmp/notes.txt")
	chain.run = func(cmd *exec.Cmd) error {
		calls = append(calls, cmd.Args)
		if bad[cmd.Args[0]] {
			return errors.New("exit status 1")
		}
		return nil
	}
	return chain, &calls
}

func Test_EditorChain_PreferredFirst(t *testing.T) {
	chain, calls := scriptedChain("code --wait")

	require.NoError(t, chain.Run())
	assert.Equal(t, [][]string{{"code", "--wait", "/tmp/notes.txt"}}, *calls)
}

func Test_EditorChain_FallsThrough(t *testing.T) {
	chain, calls := scriptedChain("micro", "micro", "nvim")

	require.NoError(t, chain.Run())
	assert.Equal(t, [][]string{
		{"micro", "/tmp/notes.txt"},
		{"nvim", "/tmp/notes.txt"},
		{"vim", "/tmp/notes.txt"},
	}, *calls)
}

func Test_EditorChain_ExhaustionIsOneError(t *testing.T) {
	chain, calls := scriptedChain("", "nvim", "vim", "vi", "nano")

	err := chain.Run()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEditor)
	assert.Len(t, *calls, 4)
	assert.True(t, strings.Contains(err.Error(), "nano"))
}

func Test_EditorChain_CandidatesDeduplicated(t *testing.T) {
	chain := NewEditorChain("vim", "/x")

	assert.Equal(t, [][]string{{"vim"}, {"nvim"}, {"vi"}, {"nano"}}, chain.Candidates())
}

func Test_EditorChain_UnlaunchableBinary(t *testing.T) {
	chain := NewEditorChain("quickfind-no-such-editor-binary", "/x")
	var ran []string
	chain.run = func(cmd *exec.Cmd) error {
		ran = append(ran, cmd.Args[0])
		if cmd.Args[0] == "quickfind-no-such-editor-binary" {
			return cmd.Run()
		}
		return nil
	}

	require.NoError(t, chain.Run())
	assert.Equal(t, []string{"quickfind-no-such-editor-binary", "nvim"}, ran)
}

func Test_EditorChain_WiresStdio(t *testing.T) {
	var stdout bytes.Buffer
	chain := NewEditorChain("", "/x")
	chain.SetStdin(strings.NewReader(""))
	chain.SetStdout(&stdout)
	chain.SetStderr(&stdout)

	var got *exec.Cmd
	chain.run = func(cmd *exec.Cmd) error {
		got = cmd
		return nil
	}

	require.NoError(t, chain.Run())
	assert.Same(t, &stdout, got.Stdout)
	assert.NotNil(t, got.Stdin)
}
