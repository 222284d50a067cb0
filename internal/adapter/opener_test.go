package adapter

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type launch struct {
	name string
	args []string
}

func recordingOpener(command string, args []string, found map[string]bool) (*Opener, *[]launch) {
	var launches []launch
	o := NewOpener(command, args, NullLogger())
	o.lookPath = func(file string) (string, error) {
		if found[file] {
			return "/usr/bin/" + file, nil
		}
		return "", errors.New("not found")
	}
	o.start = func(name string, args ...string) error {
		launches = append(launches, launch{name: name, args: args})
		return nil
	}
	return o, &launches
}

func TestOpenerUsesConfiguredCommand(t *testing.T) {
	o, launches := recordingOpener("feh", []string{"--scale-down"}, nil)

	require.NoError(t, o.Open("https://example.test/1.jpeg"))
	require.Len(t, *launches, 1)
	assert.Equal(t, "feh", (*launches)[0].name)
	assert.Equal(t, []string{"--scale-down", "https://example.test/1.jpeg"}, (*launches)[0].args)
}

func TestOpenerDetectsViewer(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("viewer candidates differ per platform")
	}
	o, launches := recordingOpener("", nil, map[string]bool{"eog": true})

	require.NoError(t, o.Open("https://example.test/1.jpeg"))
	require.Len(t, *launches, 1)
	assert.Equal(t, "eog", (*launches)[0].name)
}

func TestOpenerFallsBackToSystemDefault(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("system default differs per platform")
	}
	o, launches := recordingOpener("", nil, nil)

	require.NoError(t, o.Open("https://example.test/1.jpeg"))
	require.Len(t, *launches, 1)
	assert.Equal(t, "xdg-open", (*launches)[0].name)
}

func TestOpenerRejectsEmptyURL(t *testing.T) {
	o, launches := recordingOpener("feh", nil, nil)
	assert.Error(t, o.Open(""))
	assert.Empty(t, *launches)
}
