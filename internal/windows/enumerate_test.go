package windows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/wingrid/internal/apps"
	"github.com/1broseidon/wingrid/internal/toolexec/toolexectest"
)

const listing = `0x03a00003  0 1001   host Terminal - ~/src
0x03a0000f  0 1001   host Terminal - ~/notes
0x04200007  0 2002   host Downloads
0x05000004 -1 3003   host Mozilla Firefox
0x06000002  0 4004   host Slack | general
0x07000001  0 0      host Desktop
not a window line
0x08000001  0 5005   host
0x09000001  1 6006   host gone
`

func scriptedSystem() *toolexectest.Fake {
	fake := toolexectest.New("wmctrl", "ps")
	fake.On(listing, "wmctrl", "-lp")
	fake.On("gnome-terminal-server\n", "ps", "-p", "1001", "-o", "comm=")
	fake.On("nautilus\n", "ps", "-p", "2002", "-o", "comm=")
	fake.On("firefox\n", "ps", "-p", "3003", "-o", "comm=")
	fake.On("slack\n", "ps", "-p", "4004", "-o", "comm=")
	fake.On("code\n", "ps", "-p", "5005", "-o", "comm=")
	fake.Fail("ps", "-p", "6006", "-o", "comm=")
	return fake
}

func TestListBuiltinsOnly(t *testing.T) {
	e := NewEnumerator(scriptedSystem(), nil, DefaultTimeouts(), nil)

	got := e.List(nil)

	assert.Equal(t, []Record{
		{ID: "0x03a00003", PID: 1001, Title: "Terminal - ~/src", AppName: apps.Terminal, Index: 1},
		{ID: "0x03a0000f", PID: 1001, Title: "Terminal - ~/notes", AppName: apps.Terminal, Index: 2},
		{ID: "0x04200007", PID: 2002, Title: "Downloads", AppName: apps.Files, Index: 1},
	}, got)
}

func TestListTargetsMatchByPrefix(t *testing.T) {
	e := NewEnumerator(scriptedSystem(), nil, DefaultTimeouts(), nil)

	got := e.List([]string{"fire", "cod"})

	var names []string
	for _, r := range got {
		names = append(names, r.AppName)
	}
	assert.Equal(t, []string{"Terminal", "Terminal", "Files", "firefox", "code"}, names)
	// Empty title is accepted.
	assert.Equal(t, "", got[4].Title)
	assert.Equal(t, 1, got[3].Index)
}

func TestListDropsUnresolvableProcesses(t *testing.T) {
	fake := scriptedSystem()
	e := NewEnumerator(fake, nil, DefaultTimeouts(), nil)

	got := e.List([]string{"gone", "Desktop"})

	for _, r := range got {
		assert.NotEqual(t, "0x09000001", r.ID, "failed ps lookup must drop the window")
		assert.NotEqual(t, "0x07000001", r.ID, "pid 0 must drop the window")
	}
	// pid 0 is never looked up.
	for _, c := range fake.CallsTo("ps") {
		assert.NotEqual(t, "0", c.Args[1])
	}
}

func TestListWithoutListingToolIsEmptyNotNil(t *testing.T) {
	fake := toolexectest.New("ps")
	e := NewEnumerator(fake, nil, DefaultTimeouts(), nil)

	got := e.List([]string{"firefox"})

	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, fake.Calls(), "no tool should run when wmctrl is absent")
}

func TestListNoMatchesIsEmptyNotNil(t *testing.T) {
	fake := toolexectest.New("wmctrl", "ps")
	fake.On("0x05000004 0 3003 host Mozilla Firefox\n", "wmctrl", "-lp")
	fake.On("firefox\n", "ps", "-p", "3003", "-o", "comm=")
	e := NewEnumerator(fake, nil, DefaultTimeouts(), nil)

	got := e.List([]string{"slack"})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListFailedListingIsEmptyNotNil(t *testing.T) {
	fake := toolexectest.New("wmctrl", "ps")
	fake.Fail("wmctrl", "-lp")
	e := NewEnumerator(fake, nil, DefaultTimeouts(), nil)

	got := e.List(nil)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListUsesConfiguredClassifier(t *testing.T) {
	fake := toolexectest.New("wmctrl", "ps")
	fake.On("0x01 0 77 host st\n", "wmctrl", "-lp")
	fake.On("st-256color\n", "ps", "-p", "77", "-o", "comm=")
	e := NewEnumerator(fake, apps.NewClassifier([]string{"st"}, nil), DefaultTimeouts(), nil)

	got := e.List(nil)

	require.Len(t, got, 1)
	assert.Equal(t, apps.Terminal, got[0].AppName)
}

func TestParseListLine(t *testing.T) {
	w, ok := parseListLine("0x0240000a -1 812  laptop   spaced   title  ")
	require.True(t, ok)
	assert.Equal(t, "0x0240000a", w.id)
	assert.Equal(t, 812, w.pid)
	assert.Equal(t, "spaced   title", w.title)

	for _, line := range []string{"", "garbage", "0xZZ 0 1 host t", "0x01 0 pid host t", "12 0 1 host t"} {
		_, ok := parseListLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestListUsesFullNameWhenCommIsTruncated(t *testing.T) {
	fake := toolexectest.New("wmctrl", "ps")
	fake.On("0x01 0 88 host Calculator\n0x02 0 99 host worker\n", "wmctrl", "-lp")
	fake.On("gnome-calculato\n", "ps", "-p", "88", "-o", "comm=")
	fake.On("/usr/bin/gnome-calculator --mode=basic\n", "ps", "-p", "88", "-o", "args=")
	// A rewritten command line does not extend comm and is ignored.
	fake.On("renderer-worker\n", "ps", "-p", "99", "-o", "comm=")
	fake.On("node: render pool\n", "ps", "-p", "99", "-o", "args=")
	e := NewEnumerator(fake, nil, DefaultTimeouts(), nil)

	got := e.List([]string{"gnome-calculator", "renderer-worker"})

	require.Len(t, got, 2)
	assert.Equal(t, "gnome-calculator", got[0].AppName)
	assert.Equal(t, "renderer-worker", got[1].AppName)
}

func TestListShortCommSkipsArgsLookup(t *testing.T) {
	fake := toolexectest.New("wmctrl", "ps")
	fake.On("0x01 0 10 host one\n0x02 0 20 host two\n", "wmctrl", "-lp")
	fake.On("firefox\n", "ps", "-p", "10", "-o", "comm=")
	fake.On("xfce4-terminal\n", "ps", "-p", "20", "-o", "comm=")
	e := NewEnumerator(fake, nil, DefaultTimeouts(), nil)

	got := e.List([]string{"firefox"})
	require.Len(t, got, 2)

	for _, c := range fake.CallsTo("ps") {
		assert.Equal(t, "comm=", c.Args[3], "unexpected lookup %q", c.Line())
	}
}

func TestExecutableName(t *testing.T) {
	assert.Equal(t, "gnome-calculator", executableName("/usr/bin/gnome-calculator --mode=basic"))
	assert.Equal(t, "code", executableName("code"))
	assert.Equal(t, "", executableName("  "))
}
