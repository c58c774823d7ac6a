// Package toolexectest provides a scripted toolexec.Runner for tests.
package toolexectest

import (
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/wingrid/internal/toolexec"
)

// Call is one recorded invocation.
type Call struct {
	Name string
	Args []string
	Dir  string
}

// Line renders the call as a single command line.
func (c Call) Line() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Fake is a scripted Runner. Installed tools without a scripted response
// succeed with empty output; tools that are not installed always yield an
// empty, failed result.
type Fake struct {
	mu        sync.Mutex
	installed map[string]bool
	responses map[string]toolexec.Result
	calls     []Call
	started   []Call

	// StartFn overrides Start when set.
	StartFn func(dir, name string, args ...string) (*toolexec.Process, error)
}

var _ toolexec.Runner = (*Fake)(nil)

// New creates a fake with the named tools installed.
func New(installed ...string) *Fake {
	f := &Fake{
		installed: make(map[string]bool),
		responses: make(map[string]toolexec.Result),
	}
	f.Install(installed...)
	return f
}

// Install marks tools as present on PATH.
func (f *Fake) Install(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.installed[n] = true
	}
}

// Uninstall removes tools from PATH.
func (f *Fake) Uninstall(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		delete(f.installed, n)
	}
}

// On scripts a successful response for an exact command line.
func (f *Fake) On(output, name string, args ...string) {
	f.set(toolexec.Result{Output: output, OK: true}, name, args...)
}

// Fail scripts a failed invocation for an exact command line.
func (f *Fake) Fail(name string, args ...string) {
	f.set(toolexec.Result{}, name, args...)
}

func (f *Fake) set(r toolexec.Result, name string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[Call{Name: name, Args: args}.Line()] = r
}

// Run implements toolexec.Runner.
func (f *Fake) Run(_ time.Duration, name string, args ...string) toolexec.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Name: name, Args: append([]string(nil), args...)}
	f.calls = append(f.calls, call)

	if !f.installed[name] {
		return toolexec.Result{}
	}
	if r, ok := f.responses[call.Line()]; ok {
		return r
	}
	return toolexec.Result{OK: true}
}

// Exists implements toolexec.Runner.
func (f *Fake) Exists(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installed[name]
}

// Start implements toolexec.Runner. Without StartFn the returned process
// never reports an exit.
func (f *Fake) Start(dir, name string, args ...string) (*toolexec.Process, error) {
	f.mu.Lock()
	f.started = append(f.started, Call{Name: name, Args: append([]string(nil), args...), Dir: dir})
	fn := f.StartFn
	f.mu.Unlock()

	if fn != nil {
		return fn(dir, name, args...)
	}
	return &toolexec.Process{PID: 4242, Done: make(chan error)}, nil
}

// Calls returns every Run invocation in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns every Run invocation rendered as a command line.
func (f *Fake) Lines() []string {
	calls := f.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Line())
	}
	return out
}

// CallsTo returns Run invocations of one tool.
func (f *Fake) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Started returns every Start invocation in order.
func (f *Fake) Started() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.started...)
}

// Reset forgets recorded calls but keeps the script.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.started = nil
}
