package infra

import (
	"errors"
	"strings"
)

// fakeRunner implements domain.CommandRunner, recording every invocation
// and answering from scripted results.
type fakeRunner struct {
	calls []string

	// runErrs maps a joined command line to its error; unlisted
	// commands succeed.
	runErrs map[string]error

	// outputs maps a joined command line to its combined output.
	outputs map[string]string

	// lookPaths maps a binary name to its resolved path; unlisted
	// binaries fail resolution.
	lookPaths map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		runErrs:   map[string]error{},
		outputs:   map[string]string{},
		lookPaths: map[string]string{},
	}
}

func joinCmd(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *fakeRunner) Run(name string, args ...string) error {
	cmd := joinCmd(name, args)
	f.calls = append(f.calls, cmd)
	return f.runErrs[cmd]
}

func (f *fakeRunner) Output(name string, args ...string) (string, error) {
	cmd := joinCmd(name, args)
	f.calls = append(f.calls, cmd)
	if err, ok := f.runErrs[cmd]; ok && err != nil {
		return f.outputs[cmd], err
	}
	return f.outputs[cmd], nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if path, ok := f.lookPaths[name]; ok {
		return path, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeRunner) called(cmd string) bool {
	for _, c := range f.calls {
		if c == cmd {
			return true
		}
	}
	return false
}
