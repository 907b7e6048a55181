package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	err   error
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.err
}

func (f *fakeExec) AddPlant(_ context.Context, a []string) error    { return f.rec("addplant", a) }
func (f *fakeExec) UpdatePlant(_ context.Context, a []string) error { return f.rec("updateplant", a) }
func (f *fakeExec) DeletePlant(_ context.Context, a []string) error { return f.rec("deleteplant", a) }
func (f *fakeExec) CareLog(_ context.Context, a []string) error     { return f.rec("carelog", a) }
func (f *fakeExec) Post(_ context.Context, a []string) error        { return f.rec("post", a) }
func (f *fakeExec) User(_ context.Context, a []string) error        { return f.rec("user", a) }
func (f *fakeExec) Like(_ context.Context, a []string) error        { return f.rec("like", a) }
func (f *fakeExec) Pending(_ context.Context, a []string) error     { return f.rec("pending", a) }
func (f *fakeExec) ShowStatus(_ context.Context, a []string) error  { return f.rec("status", a) }
func (f *fakeExec) Sync(_ context.Context, a []string) error        { return f.rec("sync", a) }
func (f *fakeExec) Clear(_ context.Context, a []string) error       { return f.rec("clear", a) }
func (f *fakeExec) SetOffline(_ context.Context, off bool) error {
	if off {
		return f.rec("offline", nil)
	}
	return f.rec("online", nil)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"addplant",
		"",
		"carelog p1",
		"updateplant p1",
		"deleteplant p1",
		"post",
		"user",
		"like po1 u1",
		"pending create_plant",
		"p",
		"status",
		"offline",
		"online",
		"sync",
		"clear",
		"foobar",
		"exit",
		"sync",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "(online, 0 pending)" }, rdr(input), &out)

	assert.Equal(t, []string{
		"addplant", "carelog p1", "updateplant p1", "deleteplant p1", "post", "user",
		"like po1 u1", "pending create_plant", "pending", "status", "offline", "online", "sync", "clear",
	}, exec.calls, "commands after exit are not run")

	s := out.String()
	assert.Contains(t, s, "Available commands:")
	assert.Contains(t, s, "Unknown command: foobar")
	assert.Contains(t, s, "planta (online, 0 pending)> ")
	assert.Contains(t, s, "Bye!")
}

func TestRunREPL_PrintsCommandErrorsAndContinues(t *testing.T) {
	exec := &fakeExec{err: errors.New("queue persistence failed")}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, rdr("sync\nstatus\n"), &out)

	assert.Equal(t, []string{"sync", "status"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out.String(), "error: queue persistence failed"))
	assert.NotContains(t, out.String(), "planta", "no prompt when prompt func is empty")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("sync\n"), &bytes.Buffer{})
	assert.Empty(t, exec.calls)
}
