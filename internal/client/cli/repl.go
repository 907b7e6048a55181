package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL needs. The real App type
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	AddPlant(ctx context.Context, args []string) error
	UpdatePlant(ctx context.Context, args []string) error
	DeletePlant(ctx context.Context, args []string) error
	CareLog(ctx context.Context, args []string) error
	Post(ctx context.Context, args []string) error
	User(ctx context.Context, args []string) error
	Like(ctx context.Context, args []string) error
	Pending(ctx context.Context, args []string) error
	ShowStatus(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error
	SetOffline(ctx context.Context, offline bool) error
}

const helpText = `Available commands:
  addplant                 queue a new plant
  updateplant <plant-id>   queue changes to a plant
  deleteplant <plant-id>   queue a plant removal
  carelog <plant-id>       queue a care log entry (water, fertilize, ...)
  post                     queue a community post
  user                     queue a profile update
  like <post-id>           queue a like toggle
  pending [kind]           list queued actions
  status                   show sync status
  sync                     drain the queue now
  clear                    drop every queued action
  offline | online         force offline mode or resume polling
  exit | quit`

// runREPL reads commands from reader until EOF, "exit" or ctx cancellation.
// Command errors are printed and do not stop the loop.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		if p := promptFn(); p != "" {
			fmt.Fprintf(out, "planta %s> ", p)
		}

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)
		case "addplant":
			cmdErr = a.AddPlant(ctx, args)
		case "updateplant":
			cmdErr = a.UpdatePlant(ctx, args)
		case "deleteplant":
			cmdErr = a.DeletePlant(ctx, args)
		case "carelog":
			cmdErr = a.CareLog(ctx, args)
		case "post":
			cmdErr = a.Post(ctx, args)
		case "user":
			cmdErr = a.User(ctx, args)
		case "like":
			cmdErr = a.Like(ctx, args)
		case "pending", "p":
			cmdErr = a.Pending(ctx, args)
		case "status":
			cmdErr = a.ShowStatus(ctx, args)
		case "sync":
			cmdErr = a.Sync(ctx, args)
		case "clear":
			cmdErr = a.Clear(ctx, args)
		case "offline":
			cmdErr = a.SetOffline(ctx, true)
		case "online":
			cmdErr = a.SetOffline(ctx, false)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "error:", cmdErr)
		}
	}
}
