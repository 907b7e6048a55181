package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/pedro664/PLANTA-sub001/internal/client/models"
	"github.com/pedro664/PLANTA-sub001/internal/client/syncer"
)

var errUsage = errors.New("usage")

// now is a test seam.
var now = func() time.Time { return time.Now().UTC() }

func (a *App) queue(ctx context.Context, kind models.ActionKind, payload any) error {
	id, err := a.engine.Enqueue(ctx, kind, payload, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "queued %s %s (%d pending)\n", kind, id, a.engine.Status().Pending)
	return nil
}

func (a *App) AddPlant(ctx context.Context, _ []string) error {
	name, err := GetRequired(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	p := models.Plant{ID: uuid.NewString(), Name: name}
	if p.Species, err = GetSimpleText(a.reader, "Species", a.out); err != nil {
		return err
	}
	if p.Location, err = GetSimpleText(a.reader, "Location", a.out); err != nil {
		return err
	}
	if p.ImagePath, err = GetSimpleText(a.reader, "Image path (optional)", a.out); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "plant id: %s\n", p.ID)
	return a.queue(ctx, models.KindCreatePlant, p)
}

func (a *App) UpdatePlant(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: updateplant <plant-id>", errUsage)
	}
	p := models.Plant{ID: args[0]}

	var err error
	if p.Name, err = GetSimpleText(a.reader, "Name (empty keeps current)", a.out); err != nil {
		return err
	}
	if p.Species, err = GetSimpleText(a.reader, "Species", a.out); err != nil {
		return err
	}
	if p.Location, err = GetSimpleText(a.reader, "Location", a.out); err != nil {
		return err
	}
	if p.Notes, err = GetSimpleText(a.reader, "Notes", a.out); err != nil {
		return err
	}
	if p.ImagePath, err = GetSimpleText(a.reader, "Image path (optional)", a.out); err != nil {
		return err
	}
	return a.queue(ctx, models.KindUpdatePlant, p)
}

func (a *App) DeletePlant(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: deleteplant <plant-id>", errUsage)
	}
	return a.queue(ctx, models.KindDeletePlant, models.PlantRef{ID: args[0]})
}

func (a *App) CareLog(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: carelog <plant-id>", errUsage)
	}
	l := models.CareLog{ID: uuid.NewString(), PlantID: args[0], PerformedAt: now()}

	var err error
	if l.Type, err = GetOptional(a.reader, "Care type", "water", a.out); err != nil {
		return err
	}
	if l.Note, err = GetSimpleText(a.reader, "Note", a.out); err != nil {
		return err
	}
	if l.ImagePath, err = GetSimpleText(a.reader, "Image path (optional)", a.out); err != nil {
		return err
	}
	return a.queue(ctx, models.KindAddCareLog, l)
}

func (a *App) Post(ctx context.Context, _ []string) error {
	author, err := GetOptional(a.reader, "Author id", a.userID, a.out)
	if err != nil {
		return err
	}
	if author == "" {
		return errors.New("author id required; run 'user' first")
	}
	p := models.Post{ID: uuid.NewString(), AuthorID: author}
	if p.Body, err = GetRequired(a.reader, "Text", a.out); err != nil {
		return err
	}
	if p.PlantID, err = GetSimpleText(a.reader, "Plant id (optional)", a.out); err != nil {
		return err
	}
	if p.ImagePath, err = GetSimpleText(a.reader, "Image path (optional)", a.out); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "post id: %s\n", p.ID)
	return a.queue(ctx, models.KindCreatePost, p)
}

func (a *App) User(ctx context.Context, _ []string) error {
	id, err := GetOptional(a.reader, "User id", a.userID, a.out)
	if err != nil {
		return err
	}
	if id == "" {
		id = uuid.NewString()
	}
	u := models.UserProfile{ID: id}
	if u.DisplayName, err = GetSimpleText(a.reader, "Display name", a.out); err != nil {
		return err
	}
	if u.Bio, err = GetSimpleText(a.reader, "Bio", a.out); err != nil {
		return err
	}
	if u.AvatarPath, err = GetSimpleText(a.reader, "Avatar path (optional)", a.out); err != nil {
		return err
	}

	if err := a.queue(ctx, models.KindUpdateUser, u); err != nil {
		return err
	}
	a.userID = id
	return nil
}

func (a *App) Like(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: like <post-id> [user-id]", errUsage)
	}
	l := models.Like{PostID: args[0], UserID: a.userID}
	if len(args) == 2 {
		l.UserID = args[1]
	}
	if l.UserID == "" {
		return errors.New("user id required; run 'user' first or pass it")
	}
	return a.queue(ctx, models.KindToggleLike, l)
}

func (a *App) Pending(_ context.Context, args []string) error {
	var actions []models.SyncAction
	switch len(args) {
	case 0:
		actions = a.engine.Pending()
	case 1:
		kind := models.ActionKind(args[0])
		if !kind.Valid() {
			return fmt.Errorf("%w: %s", syncer.ErrUnknownKind, args[0])
		}
		actions = a.engine.PendingByKind(kind)
	default:
		return fmt.Errorf("%w: pending [kind]", errUsage)
	}

	if len(actions) == 0 {
		fmt.Fprintln(a.out, "Nothing pending.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tENQUEUED\tRETRIES\tLAST ERROR")
	for _, act := range actions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			act.ID, act.Kind, act.Metadata.EnqueuedAt.Format(time.RFC3339),
			act.Metadata.RetryCount, truncate(act.Metadata.LastError, 40))
	}
	return w.Flush()
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func (a *App) ShowStatus(_ context.Context, _ []string) error {
	st := a.engine.Status()

	last := "never"
	if !st.LastSync.IsZero() {
		last = st.LastSync.Local().Format(time.RFC1123)
	}
	online := a.network != nil && a.network.IsOnline()

	fmt.Fprintf(a.out, "online:       %t\n", online)
	fmt.Fprintf(a.out, "state:        %s\n", st.State)
	fmt.Fprintf(a.out, "pending:      %d\n", st.Pending)
	fmt.Fprintf(a.out, "last sync:    %s\n", last)
	if st.LastOutcome != syncer.StateIdle {
		fmt.Fprintf(a.out, "last pass:    %s (%d ok, %d failed, %d discarded)\n",
			st.LastOutcome, st.LastResult.SuccessCount, st.LastResult.ErrorCount, len(st.LastResult.FailedActions))
	}
	return nil
}

func (a *App) Sync(ctx context.Context, _ []string) error {
	res, err := a.engine.ForceSyncNow(ctx)

	switch res.Skipped {
	case syncer.SkipInProgress:
		fmt.Fprintln(a.out, "A sync is already running.")
	case syncer.SkipEmpty:
		fmt.Fprintln(a.out, "Nothing to sync.")
	case syncer.SkipOffline:
		fmt.Fprintln(a.out, "Offline: changes stay queued until the server is reachable.")
	default:
		fmt.Fprintf(a.out, "Synced %d, failed %d, discarded %d.\n",
			res.SuccessCount, res.ErrorCount, len(res.FailedActions))
	}
	return err
}

func (a *App) Clear(ctx context.Context, _ []string) error {
	ok, err := Confirm(a.reader, "Drop every queued change? This cannot be undone", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	n, err := a.engine.ClearAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Dropped %d queued change(s).\n", n)
	return nil
}

func (a *App) SetOffline(ctx context.Context, offline bool) error {
	if a.network == nil {
		return errors.New("reachability monitor not available")
	}
	a.network.ForceOffline(ctx, offline)
	mode := "online"
	if !a.network.IsOnline() {
		mode = "offline"
	}
	fmt.Fprintf(a.out, "Now %s.\n", strings.ToUpper(mode[:1])+mode[1:])
	return nil
}
