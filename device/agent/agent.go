// Package agent is a line-oriented front end for one device. It reads
// commands such as "add 1 4" and prints results, standing in for the
// screens of a client app.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"groupcart/device/cart"
	"groupcart/device/completion"
	"groupcart/device/localstore"
	"groupcart/device/pipeline"
	"groupcart/device/poller"
)

const usage = "commands: add <rid> <menuId> | remove <rid> <menuId> | state | pending | confirm | cancel | history | quit"

var errUsage = errors.New(usage)

type HistoryReader interface {
	List(ctx context.Context, identity string) ([]localstore.OrderEntry, error)
}

type Agent struct {
	Identity    string
	Store       *cart.Store
	Pipeline    *pipeline.Pipeline
	Coordinator *completion.Coordinator
	Poller      *poller.Poller
	History     HistoryReader
	Out         io.Writer
}

// Run executes commands from in until "quit", EOF or ctx is done.
func (a *Agent) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		quit, err := a.Execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(a.Out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (a *Agent) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "add", "remove":
		rid, menuID, err := parseIDs(fields[1:])
		if err != nil {
			return false, err
		}
		return false, a.change(ctx, strings.EqualFold(fields[0], "add"), rid, menuID)
	case "state":
		a.printState()
		return false, nil
	case "pending":
		return false, a.printPending(ctx)
	case "confirm":
		entry, err := a.Coordinator.Confirm(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.Out, "confirmed %s: %s (%d)\n", entry.RestaurantName, strings.Join(entry.Items, ", "), entry.TotalPrice)
		return false, nil
	case "cancel":
		if err := a.Coordinator.Cancel(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(a.Out, "pending order cancelled")
		return false, nil
	case "history":
		return false, a.printHistory(ctx)
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(a.Out, usage)
		return false, nil
	default:
		return false, errUsage
	}
}

func (a *Agent) change(ctx context.Context, add bool, rid, menuID int) error {
	if a.Poller != nil {
		a.Poller.Track(rid)
	}

	var (
		out pipeline.Outcome
		err error
	)
	if add {
		out, err = a.Pipeline.Increase(ctx, a.Identity, rid, menuID)
	} else {
		out, err = a.Pipeline.Decrease(ctx, a.Identity, rid, menuID)
	}
	if err != nil {
		return err
	}
	if !out.Applied {
		fmt.Fprintf(a.Out, "menu %d: nothing to remove\n", menuID)
		return nil
	}
	fmt.Fprintf(a.Out, "menu %d qty %d, pending %d/%d\n", menuID, out.Quantity, out.State.PendingPrice, out.State.MinOrderPrice)
	return nil
}

func (a *Agent) printState() {
	var ids []int
	if a.Poller != nil {
		ids = a.Poller.Tracked()
	}
	if len(ids) == 0 {
		ids = a.Store.Restaurants(a.Identity)
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.Out, "no restaurants tracked")
		return
	}

	for _, rid := range ids {
		st, _ := a.Store.Snapshot(rid)
		name := strconv.Itoa(rid)
		if meta, ok := a.Store.Meta(rid); ok {
			name = meta.Name
		}
		fmt.Fprintf(a.Out, "%s: pending %d/%d phase %s\n", name, st.PendingPrice, st.MinOrderPrice, a.Coordinator.Phase(a.Identity, rid))
		counts := a.Store.Counts(a.Identity, rid)
		menuIDs := make([]int, 0, len(counts))
		for menuID := range counts {
			menuIDs = append(menuIDs, menuID)
		}
		sort.Ints(menuIDs)
		for _, menuID := range menuIDs {
			qty := counts[menuID]
			label := strconv.Itoa(menuID)
			if m, ok := a.Store.Menu(rid, menuID); ok {
				label = m.Name
			}
			fmt.Fprintf(a.Out, "  %s x%d\n", label, qty)
		}
	}
}

func (a *Agent) printPending(ctx context.Context) error {
	h, err := a.Coordinator.Pending(ctx)
	if err != nil {
		return err
	}
	if h == nil {
		fmt.Fprintln(a.Out, "nothing to confirm")
		return nil
	}
	fmt.Fprintf(a.Out, "pending order at %s for %s: %s (%d)\n",
		h.RestaurantName, h.Identity, strings.Join(h.Order.Items, ", "), h.Order.TotalPrice)
	return nil
}

func (a *Agent) printHistory(ctx context.Context) error {
	entries, err := a.History.List(ctx, a.Identity)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "no orders yet")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(a.Out, "%s %s %s: %s (%d)\n", e.OrderDate, e.Status, e.RestaurantName, strings.Join(e.Items, ", "), e.TotalPrice)
	}
	return nil
}

func parseIDs(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, errUsage
	}
	rid, err1 := strconv.Atoi(args[0])
	menuID, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || rid <= 0 || menuID <= 0 {
		return 0, 0, errUsage
	}
	return rid, menuID, nil
}
