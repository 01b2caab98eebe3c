package tests

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	httpapi "groupcart/cart-svc/internal/api/http"
	"groupcart/cart-svc/internal/domain"
	"groupcart/cart-svc/internal/service"
	"groupcart/cart-svc/internal/storage"
	"groupcart/device/agent"
	"groupcart/device/api"
	"groupcart/device/cart"
	"groupcart/device/completion"
	"groupcart/device/localstore"
	"groupcart/device/pipeline"
	"groupcart/device/poller"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDevice struct {
	identity string
	store    *cart.Store
	pipe     *pipeline.Pipeline
	poll     *poller.Poller
	coord    *completion.Coordinator
	history  *localstore.History
}

func newTestDevice(t *testing.T, rdb *redis.Client, baseURL, namespace, identity string) *testDevice {
	t.Helper()
	client := api.NewClient(baseURL, "", 2*time.Second)
	counts := localstore.NewCounts(rdb, namespace)
	history := localstore.NewHistory(rdb, namespace)
	store := cart.NewStore(counts, nil)

	coord := completion.New(completion.Config{
		Store:    store,
		Guard:    localstore.NewGuard(rdb, namespace, 5*time.Minute),
		Handoffs: localstore.NewHandoffs(rdb, namespace),
		History:  history,
		API:      client,
	})
	return &testDevice{
		identity: identity,
		store:    store,
		pipe:     pipeline.New(store, client, coord, 2*time.Second, nil),
		poll:     poller.New(client, store, coord, time.Second, nil),
		coord:    coord,
		history:  history,
	}
}

func (d *testDevice) add(t *testing.T, rid, menuID int) api.State {
	t.Helper()
	out, err := d.pipe.Increase(context.Background(), d.identity, rid, menuID)
	require.NoError(t, err)
	return out.State
}

func startCartServer(t *testing.T, seed domain.SeedRestaurant) (*storage.MemoryStore, *httptest.Server, domain.Restaurant, []domain.MenuItem) {
	t.Helper()
	mem := storage.NewMemoryStore()
	rest, menus := mem.AddRestaurant(seed)
	svc := service.NewAggregateService(mem, mem, nil, nil, nil)
	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(svc, false, nil)))
	t.Cleanup(srv.Close)
	return mem, srv, rest, menus
}

func steakhouseSeed() domain.SeedRestaurant {
	return domain.SeedRestaurant{
		Name:          "Steakhouse",
		MinOrderPrice: 20000,
		Menus: []domain.SeedMenu{
			{Name: "A", Price: 7900},
			{Name: "B", Price: 2500},
		},
	}
}

func TestGroupOrderScenario_TwoDevices(t *testing.T) {
	ctx := context.Background()
	mem, srv, rest, menus := startCartServer(t, steakhouseSeed())
	a, b := menus[0].ID, menus[1].ID

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	d1 := newTestDevice(t, rdb, srv.URL, "d1", "user:1")
	d2 := newTestDevice(t, rdb, srv.URL, "d2", "user:2")
	for _, d := range []*testDevice{d1, d2} {
		d.poll.Track(rest.ID)
		d.poll.Tick(ctx)
	}

	assert.Equal(t, int64(7900), d1.add(t, rest.ID, a).PendingPrice)
	assert.Equal(t, int64(15800), d2.add(t, rest.ID, a).PendingPrice)
	assert.Equal(t, int64(18300), d1.add(t, rest.ID, b).PendingPrice)
	assert.Equal(t, int64(26200), d2.add(t, rest.ID, a).PendingPrice)

	d1.poll.Tick(ctx)
	d2.poll.Tick(ctx)

	awaiting := 0
	for _, d := range []*testDevice{d1, d2} {
		if d.coord.Phase(d.identity, rest.ID) == completion.PhaseAwaitingConfirmation {
			awaiting++
		}
	}
	assert.Equal(t, 1, awaiting, "exactly one device finalizes")
	assert.Equal(t, completion.PhaseAwaitingConfirmation, d2.coord.Phase("user:2", rest.ID))

	pending, err := d1.coord.Pending(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending)

	entry, err := d2.coord.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A x2"}, entry.Items)
	assert.Equal(t, int64(15800), entry.TotalPrice)

	st, err := mem.ReadState(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(0), st.PendingPrice)

	d1.poll.Tick(ctx)
	d2.poll.Tick(ctx)

	for _, d := range []*testDevice{d1, d2} {
		assert.Empty(t, d.store.Identities(rest.ID), "%s view cleared", d.identity)
		cached, _ := d.store.Snapshot(rest.ID)
		assert.Equal(t, int64(0), cached.PendingPrice)
	}

	h1, err := d1.history.List(ctx, "user:1")
	require.NoError(t, err)
	require.Len(t, h1, 1)
	assert.Equal(t, []string{"A", "B"}, h1[0].Items)
	assert.Equal(t, int64(7900+2500), h1[0].TotalPrice)

	h2, err := d2.history.List(ctx, "user:2")
	require.NoError(t, err)
	assert.Len(t, h2, 1)

	listed, err := mem.ListMenus(ctx, rest.ID)
	require.NoError(t, err)
	for _, m := range listed {
		assert.Zero(t, m.AmountOrdered)
	}
	assert.False(t, mr.Exists("d2:pending_order"))
	assert.False(t, mr.Exists("d1:counts:user:1:"+strconv.Itoa(rest.ID)))
}

func TestGroupOrderScenario_CancelledActorRestartDoesNotStrandCart(t *testing.T) {
	ctx := context.Background()
	mem, srv, rest, menus := startCartServer(t, steakhouseSeed())
	a := menus[0].ID

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	d1 := newTestDevice(t, rdb, srv.URL, "d1", "user:1")
	d2 := newTestDevice(t, rdb, srv.URL, "d2", "user:2")
	d1.poll.Track(rest.ID)
	d1.poll.Tick(ctx)

	d1.add(t, rest.ID, a)
	d1.add(t, rest.ID, a)
	assert.Equal(t, int64(23700), d2.add(t, rest.ID, a).PendingPrice)
	require.Equal(t, completion.PhaseAwaitingConfirmation, d2.coord.Phase("user:2", rest.ID))
	require.NoError(t, d2.coord.Cancel(ctx))

	d2 = newTestDevice(t, rdb, srv.URL, "d2", "user:2")
	require.NoError(t, d2.coord.Recover(ctx))
	assert.Equal(t, completion.PhaseIdle, d2.coord.Phase("user:2", rest.ID))

	assert.Equal(t, int64(31600), d1.add(t, rest.ID, a).PendingPrice)
	require.Equal(t, completion.PhaseAwaitingConfirmation, d1.coord.Phase("user:1", rest.ID))

	entry, err := d1.coord.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A x3"}, entry.Items)

	st, err := mem.ReadState(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(0), st.PendingPrice)
}

func TestGroupOrderScenario_ConcurrentDevicesKeepTotals(t *testing.T) {
	seed := steakhouseSeed()
	seed.MinOrderPrice = 1_000_000
	mem, srv, rest, menus := startCartServer(t, seed)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	const devices = 8
	var wg sync.WaitGroup
	for i := 0; i < devices; i++ {
		d := newTestDevice(t, rdb, srv.URL, "d"+string(rune('a'+i)), "guest")
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, m := range menus {
				_, err := d.pipe.Increase(context.Background(), d.identity, rest.ID, m.ID)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	st, err := mem.ReadState(context.Background(), rest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(devices*(7900+2500)), st.PendingPrice)
}

func TestGroupOrderScenario_AgentCommands(t *testing.T) {
	ctx := context.Background()
	_, srv, rest, menus := startCartServer(t, steakhouseSeed())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	d := newTestDevice(t, rdb, srv.URL, "d1", "user:1")
	d.poll.Track(rest.ID)
	d.poll.Tick(ctx)

	var out bytes.Buffer
	ag := &agent.Agent{
		Identity:    d.identity,
		Store:       d.store,
		Pipeline:    d.pipe,
		Coordinator: d.coord,
		Poller:      d.poll,
		History:     d.history,
		Out:         &out,
	}

	a := menus[0].ID
	item := strconv.Itoa(rest.ID) + " " + strconv.Itoa(a)
	script := strings.Join([]string{
		"remove " + item,
		"add " + item,
		"add " + item,
		"add " + item,
		"pending",
		"confirm",
		"history",
		"bogus",
		"quit",
		"add " + item,
	}, "\n")
	require.NoError(t, ag.Run(ctx, strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "nothing to remove")
	assert.Contains(t, text, "pending 23700/20000")
	assert.Contains(t, text, "pending order at Steakhouse for user:1: A x3 (23700)")
	assert.Contains(t, text, "confirmed Steakhouse: A x3 (23700)")
	assert.Contains(t, text, "delivered Steakhouse: A x3 (23700)")
	assert.Contains(t, text, "error: commands:")
	assert.Equal(t, 0, d.store.Quantity("user:1", rest.ID, a), "commands after quit are not run")
}
