package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/martinsuchenak/advisorctl/internal/advisor"
	"github.com/martinsuchenak/advisorctl/internal/advisor/advisortest"
	"github.com/martinsuchenak/advisorctl/internal/model"
	"github.com/martinsuchenak/advisorctl/internal/storage"
	"github.com/martinsuchenak/advisorctl/internal/worker"
)

func setupReader(t *testing.T) (*advisor.Client, *advisortest.Server) {
	t.Helper()

	srv := advisortest.NewServer(t)
	srv.SetSystems(advisortest.Fleet())
	srv.SetTasks([]model.Task{
		{ID: "1", Name: "Firmware update", Status: "Running"},
		{ID: "2", Name: "Discovery", Status: "Completed"},
	})

	store := storage.NewMemoryStorage()
	store.SaveServerAddress(srv.Address())
	store.SaveToken(advisortest.DefaultToken)

	return advisor.NewClient(store, advisor.WithHTTPClient(srv.Client())), srv
}

func TestLoadOverview(t *testing.T) {
	client, _ := setupReader(t)

	o, err := LoadOverview(context.Background(), client)
	if err != nil {
		t.Fatalf("LoadOverview failed: %v", err)
	}

	if len(o.Systems) != 2 || len(o.Devices) != 3 {
		t.Errorf("Expected 2 systems and 3 devices, got %d and %d", len(o.Systems), len(o.Devices))
	}
	if o.Firmware.Total != 3 || o.Firmware.NonCompliant != 1 {
		t.Errorf("Unexpected firmware summary: %+v", o.Firmware)
	}
	if len(o.Tasks) != 1 || o.Tasks[0].ID != "1" {
		t.Errorf("Expected only the running task, got %+v", o.Tasks)
	}
	if len(o.Alerts) != 1 {
		t.Errorf("Expected 1 alert, got %+v", o.Alerts)
	}
	if len(o.Markers) != len(advisor.MapMarkers(o.Systems)) {
		t.Errorf("Expected markers derived from systems, got %+v", o.Markers)
	}
	if o.LoadedAt.IsZero() {
		t.Error("Expected LoadedAt to be set")
	}
}

func TestLoadOverview_AnyFailureFailsSnapshot(t *testing.T) {
	client, srv := setupReader(t)
	srv.Override("/porcelain/v2/tasks", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"task service down"}`, http.StatusInternalServerError)
	})

	o, err := LoadOverview(context.Background(), client)
	if !errors.Is(err, advisor.ErrRequestFailed) {
		t.Fatalf("Expected ErrRequestFailed, got %v", err)
	}
	if o != nil {
		t.Errorf("Expected no partial snapshot, got %+v", o)
	}
	// The other reads still settled
	if srv.Hits("/porcelain/v2/systems") == 0 {
		t.Error("Expected systems to be read despite the task failure")
	}
}

func TestLoadSystemDetail(t *testing.T) {
	client, _ := setupReader(t)

	detail, err := LoadSystemDetail(context.Background(), client, "sys-a")
	if err != nil {
		t.Fatalf("LoadSystemDetail failed: %v", err)
	}
	if detail.System.ID != "sys-a" || len(detail.Devices) != 2 {
		t.Errorf("Unexpected detail: %+v", detail)
	}

	if _, err := LoadSystemDetail(context.Background(), client, "missing"); !errors.Is(err, advisor.ErrSystemNotFound) {
		t.Errorf("Expected ErrSystemNotFound, got %v", err)
	}
}

func TestView_RendersOnMount(t *testing.T) {
	poller := worker.NewPoller()
	poller.Start()
	defer poller.Stop()

	rendered := make(chan int, 1)
	view := NewView(poller, "counter", time.Hour,
		func(ctx context.Context) (int, error) { return 42, nil },
		func(v int, err error) { rendered <- v },
	)
	if err := view.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer view.Unmount()

	select {
	case v := <-rendered:
		if v != 42 {
			t.Errorf("Expected 42, got %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected initial render")
	}
}

func TestView_RendersErrors(t *testing.T) {
	poller := worker.NewPoller()
	defer poller.Stop()

	boom := errors.New("boom")
	rendered := make(chan error, 1)
	view := NewView(poller, "failing", time.Hour,
		func(ctx context.Context) (*Overview, error) { return nil, boom },
		func(o *Overview, err error) { rendered <- err },
	)
	view.Mount()
	defer view.Unmount()

	select {
	case err := <-rendered:
		if !errors.Is(err, boom) {
			t.Errorf("Expected boom, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected error render")
	}
}

func TestView_NoRenderAfterUnmount(t *testing.T) {
	poller := worker.NewPoller()
	defer poller.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})

	var mu sync.Mutex
	renders := 0

	view := NewView(poller, "slow", time.Hour,
		func(ctx context.Context) (string, error) {
			close(started)
			<-release
			defer close(finished)
			return "late", nil
		},
		func(string, error) {
			mu.Lock()
			renders++
			mu.Unlock()
		},
	)
	view.Mount()

	<-started
	view.Unmount()
	close(release)
	<-finished
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if renders != 0 {
		t.Errorf("Expected no render after unmount, got %d", renders)
	}
	if view.Mounted() {
		t.Error("Expected view to be unmounted")
	}
	if poller.Subscriptions() != 0 {
		t.Errorf("Expected subscription removed, got %d", poller.Subscriptions())
	}
}

func TestView_UnmountWaitsForRender(t *testing.T) {
	poller := worker.NewPoller()
	defer poller.Stop()

	rendering := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	renders := 0

	view := NewView(poller, "busy", time.Hour,
		func(ctx context.Context) (int, error) { return 1, nil },
		func(int, error) {
			mu.Lock()
			renders++
			first := renders == 1
			mu.Unlock()
			if first {
				close(rendering)
				<-release
			}
		},
	)
	view.Mount()
	<-rendering

	unmounted := make(chan struct{})
	go func() {
		view.Unmount()
		close(unmounted)
	}()

	select {
	case <-unmounted:
		t.Fatal("Expected Unmount to wait for the render in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-unmounted:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Unmount to return after the render finished")
	}

	// A load that settles after Unmount returned is dropped
	view.refresh(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if renders != 1 {
		t.Errorf("Expected exactly one render, got %d", renders)
	}
}

func TestPrinter(t *testing.T) {
	client, _ := setupReader(t)
	o, err := LoadOverview(context.Background(), client)
	if err != nil {
		t.Fatalf("LoadOverview failed: %v", err)
	}

	p := NewPrinter(DefaultTheme)

	out := p.Overview(o)
	for _, want := range []string{"Systems", "Fan Health Status: CRITICAL", "Firmware update"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected overview to contain %q", want)
		}
	}

	devices := p.Devices(o.Devices)
	for _, id := range []string{"dev-1", "dev-2", "dev-3"} {
		if !strings.Contains(devices, id) {
			t.Errorf("Expected device table to contain %s", id)
		}
	}
	if !strings.Contains(devices, "OFF") || !strings.Contains(devices, "outdated") {
		t.Errorf("Expected power and firmware badges in:\n%s", devices)
	}

	if got := p.Tasks(nil); !strings.Contains(got, "No active tasks") {
		t.Errorf("Unexpected empty tasks render %q", got)
	}
	if got := p.HealthBadge(""); !strings.Contains(got, "-") {
		t.Errorf("Expected placeholder for unreported health, got %q", got)
	}
	if got := p.PowerBadge("weird"); !strings.Contains(got, "UNKNOWN") {
		t.Errorf("Expected UNKNOWN for unrecognised power, got %q", got)
	}
}
