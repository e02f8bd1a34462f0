package dashboard

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/martinsuchenak/advisorctl/internal/advisor"
	"github.com/martinsuchenak/advisorctl/internal/advisor/advisortest"
	"github.com/martinsuchenak/advisorctl/internal/app"
	"github.com/martinsuchenak/advisorctl/internal/config"
	"github.com/martinsuchenak/advisorctl/internal/model"
	"github.com/martinsuchenak/advisorctl/internal/storage"
)

func setupApp(t *testing.T, srv *advisortest.Server) (*app.App, *bytes.Buffer) {
	t.Helper()

	store := storage.NewMemoryStorage()
	store.SaveServerAddress(srv.Address())
	store.SaveToken(advisortest.DefaultToken)

	a := app.New(&config.Config{Timeout: 5 * time.Second}, store, advisor.WithHTTPClient(srv.Client()))
	out := &bytes.Buffer{}
	a.Out = out
	return a, out
}

func TestPrintTasks(t *testing.T) {
	srv := advisortest.NewServer(t)
	srv.SetTasks([]model.Task{
		{ID: "t-1", Name: "Firmware rollout", Status: "Running"},
		{ID: "t-2", Name: "Inventory sync", Status: "COMPLETED"},
	})
	a, out := setupApp(t, srv)

	if err := printTasks(context.Background(), a); err != nil {
		t.Fatalf("printTasks failed: %v", err)
	}
	if !strings.Contains(out.String(), "Firmware rollout") {
		t.Errorf("Expected running task in output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Inventory sync") {
		t.Errorf("Expected completed task to be hidden:\n%s", out.String())
	}
	if srv.Hits("/porcelain/v2/tasks") != 1 {
		t.Errorf("Expected one tasks request, got %d", srv.Hits("/porcelain/v2/tasks"))
	}
}

func TestPrintTasks_BadShape(t *testing.T) {
	srv := advisortest.NewServer(t)
	srv.Override("/porcelain/v2/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"none"}`))
	})
	a, out := setupApp(t, srv)

	if err := printTasks(context.Background(), a); !errors.Is(err, advisor.ErrAPIShape) {
		t.Fatalf("Expected ErrAPIShape, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}

func TestPrintCompliance(t *testing.T) {
	srv := advisortest.NewServer(t)
	srv.SetSystems(advisortest.Fleet())
	a, out := setupApp(t, srv)

	if err := printCompliance(context.Background(), a); err != nil {
		t.Fatalf("printCompliance failed: %v", err)
	}
	if !strings.Contains(out.String(), "67%") {
		t.Errorf("Expected 67%% compliance in output:\n%s", out.String())
	}
}

func TestPrintAlerts(t *testing.T) {
	srv := advisortest.NewServer(t)
	srv.SetSystems(advisortest.Fleet())
	a, out := setupApp(t, srv)

	if err := printAlerts(context.Background(), a); err != nil {
		t.Fatalf("printAlerts failed: %v", err)
	}
	if !strings.Contains(out.String(), "Fan Health Status: CRITICAL") {
		t.Errorf("Expected fan alert in output:\n%s", out.String())
	}
}

func TestPrintOverview(t *testing.T) {
	srv := advisortest.NewServer(t)
	srv.SetSystems(advisortest.Fleet())
	a, out := setupApp(t, srv)

	if err := printOverview(context.Background(), a); err != nil {
		t.Fatalf("printOverview failed: %v", err)
	}
	if !strings.Contains(out.String(), "Advisor overview") {
		t.Errorf("Expected overview heading in output:\n%s", out.String())
	}
}
