package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ess-tools/attend/internal/api"
	"github.com/ess-tools/attend/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, srv.Client())
}

func TestListPunchesSendsRangeQuery(t *testing.T) {
	var gotPath, gotFrom, gotTo string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFrom = r.URL.Query().Get("from")
		gotTo = r.URL.Query().Get("to")
		w.Write([]byte(`[{"attendance_date":"2024-03-01","punch_in_time":"09:00:00"}]`))
	})

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	rows, err := client.ListPunches(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ListPunches: %v", err)
	}
	if gotPath != "/attendance/punches" {
		t.Errorf("path = %q, want %q", gotPath, "/attendance/punches")
	}
	if gotFrom != "2024-03-01" || gotTo != "2024-03-05" {
		t.Errorf("range = %s..%s, want 2024-03-01..2024-03-05", gotFrom, gotTo)
	}
	if len(rows) != 1 || rows[0].Date != "2024-03-01" {
		t.Errorf("rows = %+v, want one row for 2024-03-01", rows)
	}
	if rows[0].PunchIn == nil || *rows[0].PunchIn != "09:00:00" {
		t.Errorf("PunchIn = %v, want 09:00:00", rows[0].PunchIn)
	}
}

func TestListTasksEnvelopeResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"t1","date":"2024-03-01","project_id":"p1","time_spent_minutes":90}]}`))
	})

	tasks, err := client.ListTasksForDate(context.Background(), "2024-03-01")
	if err != nil {
		t.Fatalf("ListTasksForDate: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("tasks = %+v, want the enveloped task t1", tasks)
	}
}

func TestListProjectsBareArrayResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"project_id":"p1","project_name":"Internal"}]`))
	})

	projects, err := client.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Internal" {
		t.Errorf("projects = %+v, want one project named Internal", projects)
	}
}

func TestShapeMismatchIsEmptyNotError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	})

	projects, err := client.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects on odd shape: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("projects = %+v, want empty for an unrecognized shape", projects)
	}
}

func TestMalformedJSONIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	})

	if _, err := client.ListProjects(context.Background()); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestErrorStatusIncludesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, err := client.ListPunches(context.Background(),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error for 403")
	}
}

func TestUpdateTaskUsesPutWithID(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdateTask(context.Background(), model.Task{ID: "t42", Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/timesheet/tasks/t42" {
		t.Errorf("request = %s %s, want PUT /timesheet/tasks/t42", gotMethod, gotPath)
	}
}

func TestDeleteTask(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteTask(context.Background(), "t7"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/timesheet/tasks/t7" {
		t.Errorf("request = %s %s, want DELETE /timesheet/tasks/t7", gotMethod, gotPath)
	}
}

func TestSavePunchDecodesRow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Write([]byte(`{"attendance_date":"2024-03-15","punch_in_time":"09:01:00"}`))
	})

	row, err := client.SavePunch(context.Background(), api.PunchRequest{Direction: "in"})
	if err != nil {
		t.Fatalf("SavePunch: %v", err)
	}
	if row.Date != "2024-03-15" || row.PunchIn == nil || *row.PunchIn != "09:01:00" {
		t.Errorf("row = %+v, want today's punch-in row", row)
	}
}
