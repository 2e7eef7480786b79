package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matst80/escape-finder/pkg/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const testDataset = `{"rooms": [
  {"id": 1, "game": "Lab", "company": "Lock Co", "status": "completed", "win": true, "date": "2022-05-01",
   "tags": ["best"], "players": ["Ann", "Bo"],
   "location": {"city": "Austin", "region": "TX", "country": "USA", "lat": 30.2, "lng": -97.7}},
  {"id": 2, "game": "Crypt", "company": "Maple Rooms", "status": "completed", "win": false, "date": "2021-03-10",
   "notes": "Very dark", "location": {"city": "Toronto", "region": "ON", "country": "Canada"}},
  {"id": 3, "game": "Vault", "company": "Lock Co", "status": "planned", "date": "2023-01-01",
   "tags": ["online"], "location": {"country": "USA"}}
]}`

func writeDataset(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "rooms.json")
	if err := os.WriteFile(p, []byte(testDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&app{logger: zap.NewNop()})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoomsCommand(t *testing.T) {
	p := writeDataset(t)
	out, err := run(t, "", "rooms", "--dataset", p, "--status", "completed", "--sort", "game")
	if err != nil {
		t.Fatalf("rooms failed: %v", err)
	}
	var res struct {
		Summary string   `json:"summary"`
		Pills   []string `json:"pills"`
		Rooms   []struct {
			Id    int    `json:"id"`
			Title string `json:"title"`
		} `json:"rooms"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Invalid json %v\n%s", err, out)
	}
	if res.Summary != "Showing 2 of 3 rooms" {
		t.Errorf("Unexpected summary %q", res.Summary)
	}
	if diff := cmp.Diff([]string{"Status: completed"}, res.Pills); diff != "" {
		t.Errorf("Pills mismatch (-want +got):\n%s", diff)
	}
	if len(res.Rooms) != 2 || res.Rooms[0].Title != "#2 Crypt" || res.Rooms[1].Title != "#1 Lab" {
		t.Errorf("Unexpected rooms %+v", res.Rooms)
	}
}

func TestRoomsRejectsInvalidStatus(t *testing.T) {
	p := writeDataset(t)
	if _, err := run(t, "", "rooms", "--dataset", p, "--status", "maybe"); err == nil {
		t.Errorf("Expected an error for an unknown status")
	}
}

func TestFacetsYaml(t *testing.T) {
	p := writeDataset(t)
	out, err := run(t, "", "facets", "--dataset", p, "-o", "yaml")
	if err != nil {
		t.Fatalf("facets failed: %v", err)
	}
	var res map[string][]string
	if err := yaml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Invalid yaml %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"Canada", "USA"}, res["countries"]); diff != "" {
		t.Errorf("Countries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2021", "2022", "2023"}, res["years"]); diff != "" {
		t.Errorf("Years mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownOutput(t *testing.T) {
	p := writeDataset(t)
	if _, err := run(t, "", "facets", "--dataset", p, "-o", "xml"); err == nil {
		t.Errorf("Expected an error for an unknown output format")
	}
}

func TestStatsCommand(t *testing.T) {
	p := writeDataset(t)
	out, err := run(t, "", "stats", "--dataset", p)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	var res struct {
		Summary struct {
			Total   int `json:"total"`
			WinRate int `json:"winRate"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.Summary.Total != 2 || res.Summary.WinRate != 50 {
		t.Errorf("Unexpected summary %+v", res.Summary)
	}
}

func TestMarkersCommand(t *testing.T) {
	p := writeDataset(t)
	out, err := run(t, "", "markers", "--dataset", p)
	if err != nil {
		t.Fatalf("markers failed: %v", err)
	}
	var res markersOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Markers) != 1 || res.Markers[0].Id != 1 || res.Bounds == nil {
		t.Errorf("Unexpected markers %+v", res)
	}
}

func TestTagsCommand(t *testing.T) {
	out, err := run(t, "", "tags", "terpeca-2021", "boston-2023", "--dataset", "unused.json")
	if err != nil {
		t.Fatalf("tags failed: %v", err)
	}
	if !strings.Contains(out, `"TERPECA 2021"`) || !strings.Contains(out, `"Boston 2023"`) {
		t.Errorf("Unexpected labels\n%s", out)
	}
}

func TestSearchPrintsLatestQuery(t *testing.T) {
	p := writeDataset(t)
	out, err := run(t, "l\nla\nlab\n", "search", "--dataset", p, "--delay", time.Hour.String())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	expected := "Showing 1 of 3 rooms\n  #1 Lab  ✓ Escaped  May 1, 2022\n"
	if out != expected {
		t.Errorf("Expected only the last query to run\nwant %q\ngot  %q", expected, out)
	}
}

func TestExportRoundTrip(t *testing.T) {
	p := writeDataset(t)
	dir := t.TempDir()
	out, err := run(t, "", "export", "--dataset", p, "--out", dir, "--status", "completed")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(out, "exported 2 rooms") {
		t.Errorf("Unexpected output %q", out)
	}
	for _, name := range []string{"rooms.json", "rooms.json.gz"} {
		ds, err := storage.NewDiskSource(dir, name).Fetch(context.Background())
		if err != nil {
			t.Fatalf("Could not read %s: %v", name, err)
		}
		if len(ds.Rooms) != 2 || ds.Rooms[0].Id != 1 || ds.Rooms[1].Id != 2 {
			t.Errorf("Unexpected rooms in %s %+v", name, ds.Rooms)
		}
	}
}

func TestMissingDataset(t *testing.T) {
	if _, err := run(t, "", "rooms", "--dataset", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("Expected an error for a missing dataset")
	}
}

func TestEventsNeedsBroker(t *testing.T) {
	t.Setenv("RABBIT_URL", "")
	_, err := run(t, "", "events")
	if err == nil || !strings.Contains(err.Error(), "no broker configured") {
		t.Errorf("Expected a missing broker error, got %v", err)
	}
}
