package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/tankbot/internal/sim"
)

func trace() []sim.Sample {
	return []sim.Sample{
		{T: 0, CmdL: 0, CmdR: 0},
		{T: 20 * time.Millisecond, True: sim.Pose{Y: 0.5}, Tracked: sim.Pose{Y: 0.49}, CmdL: 50, CmdR: 50},
		{T: 40 * time.Millisecond, True: sim.Pose{X: 0.1, Y: 1.2, Heading: 3}, Tracked: sim.Pose{X: 0.1, Y: 1.19, Heading: 3}, CmdL: 55, CmdR: 45},
	}
}

func TestSaveLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	id, err := s.Save(RunMetadata{Routine: "square", Preset: "default", Dt: 0.005, Metrics: map[string]float64{"path_length": 1.2}}, trace())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != id || meta.Routine != "square" || meta.Samples != 3 {
		t.Errorf("meta = %+v", meta)
	}
	if meta.FinalTrue.Y != 1.2 || meta.FinalTracked.Heading != 3 {
		t.Errorf("final poses = %+v / %+v", meta.FinalTrue, meta.FinalTracked)
	}
	if meta.Metrics["path_length"] != 1.2 {
		t.Errorf("metrics = %v", meta.Metrics)
	}

	got, err := s.LoadTrace(id)
	if err != nil {
		t.Fatalf("LoadTrace: %v", err)
	}
	want := trace()
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].T != want[i].T {
			t.Errorf("sample %d T = %v, want %v", i, got[i].T, want[i].T)
		}
		if math.Abs(got[i].Tracked.Y-want[i].Tracked.Y) > 1e-6 || got[i].CmdL != want[i].CmdL {
			t.Errorf("sample %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	s := New(t.TempDir())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"a", "b", "c"} {
		meta := RunMetadata{ID: name, Routine: name, Timestamp: base.Add(time.Duration(i) * time.Hour)}
		if _, err := s.Save(meta, nil); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || runs[0].ID != "c" || runs[2].ID != "a" {
		t.Errorf("List order = %+v", runs)
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(t.TempDir() + "/nope").List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List = %v, %v", runs, err)
	}
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("ghost"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load err = %v", err)
	}
	if _, err := s.LoadTrace("ghost"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadTrace err = %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save(RunMetadata{Routine: "out_and_back"}, trace())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ExportJSON(&buf, id); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Metadata RunMetadata `json:"metadata"`
		Trace    []struct {
			T    float64 `json:"t"`
			CmdR float64 `json:"cmd_r"`
		} `json:"trace"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Metadata.ID != id || len(doc.Trace) != 3 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Trace[2].T != 0.04 || doc.Trace[2].CmdR != 45 {
		t.Errorf("last sample = %+v", doc.Trace[2])
	}
}

func TestReadTraceCSVRejectsGarbage(t *testing.T) {
	in := "t_s,true_x,true_y,true_heading,tracked_x,tracked_y,tracked_heading,cmd_l,cmd_r\n0,0,0,0,0,0,0,x,0\n"
	if _, err := ReadTraceCSV(bytes.NewBufferString(in)); err == nil {
		t.Error("expected parse error")
	}
}
