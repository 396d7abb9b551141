package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/multierr"

	"github.com/san-kum/tankbot/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{
	"t_s",
	"true_x", "true_y", "true_heading",
	"tracked_x", "tracked_y", "tracked_heading",
	"cmd_l", "cmd_r",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Routine      string             `json:"routine"`
	Preset       string             `json:"preset"`
	Timestamp    time.Time          `json:"timestamp"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Integrator   string             `json:"integrator"`
	Samples      int                `json:"samples"`
	FinalTrue    sim.Pose           `json:"final_true"`
	FinalTracked sim.Pose           `json:"final_tracked"`
	Metrics      map[string]float64 `json:"metrics"`
	Error        string             `json:"error,omitempty"`
}

// Save writes meta and the sample trace under a new run directory and
// returns its ID. meta.ID and meta.Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, samples []sim.Sample) (id string, err error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Routine, meta.Timestamp.UnixNano())
	}
	meta.Samples = len(samples)
	if n := len(samples); n > 0 {
		meta.FinalTrue = samples[n-1].True
		meta.FinalTracked = samples[n-1].Tracked
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	if err := WriteTraceCSV(f, samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v interface{}) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteTraceCSV writes samples with a header row.
func WriteTraceCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, s := range samples {
		row := []string{
			f(s.T.Seconds()),
			f(s.True.X), f(s.True.Y), f(s.True.Heading),
			f(s.Tracked.X), f(s.Tracked.Y), f(s.Tracked.Heading),
			f(s.CmdL), f(s.CmdR),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadTraceCSV(file)
}

// ReadTraceCSV parses a trace written by WriteTraceCSV.
func ReadTraceCSV(r io.Reader) ([]sim.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(traceHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: trace row %d column %s: %w", i+1, traceHeader[j], err)
			}
			vals[j] = v
		}

		samples = append(samples, sim.Sample{
			T:       time.Duration(math.Round(vals[0] * float64(time.Second))),
			True:    sim.Pose{X: vals[1], Y: vals[2], Heading: vals[3]},
			Tracked: sim.Pose{X: vals[4], Y: vals[5], Heading: vals[6]},
			CmdL:    vals[7],
			CmdR:    vals[8],
		})
	}
	return samples, nil
}

type exportedSample struct {
	T       float64  `json:"t"`
	True    sim.Pose `json:"true"`
	Tracked sim.Pose `json:"tracked"`
	CmdL    float64  `json:"cmd_l"`
	CmdR    float64  `json:"cmd_r"`
}

// ExportJSON writes a run's metadata and trace as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	trace := make([]exportedSample, len(samples))
	for i, smp := range samples {
		trace[i] = exportedSample{
			T:       smp.T.Seconds(),
			True:    smp.True,
			Tracked: smp.Tracked,
			CmdL:    smp.CmdL,
			CmdR:    smp.CmdR,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Metadata *RunMetadata     `json:"metadata"`
		Trace    []exportedSample `json:"trace"`
	}{meta, trace})
}

// ExportCSV copies a run's trace to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	samples, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}
	return WriteTraceCSV(w, samples)
}
