package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dpend/internal/config"
	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

var csvHeader = []string{"tick", "time", "theta1", "omega1", "theta2", "omega2", "energy"}

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
	ID         string               `json:"id"`
	Preset     string               `json:"preset,omitempty"`
	Timestamp  time.Time            `json:"timestamp"`
	Params     dynamo.Params        `json:"params"`
	Initial    config.InitialConfig `json:"initial"`
	StepSize   float64              `json:"step_size"`
	Ticks      int                  `json:"ticks"`
	Sample     int                  `json:"sample_every"`
	DivergedAt int                  `json:"diverged_at"`
	Metrics    map[string]Float     `json:"metrics"`
}

// RunInfo describes how a result was produced.
type RunInfo struct {
	Preset string
	Config *config.Config
}

// Save writes metadata.json and states.csv into a fresh run directory and
// returns the run id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     info.Preset,
		Timestamp:  now,
		Params:     info.Config.Params,
		Initial:    info.Config.Initial,
		StepSize:   info.Config.StepSize,
		Ticks:      result.TicksTaken,
		Sample:     info.Config.SampleEvery,
		DivergedAt: result.DivergedAt,
		Metrics:    floatMap(result.Metrics),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Frames); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}
	return runID, nil
}

func (s *Store) newRunDir(now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := "run_" + now.Format("20060102_150405")
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

// List returns the saved runs, oldest first. Directories without readable
// metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// WriteCSV writes frames with a header row. Non-finite values are written as
// NaN, +Inf or -Inf.
func WriteCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Tick),
			formatFloat(f.Time),
			formatFloat(f.Arm1.Angle),
			formatFloat(f.Arm1.AngularSpeed),
			formatFloat(f.Arm2.Angle),
			formatFloat(f.Arm2.AngularSpeed),
			formatFloat(f.Energy),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]sim.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		tick, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		vals := make([]float64, len(record)-1)
		for j, field := range record[1:] {
			vals[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, %s: %w", i+1, csvHeader[j+1], err)
			}
		}
		frames = append(frames, sim.Frame{
			Tick:   tick,
			Time:   vals[0],
			Arm1:   dynamo.ArmState{Angle: vals[1], AngularSpeed: vals[2]},
			Arm2:   dynamo.ArmState{Angle: vals[3], AngularSpeed: vals[4]},
			Energy: vals[5],
		})
	}
	return frames, nil
}
