package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/dpend/internal/sim"
)

type ExportFrame struct {
	Tick   int   `json:"tick"`
	Time   Float `json:"time"`
	Theta1 Float `json:"theta1"`
	Omega1 Float `json:"omega1"`
	Theta2 Float `json:"theta2"`
	Omega2 Float `json:"omega2"`
	Energy Float `json:"energy"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Steps  int           `json:"steps"`
	Frames []ExportFrame `json:"frames"`
}

func NewExportData(meta RunMetadata, frames []sim.Frame) ExportData {
	data := ExportData{
		Run:    meta,
		Steps:  len(frames),
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = ExportFrame{
			Tick:   f.Tick,
			Time:   Float(f.Time),
			Theta1: Float(f.Arm1.Angle),
			Omega1: Float(f.Arm1.AngularSpeed),
			Theta2: Float(f.Arm2.Angle),
			Omega2: Float(f.Arm2.AngularSpeed),
			Energy: Float(f.Energy),
		}
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, frames))
}
