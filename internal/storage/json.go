package storage

import (
	"encoding/json"
	"io"
	"time"

	"github.com/san-kum/dartsim/internal/config"
	"github.com/san-kum/dartsim/internal/dynamo"
)

type ExportData struct {
	Scenario   string             `json:"scenario"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Aero       string             `json:"aero"`
	Epoch      time.Time          `json:"epoch"`
	Horizon    float64            `json:"horizon"`
	Increment  float64            `json:"increment"`
	Segments   int                `json:"segments"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(cfg *config.Config, result *dynamo.Result) ExportData {
	data := ExportData{
		Scenario:   cfg.Scenario,
		Integrator: cfg.Integrator,
		Controller: cfg.Control,
		Aero:       cfg.Aero,
		Epoch:      cfg.Epoch,
		Horizon:    cfg.Horizon,
		Increment:  cfg.Increment,
		Segments:   result.Segments,
		Steps:      result.StepsTaken,
		Times:      result.Times(),
		States:     make([][]float64, len(result.States())),
		Metrics:    result.Metrics,
	}
	for i, s := range result.States() {
		data.States[i] = s
	}
	return data
}

// ExportJSON writes the run as one indented JSON document.
func ExportJSON(w io.Writer, cfg *config.Config, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cfg, result))
}
