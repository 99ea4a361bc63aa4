package report

import (
	"fmt"
	"io"
	"time"

	json "github.com/json-iterator/go"
)

// Manifest records what a run did and which files it wrote.
type Manifest struct {
	RunID      string            `json:"run_id"`
	Version    string            `json:"version"`
	StartedAt  time.Time         `json:"started_at"`
	Seed       int64             `json:"seed"`
	Particles  int               `json:"particles"`
	Sweeps     int               `json:"sweeps"`
	Cancelled  bool              `json:"cancelled"`
	Cutoff     float64           `json:"cutoff"`
	Normalized bool              `json:"normalized"`
	Summary    ManifestSummary   `json:"summary"`
	Artifacts  map[string]string `json:"artifacts"`
}

type ManifestSummary struct {
	PosMean     float64 `json:"pos_mean"`
	PosStdDev   float64 `json:"pos_stddev"`
	NegMean     float64 `json:"neg_mean"`
	NegStdDev   float64 `json:"neg_stddev"`
	DeltaPhi    float64 `json:"delta_phi"`
	Capacitance float64 `json:"capacitance_pf,omitempty"`
	Inverted    bool    `json:"inverted,omitempty"`
}

func NewManifestSummary(s Summary) ManifestSummary {
	return ManifestSummary{
		PosMean:     s.Stats.PosMean,
		PosStdDev:   s.Stats.PosStdDev,
		NegMean:     s.Stats.NegMean,
		NegStdDev:   s.Stats.NegStdDev,
		DeltaPhi:    s.DeltaPhi,
		Capacitance: s.Capacitance,
		Inverted:    s.Inverted,
	}
}

// EncodeManifest writes m as indented JSON.
func EncodeManifest(w io.Writer, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode manifest: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
