// Package runstore persists a simulation run's parameters and resulting
// reputation maps to disk, byte-compatible with the file layout the
// original implementation's evaluating_rep/stats.rs reader expects:
// sim_parameters.txt, start_reliability.txt, and one output_<i>/
// reputation_maps.txt per sweep step.
package runstore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/execution-hub/witnessrep/internal/domain/reputation"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
	"github.com/execution-hub/witnessrep/internal/domain/simulation"
)

// WriteRunArtifacts writes dir/sim_parameters.txt and dir/start_reliability.txt
// for cfg, then one dir/output_<i>/reputation_maps.txt per entry in steps,
// in the same order original stats.rs's read_reliabilities expects them.
func WriteRunArtifacts(dir string, cfg simulation.Config, steps []*reputation.Map) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return simerr.New(simerr.KindConfig, "runstore.WriteRunArtifacts", err)
	}

	if err := writeSimParameters(filepath.Join(dir, "sim_parameters.txt"), cfg); err != nil {
		return err
	}
	if err := writeFloatVector(filepath.Join(dir, "start_reliability.txt"), cfg.Reliability); err != nil {
		return err
	}

	for i, m := range steps {
		stepDir := filepath.Join(dir, fmt.Sprintf("output_%d", i))
		if err := os.MkdirAll(stepDir, 0o755); err != nil {
			return simerr.New(simerr.KindConfig, "runstore.WriteRunArtifacts", err)
		}
		if err := writeReputationMap(filepath.Join(stepDir, "reputation_maps.txt"), m); err != nil {
			return err
		}
	}
	return nil
}

func writeSimParameters(path string, cfg simulation.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return simerr.New(simerr.KindConfig, "runstore.writeSimParameters", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "num_participants=%d\n", cfg.NumParticipants)
	fmt.Fprintf(w, "runs=%d\n", cfg.Runs)
	fmt.Fprintf(w, "average_proximity=%f\n", cfg.AverageProximity)
	fmt.Fprintf(w, "witness_floor=%d\n", cfg.WitnessFloor)
	fmt.Fprintf(w, "average_passes_floor=%f\n", cfg.AveragePassesFloor)
	fmt.Fprintf(w, "seed=%d\n", cfg.Seed)
	return flushOrWrap(w, "runstore.writeSimParameters")
}

func writeFloatVector(path string, vec []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return simerr.New(simerr.KindConfig, "runstore.writeFloatVector", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range vec {
		fmt.Fprintf(w, "%f\n", v)
	}
	return flushOrWrap(w, "runstore.writeFloatVector")
}

func writeReputationMap(path string, m *reputation.Map) error {
	f, err := os.Create(path)
	if err != nil {
		return simerr.New(simerr.KindConfig, "runstore.writeReputationMap", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for key, entry := range m.Entries() {
		fmt.Fprintf(w, "%s\t%f\t%d\n", key, entry.Sum, entry.Count)
	}
	return flushOrWrap(w, "runstore.writeReputationMap")
}

func flushOrWrap(w *bufio.Writer, op string) error {
	if err := w.Flush(); err != nil {
		return simerr.New(simerr.KindConfig, op, err)
	}
	return nil
}

// ReadReliabilities parses a start_reliability.txt-formatted file (one
// float per line) back into a vector, as original stats.rs's
// read_reliabilities does.
func ReadReliabilities(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.New(simerr.KindConfig, "runstore.ReadReliabilities", err)
	}
	defer f.Close()

	var out []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, simerr.New(simerr.KindConfig, "runstore.ReadReliabilities", fmt.Errorf("parsing %q: %w", line, err))
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, simerr.New(simerr.KindConfig, "runstore.ReadReliabilities", err)
	}
	return out, nil
}
