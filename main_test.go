package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/focops/experiment/trackers"
	"github.com/samuelfneumann/focops/initwfn"
)

const testConfig = `
seed: 3
iterations: 2
checkpoint_interval: 2
window: 10

collector:
  batch_size: 64
  max_episode_length: 40
  delay_steps: 1
  gamma: 0.99
  lambda: 0.95
  cost_gamma: 0.99
  cost_lambda: 0.95

environment:
  task: balance
  episode_steps: 25
  start_bound: 0.05
  angle_limit: 0.5

policy:
  hidden_sizes: [8]
  activations: [tanh]
  std: 0.3
  init:
    type: GlorotN
    config:
      gain: 1.0

value:
  hidden_sizes: [8]
  activations: [relu]
  init:
    type: HeU
    config:
      gain: 1.0

cost_value:
  hidden_sizes: []
  activations: []
  init:
    type: Zeroes
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filename, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoadConfig(t *testing.T) {
	config, err := loadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}

	if config.Collector.BatchSize != 64 || config.Collector.DelaySteps != 1 {
		t.Errorf("loadConfig: collector \n\twant(%v, %v)\n\thave(%v, %v)", 64,
			1, config.Collector.BatchSize, config.Collector.DelaySteps)
	}
	if config.Policy.Std != 0.3 || len(config.Policy.HiddenSizes) != 1 {
		t.Errorf("loadConfig: policy \n\thave(%+v)", config.Policy)
	}
	if act := config.Value.Activations[0].String(); act != "relu" {
		t.Errorf("loadConfig: value activation \n\twant(%v)\n\thave(%v)",
			"relu", act)
	}
	if config.CostValue.Init.Type != initwfn.Zeroes {
		t.Errorf("loadConfig: cost value init \n\twant(%v)\n\thave(%v)",
			initwfn.Zeroes, config.CostValue.Init.Type)
	}

	// Values missing from the file take their defaults
	if !config.Normalize {
		t.Error("loadConfig: normalize should default to true")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	for _, data := range []string{
		strings.Replace(testConfig, "iterations: 2", "iterations: 0", 1),
		strings.Replace(testConfig, "task: balance", "task: cartpole", 1),
		strings.Replace(testConfig, "activations: [tanh]", "activations: []", 1),
		strings.Replace(testConfig, "std: 0.3", "std: 0", 1),
		strings.Replace(testConfig, "type: Zeroes", "type: Xavier", 1),
	} {
		if _, err := loadConfig(writeConfig(t, data)); err == nil {
			t.Errorf("loadConfig: expected error for \n%v", data)
		}
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loadConfig: expected error for missing file")
	}
}

func TestRun(t *testing.T) {
	config, err := loadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	config.OutputDir = t.TempDir()

	var progress bytes.Buffer
	if err := run(config, zerolog.Nop(), &progress); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(progress.String(), "100.00%") {
		t.Errorf("run: progress bar not completed \n\thave(%q)",
			progress.String())
	}

	lengths, err := trackers.LoadData(config.output("avg_episode_length.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lengths) != 2 {
		t.Errorf("run: tracked iterations \n\twant(%v)\n\thave(%v)", 2,
			len(lengths))
	}
	for _, name := range []string{"score.bin", "cost_score.bin",
		"policy2.bin", "value2.bin", "cost_value2.bin"} {
		if _, err := os.Stat(config.output(name)); err != nil {
			t.Errorf("run: missing output %v: %v", name, err)
		}
	}
}
