package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stepsim/stepsim/engine"
	"github.com/stepsim/stepsim/examples/battery"
	"github.com/stepsim/stepsim/examples/calendar"
)

// ScenarioConfig is the top-level shape of a scenario YAML file. All
// sections must be listed here to satisfy KnownFields(true) strict
// parsing: an unrecognised key is a typo, not a silently-ignored
// extension point.
type ScenarioConfig struct {
	Engine  EngineConfig   `yaml:"engine"`
	Battery *BatteryConfig `yaml:"battery"`
	Calendar *CalendarConfig `yaml:"calendar"`
}

// EngineConfig mirrors the engine.Option surface so a scenario file can
// configure the kernel; the CLI has no per-option flags.
type EngineConfig struct {
	RNGSeed            int64  `yaml:"rng_seed"`
	MaxQueueSize        int    `yaml:"max_queue_size"`
	BatchTimeoutMs       int64  `yaml:"batch_timeout_ms"`
	RecordResults        *bool  `yaml:"record_results"`
	RecordEventHistory   *bool  `yaml:"record_event_history"`
	UseNoAckCache        bool   `yaml:"use_no_ack_cache"`
	TrackCausingEvents   bool   `yaml:"track_causing_events"`
	Until                *int64 `yaml:"until"`
}

// BatteryConfig parameterises the battery-charging-station example.
type BatteryConfig struct {
	Capacity         int     `yaml:"capacity"`
	ChargingDuration int64   `yaml:"charging_duration"`
	ArrivalInterval  int64   `yaml:"arrival_interval"`
	NumCars          int     `yaml:"num_cars"`
}

// CalendarConfig parameterises the calendar scheduling example.
type CalendarConfig struct {
	StartYear      int `yaml:"start_year"`
	LookAheadYears int `yaml:"look_ahead_years"`
}

// loadScenario reads and strictly decodes a scenario YAML file.
func loadScenario(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var cfg ScenarioConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	return &cfg, nil
}

// buildEngine applies cfg's engine section as engine.Options over the
// kernel's defaults.
func buildEngine(cfg EngineConfig) *engine.Engine {
	opts := []engine.Option{
		engine.WithRNGSeed(cfg.RNGSeed),
		engine.WithMaxQueueSize(cfg.MaxQueueSize),
		engine.WithNoAckCache(cfg.UseNoAckCache),
		engine.WithCausalTracking(cfg.TrackCausingEvents),
	}
	if cfg.BatchTimeoutMs > 0 {
		opts = append(opts, engine.WithBatchTimeout(time.Duration(cfg.BatchTimeoutMs)*time.Millisecond))
	}
	if cfg.RecordResults != nil {
		opts = append(opts, engine.WithRecordResults(*cfg.RecordResults))
	}
	if cfg.RecordEventHistory != nil {
		opts = append(opts, engine.WithRecordEventHistory(*cfg.RecordEventHistory))
	}
	return engine.NewEngine(opts...)
}

// registerScenarioProcesses wires the example processes named in cfg into
// eng: the battery section's processes first, then the calendar
// section's, whatever order the scenario file lists them in.
func registerScenarioProcesses(eng *engine.Engine, cfg *ScenarioConfig) error {
	if cfg.Battery != nil {
		b := cfg.Battery
		var arrivals []engine.Event
		for i := 0; i < b.NumCars; i++ {
			arrivals = append(arrivals, battery.CarArrives{
				BaseEvent: engine.BaseEvent{T: int64(i) * b.ArrivalInterval},
				CarID:     i,
			})
		}
		adder := engine.NewPredefinedEventAdder("battery-arrivals", arrivals)
		if err := eng.RegisterProcess(adder); err != nil {
			return err
		}
		station := battery.NewChargingStation(b.Capacity, b.ChargingDuration)
		if err := eng.RegisterProcess(station); err != nil {
			return err
		}
	}

	if cfg.Calendar != nil {
		c := cfg.Calendar
		years := calendar.NewYearStartScheduler(c.StartYear, c.LookAheadYears)
		if err := eng.RegisterProcess(years); err != nil {
			return err
		}
		quarters := calendar.NewQuarterStartScheduler()
		if err := eng.RegisterProcess(quarters); err != nil {
			return err
		}
	}

	return nil
}
