package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	graphOut     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario to completion and report its result ledger",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}

		eng := buildEngine(cfg.Engine)
		if err := registerScenarioProcesses(eng, cfg); err != nil {
			logrus.Fatalf("registering processes: %v", err)
		}

		logrus.Infof("starting run from %s", scenarioPath)
		if err := eng.Run(context.Background(), cfg.Engine.Until); err != nil {
			logrus.Fatalf("run failed: %v", err)
		}
		logrus.Infof("run complete at t=%d, %d batches recorded", eng.T(), len(eng.History.Batches()))

		if graphOut != "" {
			if err := writeMermaidFile(eng, graphOut); err != nil {
				logrus.Fatalf("writing graph: %v", err)
			}
			logrus.Infof("wrote mermaid graph to %s", graphOut)
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file")
	runCmd.Flags().StringVar(&graphOut, "graph", "", "Optional path to write a Mermaid graph of the resulting ledger")
	_ = runCmd.MarkFlagRequired("scenario")
}
