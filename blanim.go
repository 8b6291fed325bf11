package main

import (
	"fmt"
	"os"

	"github.com/ShaiW/blanim/config"
	"github.com/ShaiW/blanim/domain/blockprocessor"
	"github.com/ShaiW/blanim/domain/model"
	"github.com/ShaiW/blanim/domain/simulator"
	"github.com/ShaiW/blanim/infrastructure/logger"
	"github.com/ShaiW/blanim/util/panics"
	"github.com/ShaiW/blanim/version"
)

// startApp runs one full simulate, insert, classify, index pass and logs a
// summary of the resulting DAG.
func startApp() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if cfg.ShowVersion {
		fmt.Printf("blanim version %s\n", version.Version())
		return nil
	}

	initLog(cfg)
	defer logger.Close()
	defer panics.HandlePanic(log, nil)

	log.Infof("Version %s", version.Version())
	log.Infof("Simulating %s of block creation at %f blocks/s, network delay %s, k=%d, seed %d",
		cfg.SimulationDuration, cfg.BlocksPerSecond, cfg.NetworkDelay, cfg.K, cfg.Seed)

	sim, err := simulator.New(simulator.Config{
		Duration:        cfg.SimulationDuration,
		BlocksPerSecond: cfg.BlocksPerSecond,
		NetworkDelay:    cfg.NetworkDelay,
		Seed:            cfg.Seed,
	})
	if err != nil {
		log.Errorf("Invalid simulation configuration: %+v", err)
		return err
	}

	processor := blockprocessor.New(cfg.KType())
	err = processor.ProcessSimulationEvents(sim.Run())
	if err != nil {
		log.Errorf("Simulation run failed: %+v", err)
		return err
	}

	logRunSummary(processor)
	return nil
}

func initLog(cfg *config.Config) {
	logFile, errLogFile := cfg.LogFiles()
	if logFile == "" {
		logger.InitLogStdout(cfg.Level())
		return
	}
	logger.InitLog(logFile, errLogFile, cfg.Level())
}

func logRunSummary(processor *blockprocessor.BlockProcessor) {
	blues, reds, unclassified := 0, 0, 0
	for _, id := range processor.BlockIDs() {
		switch processor.ColorOf(id) {
		case model.ColorBlue:
			blues++
		case model.ColorRed:
			reds++
		default:
			unclassified++
		}
	}
	log.Infof("Run complete: %d blocks (%d blue, %d red, %d not yet merged), %d tips",
		processor.BlockCount(), blues, reds, unclassified, len(processor.Tips()))
}
