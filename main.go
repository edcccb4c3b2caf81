package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/config"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/logger"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/osmparser"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/partitioner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	graphFile    string
	osmFile      string
	configFile   string
	outputFile   string
	graphOutFile string
	summaryFile  string
	sampleRatio  float64
	threads      int
	maxCellNodes int

	rootCmd = &cobra.Command{
		Use:   "fast-isochrone-partitioner",
		Short: "Recursive inertial flow partitioning of openstreetmap road graphs",
	}

	partitionCmd = &cobra.Command{
		Use:   "partition",
		Short: "Partition a road graph into nested cells and write the node to cell assignment",
		RunE:  runPartition,
	}

	buildGraphCmd = &cobra.Command{
		Use:   "build-graph",
		Short: "Build the road graph of an osm pbf file and store it as a bzip2 graph file",
		RunE:  runBuildGraph,
	}
)

func init() {
	partitionCmd.Flags().StringVar(&graphFile, "graph", "", "bzip2 graph file written by build-graph")
	partitionCmd.Flags().StringVar(&osmFile, "osm", "", "osm pbf file, used when --graph is empty")
	partitionCmd.Flags().StringVarP(&configFile, "config", "c", "", "yaml config file")
	partitionCmd.Flags().StringVarP(&outputFile, "out", "o", "cells.bz2", "output cells file")
	partitionCmd.Flags().StringVar(&summaryFile, "summary", "", "optional json cell summary")
	partitionCmd.Flags().Float64Var(&sampleRatio, "sample-ratio", 0.1, "fraction of cell nodes drawn into the summary polylines")
	partitionCmd.Flags().IntVar(&threads, "threads", 0, "worker threads, overrides the config file")
	partitionCmd.Flags().IntVar(&maxCellNodes, "max-cell-nodes", 0, "maximum cell size, overrides the config file")

	buildGraphCmd.Flags().StringVar(&osmFile, "osm", "", "osm pbf file")
	buildGraphCmd.Flags().StringVarP(&graphOutFile, "out", "o", "graph.bz2", "output graph file")
	_ = buildGraphCmd.MarkFlagRequired("osm")

	rootCmd.AddCommand(partitionCmd, buildGraphCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("threads") {
		cfg.Partitioning.Threads = threads
	}
	if cmd.Flags().Changed("max-cell-nodes") {
		cfg.Partitioning.MaxCellNodes = maxCellNodes
	}
	return cfg, cfg.Validate()
}

func loadGraph(ctx context.Context, log *zap.Logger) (*datastructure.Graph, error) {
	switch {
	case graphFile != "":
		log.Sugar().Infof("reading graph %s...", graphFile)
		return datastructure.ReadGraph(graphFile)
	case osmFile != "":
		log.Sugar().Infof("parsing openstreetmap file %s...", osmFile)
		return osmparser.NewOsmParser(log).Parse(ctx, osmFile)
	default:
		return nil, errors.New("either --graph or --osm is required")
	}
}

func runPartition(cmd *cobra.Command, args []string) error {
	log, err := logger.New()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	edgeFilter, err := cfg.EdgeFilter()
	if err != nil {
		return err
	}

	graph, err := loadGraph(cmd.Context(), log)
	if err != nil {
		return err
	}

	result, err := partitioner.NewPreparePartition(graph, edgeFilter, cfg.PartitionParameters(), log).
		Partition(cmd.Context())
	if err != nil {
		return err
	}

	if err := partitioner.WriteCellsFile(outputFile, result); err != nil {
		return fmt.Errorf("write cells file: %w", err)
	}
	log.Info("cells written", zap.String("file", outputFile), zap.Int("cells", result.CellCount))

	if summaryFile != "" {
		if err := partitioner.WriteCellSummary(summaryFile, graph, result, sampleRatio); err != nil {
			return fmt.Errorf("write cell summary: %w", err)
		}
		log.Info("cell summary written", zap.String("file", summaryFile))
	}
	return nil
}

func runBuildGraph(cmd *cobra.Command, args []string) error {
	log, err := logger.New()
	if err != nil {
		return err
	}
	defer log.Sync()

	graph, err := osmparser.NewOsmParser(log).Parse(cmd.Context(), osmFile)
	if err != nil {
		return err
	}
	if err := graph.WriteGraph(graphOutFile); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	log.Info("graph written", zap.String("file", graphOutFile),
		zap.Int("vertices", graph.NumberOfVertices()), zap.Int("edges", graph.NumberOfEdges()))
	return nil
}
