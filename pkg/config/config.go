package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/partitioner"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var ErrUnknownRoadClass = errors.New("unknown road class")

type PartitioningConfig struct {
	MinCellNodes          int     `yaml:"min-cell-nodes"`
	MaxCellNodes          int     `yaml:"max-cell-nodes"`
	SplitValue            float64 `yaml:"split-value"`
	ConsideredProjections int     `yaml:"considered-projections"`
	MaxSubcellNumber      int     `yaml:"max-subcell-number"`
	SeparateDisconnected  bool    `yaml:"separate-disconnected"`
	MinSplittingIteration int     `yaml:"min-splitting-iteration"`
	Threads               int     `yaml:"threads"`
	CallsFactor           float64 `yaml:"calls-factor"`
}

// Config is the yaml configuration of the partition command. missing keys keep their defaults.
type Config struct {
	Partitioning     PartitioningConfig `yaml:"partitioning"`
	AvoidRoadClasses []string           `yaml:"avoid-road-classes"`
}

func Default() Config {
	p := partitioner.DefaultParameters()
	return Config{
		Partitioning: PartitioningConfig{
			MinCellNodes:          p.MinCellNodes,
			MaxCellNodes:          p.MaxCellNodes,
			SplitValue:            p.SplitValue,
			ConsideredProjections: p.ConsideredProjections,
			MaxSubcellNumber:      p.MaxSubcellNumber,
			SeparateDisconnected:  p.SeparateDisconnected,
			MinSplittingIteration: p.MinSplittingIteration,
			Threads:               p.Threads,
			CallsFactor:           p.CallsFactor,
		},
		AvoidRoadClasses: []string{},
	}
}

// Load reads a yaml file on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) PartitionParameters() partitioner.Parameters {
	return partitioner.Parameters{
		MinCellNodes:          c.Partitioning.MinCellNodes,
		MaxCellNodes:          c.Partitioning.MaxCellNodes,
		SplitValue:            c.Partitioning.SplitValue,
		ConsideredProjections: c.Partitioning.ConsideredProjections,
		MaxSubcellNumber:      c.Partitioning.MaxSubcellNumber,
		SeparateDisconnected:  c.Partitioning.SeparateDisconnected,
		MinSplittingIteration: c.Partitioning.MinSplittingIteration,
		Threads:               c.Partitioning.Threads,
		CallsFactor:           c.Partitioning.CallsFactor,
	}
}

func (c Config) roadClasses() ([]datastructure.RoadClass, error) {
	var err error
	classes := make([]datastructure.RoadClass, 0, len(c.AvoidRoadClasses))
	for _, name := range c.AvoidRoadClasses {
		rc, ok := datastructure.ParseRoadClass(name)
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: %q", ErrUnknownRoadClass, name))
			continue
		}
		classes = append(classes, rc)
	}
	return classes, err
}

func (c Config) Validate() error {
	_, err := c.roadClasses()
	return multierr.Append(c.PartitionParameters().Validate(), err)
}

// EdgeFilter accepts accessible edges whose road class is not avoided.
func (c Config) EdgeFilter() (datastructure.EdgeFilter, error) {
	classes, err := c.roadClasses()
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return datastructure.AccessFilter, nil
	}
	return datastructure.EdgeFilterSequence(datastructure.AccessFilter,
		datastructure.AvoidRoadClasses(classes...)), nil
}
