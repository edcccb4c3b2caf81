package partitioner

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg"
	"go.uber.org/multierr"
)

var (
	ErrInvalidParameters = errors.New("invalid partitioning parameters")
	ErrPartitionTask     = errors.New("partitioning task failed")
)

type Parameters struct {
	MinCellNodes          int
	MaxCellNodes          int
	SplitValue            float64 // fraction of an ordering used as source region and as sink region
	ConsideredProjections int
	MaxSubcellNumber      int
	SeparateDisconnected  bool
	MinSplittingIteration int // cell ids below this value are always split
	Threads               int
	CallsFactor           float64
}

func DefaultParameters() Parameters {
	return Parameters{
		MinCellNodes:          pkg.DEFAULT_MIN_CELL_NODES,
		MaxCellNodes:          pkg.DEFAULT_MAX_CELL_NODES,
		SplitValue:            pkg.DEFAULT_SPLIT_VALUE,
		ConsideredProjections: pkg.DEFAULT_CONSIDERED_PROJECTIONS,
		MaxSubcellNumber:      pkg.DEFAULT_MAX_SUBCELL_NUMBER,
		SeparateDisconnected:  pkg.DEFAULT_SEPARATE_DISCONNECTED,
		MinSplittingIteration: pkg.DEFAULT_MIN_SPLITTING_ITERATION,
		Threads:               runtime.NumCPU(),
		CallsFactor:           pkg.DEFAULT_CALLS_FACTOR,
	}
}

// Validate reports every invalid field at once.
func (p Parameters) Validate() error {
	var err error
	if p.MinCellNodes < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: min cell nodes must be positive, got %d", ErrInvalidParameters, p.MinCellNodes))
	}
	if p.MaxCellNodes < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: max cell nodes must be positive, got %d", ErrInvalidParameters, p.MaxCellNodes))
	}
	if p.MinCellNodes > p.MaxCellNodes {
		err = multierr.Append(err, fmt.Errorf("%w: min cell nodes %d greater than max cell nodes %d", ErrInvalidParameters,
			p.MinCellNodes, p.MaxCellNodes))
	}
	if !(p.SplitValue > 0 && p.SplitValue <= 0.5) {
		err = multierr.Append(err, fmt.Errorf("%w: split value must be in (0, 0.5], got %v", ErrInvalidParameters, p.SplitValue))
	}
	if p.ConsideredProjections < 1 || p.ConsideredProjections > NUMBER_OF_PROJECTIONS {
		err = multierr.Append(err, fmt.Errorf("%w: considered projections must be in [1, %d], got %d", ErrInvalidParameters,
			NUMBER_OF_PROJECTIONS, p.ConsideredProjections))
	}
	if p.MaxSubcellNumber < 1 || p.MaxSubcellNumber > MAX_SUBCELL_BITS {
		err = multierr.Append(err, fmt.Errorf("%w: max subcell number must be in [1, %d], got %d", ErrInvalidParameters,
			MAX_SUBCELL_BITS, p.MaxSubcellNumber))
	}
	if p.MinSplittingIteration < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: min splitting iteration must not be negative, got %d", ErrInvalidParameters,
			p.MinSplittingIteration))
	}
	if p.Threads < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: threads must be positive, got %d", ErrInvalidParameters, p.Threads))
	}
	if !(p.CallsFactor > 0) {
		err = multierr.Append(err, fmt.Errorf("%w: calls factor must be positive, got %v", ErrInvalidParameters, p.CallsFactor))
	}
	return err
}
