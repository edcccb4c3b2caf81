package pkg

const (
	// root cell id. starts at 1 so that bitshifting it causes no zeros at the front
	ROOT_CELL_ID = 1
)

const (
	DEFAULT_MIN_CELL_NODES          = 4
	DEFAULT_MAX_CELL_NODES          = 5000
	DEFAULT_SPLIT_VALUE             = 0.25
	DEFAULT_CONSIDERED_PROJECTIONS  = 3
	DEFAULT_SEPARATE_DISCONNECTED   = true
	DEFAULT_MIN_SPLITTING_ITERATION = 0
	DEFAULT_CALLS_FACTOR            = 1.0

	// most cells are disconnected into 1 - 5 independent cells. faulty data can produce
	// many disconnected nodes, we dont want a separate cell for all of them
	DEFAULT_MAX_SUBCELL_NUMBER = 10
)

const (
	MIN_CUT_SCORE = 5
	MIN_MAX_CALLS = 1000

	// partitions bigger than MaxCellNodes * PARALLEL_SUBMIT_FACTOR are handed to the worker pool,
	// smaller ones are recursed in the current goroutine
	PARALLEL_SUBMIT_FACTOR = 4
)
