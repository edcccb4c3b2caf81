package partitioner

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"
	"github.com/lintang-b-s/fast-isochrone-partitioner/pkg/geo"
	"go.uber.org/multierr"
	"golang.org/x/exp/rand"
)

var ErrInvalidCellsFile = errors.New("invalid cells file")

const maxPreallocatedCells = 1 << 20

// WriteCellsFile stores the node to cell assignment as bzip2 compressed text: the cell count,
// the number of nodes and then one cell id per node.
func WriteCellsFile(filename string, result *PartitionResult) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(bz))

	w := bufio.NewWriter(bz)
	if _, err := fmt.Fprintf(w, "%d\n%d\n", result.CellCount, len(result.NodeToCell)); err != nil {
		return err
	}
	for _, id := range result.NodeToCell {
		if _, err := w.WriteString(strconv.FormatUint(uint64(id), 10) + "\n"); err != nil {
			return err
		}
	}

	return w.Flush()
}

func ReadCellsFile(filename string) (*PartitionResult, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	scanner := bufio.NewScanner(bz)
	readInt := func(what string) (int, error) {
		if !scanner.Scan() {
			return 0, fmt.Errorf("%w: missing %s", ErrInvalidCellsFile, what)
		}
		v, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidCellsFile, what, err)
		}
		return v, nil
	}

	cellCount, err := readInt("cell count")
	if err != nil {
		return nil, err
	}
	n, err := readInt("node count")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative node count %d", ErrInvalidCellsFile, n)
	}

	// the header is not trusted for the allocation, ids are appended while reading
	result := &PartitionResult{
		NodeToCell: make([]CellID, 0, min(n, maxPreallocatedCells)),
		CellCount:  cellCount,
	}
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: expected %d cell ids, got %d", ErrInvalidCellsFile, n, i)
		}
		id, err := strconv.ParseUint(strings.TrimSpace(scanner.Text()), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidCellsFile, i+3, err)
		}
		result.NodeToCell = append(result.NodeToCell, CellID(id))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type cellSummary struct {
	CellID   uint64 `json:"cellId"`
	Depth    int    `json:"depth"`
	Nodes    int    `json:"nodes"`
	Polyline string `json:"polyline"`
}

// WriteCellSummary dumps every cell with a random sample of its node coordinates as an encoded
// polyline, for visual inspection of the partitioning.
func WriteCellSummary(filename string, graph *datastructure.Graph, result *PartitionResult, sampleRatio float64) error {
	rnd := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

	cells := result.Cells()
	summaries := make([]cellSummary, 0, len(cells))
	for _, id := range result.CellIDs() {
		nodes := append([]datastructure.Index(nil), cells[id]...)
		rnd.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

		sampleSize := int(math.Ceil(float64(len(nodes)) * sampleRatio))
		if sampleSize > len(nodes) {
			sampleSize = len(nodes)
		} else if sampleSize < 0 {
			sampleSize = 0
		}
		sample := make([]datastructure.Coordinate, 0, sampleSize)
		for _, u := range nodes[:sampleSize] {
			lat, lon := graph.GetVertexCoordinates(u)
			sample = append(sample, datastructure.NewCoordinate(lat, lon))
		}

		summaries = append(summaries, cellSummary{
			CellID:   uint64(id),
			Depth:    id.Depth(),
			Nodes:    len(nodes),
			Polyline: geo.PolylineFromCoords(sample),
		})
	}

	buf, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, buf, 0644)
}
