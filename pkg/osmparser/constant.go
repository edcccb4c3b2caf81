package osmparser

import "github.com/lintang-b-s/fast-isochrone-partitioner/pkg/datastructure"

type NodeType int

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]datastructure.RoadClass{
		"motorway":         datastructure.ROAD_CLASS_MOTORWAY,
		"motorway_link":    datastructure.ROAD_CLASS_MOTORWAY,
		"motorroad":        datastructure.ROAD_CLASS_MOTORWAY,
		"trunk":            datastructure.ROAD_CLASS_TRUNK,
		"trunk_link":       datastructure.ROAD_CLASS_TRUNK,
		"primary":          datastructure.ROAD_CLASS_PRIMARY,
		"primary_link":     datastructure.ROAD_CLASS_PRIMARY,
		"secondary":        datastructure.ROAD_CLASS_SECONDARY,
		"secondary_link":   datastructure.ROAD_CLASS_SECONDARY,
		"tertiary":         datastructure.ROAD_CLASS_TERTIARY,
		"tertiary_link":    datastructure.ROAD_CLASS_TERTIARY,
		"residential":      datastructure.ROAD_CLASS_RESIDENTIAL,
		"residential_link": datastructure.ROAD_CLASS_RESIDENTIAL,
		"living_street":    datastructure.ROAD_CLASS_RESIDENTIAL,
		"unclassified":     datastructure.ROAD_CLASS_RESIDENTIAL,
		"service":          datastructure.ROAD_CLASS_SERVICE,
		"private":          datastructure.ROAD_CLASS_SERVICE,
		"track":            datastructure.ROAD_CLASS_TRACK,
		"road":             datastructure.ROAD_CLASS_OTHER,
		"undefined":        datastructure.ROAD_CLASS_OTHER,
		"unknown":          datastructure.ROAD_CLASS_OTHER,
	}

	//https://wiki.openstreetmap.org/wiki/Key:barrier
	// a barrier node with access=no splits the street segment into 2 disconnected graph edges
	acceptedBarrierType = map[string]struct{}{
		"bollard":        struct{}{},
		"swing_gate":     struct{}{},
		"jersey_barrier": struct{}{},
		"lift_gate":      struct{}{},
		"block":          struct{}{},
		"gate":           struct{}{},
	}
)
