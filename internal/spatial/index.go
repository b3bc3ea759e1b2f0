package spatial

import (
	"container/heap"
	"math"
	"sort"
	"strings"
)

// Entity is the spatial record tracked by the index: an entity id, its
// bounding box, the room/floor it was resolved into, and how confidently.
type Entity struct {
	ID         string
	Box        BoundingBox
	RoomKey    string
	FloorIndex int
	Confidence ConfidenceLevel
}

// Index combines the R-tree with the room_index and floor_index hash
// indices and an entity_cache, mirroring the lookup surface in 4.G.
type Index struct {
	tree        *RTree
	entityCache map[string]Entity
	roomIndex   map[string][]string
	floorIndex  map[int][]string
}

// NewIndex returns an empty spatial index.
func NewIndex() *Index {
	return &Index{
		tree:        NewRTree(),
		entityCache: make(map[string]Entity),
		roomIndex:   make(map[string][]string),
		floorIndex:  make(map[int][]string),
	}
}

// RoomKey derives the room_index key from a room name: "ROOM_" followed by
// the name with spaces replaced by underscores.
func RoomKey(roomName string) string {
	return "ROOM_" + strings.ReplaceAll(roomName, " ", "_")
}

// FloorIndexFromZ derives the floor_index bucket from a Z coordinate: z/10
// truncated toward zero.
func FloorIndexFromZ(z float64) int {
	return int(math.Trunc(z / 10.0))
}

// Insert adds or replaces an entity in the index.
func (idx *Index) Insert(e Entity) {
	idx.entityCache[e.ID] = e
	idx.tree.Insert(e.ID, e.Box)
	if e.RoomKey != "" {
		idx.roomIndex[e.RoomKey] = append(idx.roomIndex[e.RoomKey], e.ID)
	}
	idx.floorIndex[e.FloorIndex] = append(idx.floorIndex[e.FloorIndex], e.ID)
}

// Get returns the cached entity record for an id.
func (idx *Index) Get(id string) (Entity, bool) {
	e, ok := idx.entityCache[id]
	return e, ok
}

// Len returns the number of indexed entities.
func (idx *Index) Len() int { return idx.tree.Len() }

// FindWithinBBox returns entities whose bounding box intersects box.
func (idx *Index) FindWithinBBox(box BoundingBox) []Entity {
	ids := idx.tree.Query(box)
	return idx.resolve(ids)
}

// FindWithinRadius returns entities whose box center lies within radius of
// center, nearest first, via an R-tree bounding-box prefilter followed by
// an exact distance check and sort.
func (idx *Index) FindWithinRadius(center Point3D, radius float64) []Entity {
	probe := BoundingBox{
		Min: Point3D{center.X - radius, center.Y - radius, center.Z - radius},
		Max: Point3D{center.X + radius, center.Y + radius, center.Z + radius},
	}
	candidates := idx.resolve(idx.tree.Query(probe))
	out := make([]Entity, 0, len(candidates))
	for _, e := range candidates {
		if e.Box.Center().DistanceTo(center) <= radius {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Box.Center().DistanceTo(center), out[j].Box.Center().DistanceTo(center)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type neighbor struct {
	entity   Entity
	distance float64
}

type neighborHeap []neighbor

func (h neighborHeap) Len() int { return len(h) }
func (h neighborHeap) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	return h[i].entity.ID < h[j].entity.ID
}
func (h neighborHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(neighbor)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FindNearest returns the k entities closest to point, ordered nearest
// first, via a min-heap over every indexed entity's center distance.
func (idx *Index) FindNearest(point Point3D, k int) []Entity {
	if k <= 0 {
		return nil
	}
	h := make(neighborHeap, 0, idx.tree.Len())
	for _, e := range idx.tree.All() {
		ent := idx.entityCache[e.entityID]
		h = append(h, neighbor{entity: ent, distance: ent.Box.Center().DistanceTo(point)})
	}
	heap.Init(&h)

	out := make([]Entity, 0, k)
	for i := 0; i < k && h.Len() > 0; i++ {
		out = append(out, heap.Pop(&h).(neighbor).entity)
	}
	return out
}

// FindInRoom returns every entity registered under a room name.
func (idx *Index) FindInRoom(roomName string) []Entity {
	return idx.resolve(idx.roomIndex[RoomKey(roomName)])
}

// FindInFloor returns every entity on the floor containing z.
func (idx *Index) FindInFloor(z float64) []Entity {
	return idx.resolve(idx.floorIndex[FloorIndexFromZ(z)])
}

// Cluster is a group of entities found within eps of one another.
type Cluster struct {
	Entities []Entity
	Center   Point3D
}

// FindClusters groups entities using a DBSCAN-style density pass: any
// entity with at least minPts-1 neighbors within eps (minPts counting the
// entity itself) seeds a cluster, which
// then grows by repeatedly absorbing density-reachable neighbors.
func (idx *Index) FindClusters(eps float64, minPts int) []Cluster {
	entities := idx.tree.All()
	n := len(entities)
	visited := make([]bool, n)
	assigned := make([]bool, n)

	neighborsOf := func(i int) []int {
		var out []int
		ci := idx.entityCache[entities[i].entityID].Box.Center()
		for j, other := range entities {
			if j == i {
				continue
			}
			cj := idx.entityCache[other.entityID].Box.Center()
			if ci.DistanceTo(cj) <= eps {
				out = append(out, j)
			}
		}
		return out
	}

	var clusters []Cluster
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		neigh := neighborsOf(i)
		if len(neigh)+1 < minPts {
			continue
		}

		members := map[int]bool{i: true}
		queue := append([]int{}, neigh...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if members[j] {
				continue
			}
			members[j] = true
			if !visited[j] {
				visited[j] = true
				jn := neighborsOf(j)
				if len(jn)+1 >= minPts {
					queue = append(queue, jn...)
				}
			}
		}

		var cluster Cluster
		for j := range members {
			if assigned[j] {
				continue
			}
			assigned[j] = true
			cluster.Entities = append(cluster.Entities, idx.entityCache[entities[j].entityID])
		}
		if len(cluster.Entities) == 0 {
			continue
		}
		sort.Slice(cluster.Entities, func(a, b int) bool { return cluster.Entities[a].ID < cluster.Entities[b].ID })
		cluster.Center = centroid(cluster.Entities)
		clusters = append(clusters, cluster)
	}
	return clusters
}

func centroid(entities []Entity) Point3D {
	var sum Point3D
	for _, e := range entities {
		sum = sum.Add(e.Box.Center())
	}
	n := float64(len(entities))
	return Point3D{sum.X / n, sum.Y / n, sum.Z / n}
}

func (idx *Index) resolve(ids []string) []Entity {
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := idx.entityCache[id]; ok {
			out = append(out, e)
		}
	}
	return out
}
