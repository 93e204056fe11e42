package models

// LoadStatus is the coarse state of the heat-map screen.
type LoadStatus int

const (
	// StatusLoading means a full reload is in progress.
	StatusLoading LoadStatus = iota
	// StatusReady means the last full reload resolved a location.
	StatusReady
	// StatusLocationUnavailable is the only failure shown to the user.
	StatusLocationUnavailable
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusLocationUnavailable:
		return "location_unavailable"
	default:
		return "unknown"
	}
}

// DisplayState is everything the heat-map screen renders from.
// LastClusters is nil until the first successful cluster fetch.
type DisplayState struct {
	ShowHeatmapLayer bool
	ShowClusterLayer bool
	RadiusKm         int
	ZoomLevel        float64
	UserLocation     *GeoCoordinate
	LastClusters     []ClusterSummary
	HeatmapPoints    []HeatmapPoint
	ClusterRevision  uint64 // bumped whenever LastClusters is replaced
	HeatmapRevision  uint64 // bumped whenever HeatmapPoints is replaced
	Status           LoadStatus
}

// Clone returns a deep copy so callers cannot mutate the owner's state.
func (s DisplayState) Clone() DisplayState {
	if s.UserLocation != nil {
		loc := *s.UserLocation
		s.UserLocation = &loc
	}
	if s.LastClusters != nil {
		clusters := make([]ClusterSummary, len(s.LastClusters))
		for i, c := range s.LastClusters {
			clusters[i] = c.Clone()
		}
		s.LastClusters = clusters
	}
	if s.HeatmapPoints != nil {
		points := make([]HeatmapPoint, len(s.HeatmapPoints))
		copy(points, s.HeatmapPoints)
		s.HeatmapPoints = points
	}

	return s
}
