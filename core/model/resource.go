package model

// DefaultCapacityHours is the daily capacity assumed when a resource does not
// declare one.
const DefaultCapacityHours = 8.0

// Resource is a person or asset with a fixed number of hours per calendar day.
type Resource struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Capacity float64 `json:"capacity" yaml:"capacity"`
}

// IndexResources maps resource ids to resources.
func IndexResources(resources []Resource) map[string]Resource {
	idx := make(map[string]Resource, len(resources))
	for _, r := range resources {
		idx[r.ID] = r
	}
	return idx
}
