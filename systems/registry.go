package systems

// SystemInfo describes a simulation phase for UI display.
type SystemInfo struct {
	ID          string // matches the telemetry phase name
	Name        string // Display name
	Description string // What this system does
}

// SystemRegistry holds metadata about the step phases so the HUD and the
// perf collector agree on names and order.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the step phases in execution order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "motion", Name: "Motion", Description: "Advances fireflies and resolves crossings"})
	r.Register(SystemInfo{ID: "bellflowers", Name: "Bellflowers", Description: "Counts fireflies inside sensors"})
	r.Register(SystemInfo{ID: "trails", Name: "Trails", Description: "Samples trail positions"})
	r.Register(SystemInfo{ID: "trace", Name: "Trace", Description: "Records stats and trace output"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
