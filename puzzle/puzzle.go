// Package puzzle loads declarative level definitions and assembles them into
// the tracks, fireflies, bellflowers and link groups a scene runs on.
package puzzle

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/config"
)

//go:embed levels/*.yaml
var levelFS embed.FS

var (
	ErrUnknownLevel      = errors.New("unknown level")
	ErrInvalidTrack      = errors.New("invalid track")
	ErrInvalidIndex      = errors.New("index out of range")
	ErrInvalidBellflower = errors.New("invalid bellflower")
)

// DefaultFixCount is the number of fix marks drawn on a circle when the level
// does not say.
const DefaultFixCount = 2

// Point is a board position written as [x, y].
type Point [2]float64

// Vec converts p to a vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p[0], Y: p[1]}
}

// Definition is a level as authored.
type Definition struct {
	Name        string          `yaml:"-"`
	Title       string          `yaml:"title"`
	Tracks      []TrackDef      `yaml:"tracks"`
	Fireflies   []FireflyDef    `yaml:"fireflies"`
	Bellflowers []BellflowerDef `yaml:"bellflowers"`
	Links       [][]int         `yaml:"links"`
}

// TrackDef holds exactly one of Circle or Segment.
type TrackDef struct {
	Circle  *CircleDef  `yaml:"circle,omitempty"`
	Segment *SegmentDef `yaml:"segment,omitempty"`
	Flags   []string    `yaml:"flags,omitempty"`
}

type CircleDef struct {
	Origin   Point   `yaml:"origin"`
	Radius   float64 `yaml:"radius"`
	FixAngle float64 `yaml:"fix_angle"`
	FixCount *int    `yaml:"fix_count,omitempty"`
}

type SegmentDef struct {
	Origin Point `yaml:"origin"`
	Ext    Point `yaml:"ext"` // half-extent; the segment spans origin-ext to origin+ext
}

// FireflyDef places a firefly. Phase is a fraction of the track length.
type FireflyDef struct {
	Track    int     `yaml:"track"`
	Phase    float64 `yaml:"phase"`
	Velocity float64 `yaml:"velocity"`
}

// BellflowerDef is a sensor disc. A positive Delay (seconds) makes it
// delayed: a firefly must stay inside that long to count.
type BellflowerDef struct {
	Origin Point   `yaml:"origin"`
	Radius float64 `yaml:"radius"`
	Count  int     `yaml:"count"`
	Delay  float64 `yaml:"delay,omitempty"`
}

// BellflowerSpec is a bellflower ready to be spawned. DelaySteps is zero for
// an immediate bellflower.
type BellflowerSpec struct {
	Sensor     components.Sensor
	Count      int
	DelaySteps int
}

// Assembly is a level resolved against a configuration.
type Assembly struct {
	Title       string
	Tracks      []components.Track
	Fireflies   []components.Firefly
	Bellflowers []BellflowerSpec
	Links       [][]int
}

var flagNames = map[string]components.TrackFlags{
	"attract": components.FlagAttract,
	"return":  components.FlagReturn,
	"fixed":   components.FlagFixed,
}

// ParseFlags converts flag names to a flag set.
func ParseFlags(names []string) (components.TrackFlags, error) {
	var flags components.TrackFlags
	for _, n := range names {
		f, ok := flagNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("%w: unknown flag %q", ErrInvalidTrack, n)
		}
		flags |= f
	}
	return flags, nil
}

// Parse decodes and validates a level.
func Parse(name string, data []byte) (*Definition, error) {
	def := &Definition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("parsing level %s: %w", name, err)
	}
	def.Name = name
	if def.Title == "" {
		def.Title = name
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return def, nil
}

// Load returns the embedded level with the given name.
func Load(name string) (*Definition, error) {
	data, err := levelFS.ReadFile(path.Join("levels", name+".yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
		}
		return nil, fmt.Errorf("reading level %s: %w", name, err)
	}
	return Parse(name, data)
}

// LoadFile reads a level from disk.
func LoadFile(p string) (*Definition, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	return Parse(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)), data)
}

// Names lists the embedded levels in sorted order.
func Names() []string {
	entries, err := levelFS.ReadDir("levels")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Validate checks every index and shape in the level. All problems are
// reported together.
func (d *Definition) Validate() error {
	var errs []error
	for i, t := range d.Tracks {
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("track %d: %w", i, err))
		}
	}
	for i, f := range d.Fireflies {
		if f.Track < 0 || f.Track >= len(d.Tracks) {
			errs = append(errs, fmt.Errorf("%w: firefly %d rides track %d of %d", ErrInvalidIndex, i, f.Track, len(d.Tracks)))
		}
		if f.Phase < 0 || f.Phase > 1 {
			errs = append(errs, fmt.Errorf("%w: firefly %d phase %g not in [0, 1]", ErrInvalidIndex, i, f.Phase))
		}
	}
	for i, b := range d.Bellflowers {
		if !(b.Radius > 0) || b.Count < 0 || b.Delay < 0 {
			errs = append(errs, fmt.Errorf("%w: bellflower %d radius %g count %d delay %g", ErrInvalidBellflower, i, b.Radius, b.Count, b.Delay))
		}
	}
	for g, group := range d.Links {
		for _, idx := range group {
			if idx < 0 || idx >= len(d.Fireflies) {
				errs = append(errs, fmt.Errorf("%w: link group %d names firefly %d of %d", ErrInvalidIndex, g, idx, len(d.Fireflies)))
			}
		}
	}
	return errors.Join(errs...)
}

func (t TrackDef) validate() error {
	if (t.Circle == nil) == (t.Segment == nil) {
		return fmt.Errorf("%w: exactly one of circle or segment is required", ErrInvalidTrack)
	}
	if _, err := ParseFlags(t.Flags); err != nil {
		return err
	}
	if t.Circle != nil && !(t.Circle.Radius > 0) {
		return fmt.Errorf("%w: circle radius %g", ErrInvalidTrack, t.Circle.Radius)
	}
	if t.Segment != nil && t.Segment.Ext == (Point{}) {
		return fmt.Errorf("%w: zero segment extension", ErrInvalidTrack)
	}
	return nil
}

func (t TrackDef) build() (components.Track, error) {
	flags, err := ParseFlags(t.Flags)
	if err != nil {
		return components.Track{}, err
	}
	if c := t.Circle; c != nil {
		fixCount := DefaultFixCount
		if c.FixCount != nil {
			fixCount = *c.FixCount
		}
		return components.NewCircle(c.Origin.Vec(), c.Radius, flags, c.FixAngle, fixCount)
	}
	return components.NewSegment(t.Segment.Origin.Vec(), t.Segment.Ext.Vec(), flags)
}

// Build resolves the level into runtime values. Delays are converted to
// whole simulation steps at the configured rate.
func (d *Definition) Build(cfg *config.Config) (*Assembly, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	a := &Assembly{
		Title:       d.Title,
		Tracks:      make([]components.Track, len(d.Tracks)),
		Fireflies:   make([]components.Firefly, len(d.Fireflies)),
		Bellflowers: make([]BellflowerSpec, len(d.Bellflowers)),
	}
	for i, t := range d.Tracks {
		tr, err := t.build()
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		a.Tracks[i] = tr
	}
	for i, f := range d.Fireflies {
		tr := &a.Tracks[f.Track]
		a.Fireflies[i] = components.Firefly{
			Index:    i,
			Track:    f.Track,
			Phase:    tr.Wrap(f.Phase * tr.Length),
			Velocity: f.Velocity,
		}
	}
	for i, b := range d.Bellflowers {
		spec := BellflowerSpec{
			Sensor: components.Sensor{Origin: b.Origin.Vec(), Radius: b.Radius},
			Count:  b.Count,
		}
		if b.Delay > 0 {
			spec.DelaySteps = cfg.StepsFor(b.Delay)
			if spec.DelaySteps < 1 {
				return nil, fmt.Errorf("%w: bellflower %d delay %gs is shorter than one step", ErrInvalidBellflower, i, b.Delay)
			}
		}
		a.Bellflowers[i] = spec
	}
	for _, g := range d.Links {
		a.Links = append(a.Links, append([]int(nil), g...))
	}
	return a, nil
}
