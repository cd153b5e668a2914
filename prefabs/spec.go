package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

// decodeInto unmarshals filename over an already-defaulted value so missing
// keys keep their defaults.
func decodeInto(filename string, dst any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type WorldSpec struct {
	HalfWidth       float64    `yaml:"half_width"`
	HalfHeight      float64    `yaml:"half_height"`
	Decorations     int        `yaml:"decorations"`
	Seed            int64      `yaml:"seed"`
	Index           string     `yaml:"index"`
	CellSize        float64    `yaml:"cell_size"`
	RebuildInterval float64    `yaml:"rebuild_interval"`
	Resolver        string     `yaml:"resolver"`
	Background      *YAMLColor `yaml:"background"`
}

type PlayerSpec struct {
	Name          string  `yaml:"name"`
	Speed         float64 `yaml:"speed"`
	Health        float64 `yaml:"health"`
	AnimInterval  float64 `yaml:"anim_interval"`
	ContactRadius float64 `yaml:"contact_radius"`
}

type EnemySpec struct {
	Name         string  `yaml:"name"`
	Speed        float64 `yaml:"speed"`
	Health       float64 `yaml:"health"`
	ContactDPS   float64 `yaml:"contact_dps"`
	AnimInterval float64 `yaml:"anim_interval"`
}

type WeaponSpec struct {
	FireInterval    float64 `yaml:"fire_interval"`
	Burst           int     `yaml:"burst"`
	Spread          float64 `yaml:"spread"`
	Offset          float64 `yaml:"offset"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`
	Damage          float64 `yaml:"damage"`
	TTL             float64 `yaml:"ttl"`
	HitRadius       float64 `yaml:"hit_radius"`
	ConsumeOnHit    bool    `yaml:"consume_on_hit"`
	AutoAim         bool    `yaml:"auto_aim"`
}

type WaveSpec struct {
	Interval   float64 `yaml:"interval"`
	BatchLimit int     `yaml:"batch_limit"`
	Cap        int     `yaml:"cap"`
	Placement  string  `yaml:"placement"`
	MinRadius  float64 `yaml:"min_radius"`
	MaxRadius  float64 `yaml:"max_radius"`
	Script     string  `yaml:"script"`
}

// GameSpec is every tunable of a run.
type GameSpec struct {
	World  WorldSpec
	Player PlayerSpec
	Enemy  EnemySpec
	Weapon WeaponSpec
	Wave   WaveSpec
}

const (
	IndexKDTree = "kdtree"
	IndexGrid   = "grid"
	IndexLinear = "linear"

	ResolverIndex  = "index"
	ResolverDirect = "direct"

	PlacementRect    = "rect"
	PlacementAnnulus = "annulus"
)

// DefaultGameSpec returns the built-in tuning used when no file overrides it.
func DefaultGameSpec() GameSpec {
	return GameSpec{
		World: WorldSpec{
			HalfWidth:       3000,
			HalfHeight:      2500,
			Decorations:     1000,
			Index:           IndexKDTree,
			CellSize:        64,
			RebuildInterval: 0.05,
			Resolver:        ResolverIndex,
			Background:      &YAMLColor{Color: color.NRGBA{R: 197, G: 204, B: 184, A: 255}},
		},
		Player: PlayerSpec{
			Name:          "player",
			Speed:         120,
			Health:        100,
			AnimInterval:  0.15,
			ContactRadius: 24,
		},
		Enemy: EnemySpec{
			Name:         "enemy",
			Speed:        60,
			Health:       100,
			ContactDPS:   60,
			AnimInterval: 0.08,
		},
		Weapon: WeaponSpec{
			FireInterval:    0.1,
			Burst:           3,
			Spread:          0.5,
			Offset:          20,
			ProjectileSpeed: 900,
			Damage:          50,
			TTL:             0.3,
			HitRadius:       32,
		},
		Wave: WaveSpec{
			Interval:   1.0,
			BatchLimit: 10,
			Cap:        500,
			Placement:  PlacementRect,
			MinRadius:  1000,
			MaxRadius:  5000,
		},
	}
}

// LoadGameSpec reads every prefab file over the defaults and validates the
// result.
func LoadGameSpec() (GameSpec, error) {
	spec := DefaultGameSpec()
	parts := []struct {
		file string
		dst  any
	}{
		{"world.yaml", &spec.World},
		{"player.yaml", &spec.Player},
		{"enemy.yaml", &spec.Enemy},
		{"weapon.yaml", &spec.Weapon},
		{"wave.yaml", &spec.Wave},
	}
	for _, p := range parts {
		if err := decodeInto(p.file, p.dst); err != nil {
			return GameSpec{}, err
		}
	}
	if err := spec.Validate(); err != nil {
		return GameSpec{}, err
	}
	return spec, nil
}

func (s GameSpec) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(s.World.HalfWidth > 0 && s.World.HalfHeight > 0, "world extents must be positive")
	check(s.World.Decorations >= 0, "decorations must not be negative")
	check(s.World.RebuildInterval >= 0, "rebuild_interval must not be negative")
	check(oneOf(s.World.Index, IndexKDTree, IndexGrid, IndexLinear), "unknown index %q", s.World.Index)
	check(s.World.Index != IndexGrid || s.World.CellSize > 0, "grid index needs a positive cell_size")
	check(oneOf(s.World.Resolver, ResolverIndex, ResolverDirect), "unknown resolver %q", s.World.Resolver)

	check(s.Player.Speed >= 0, "player speed must not be negative")
	check(s.Player.Health > 0, "player health must be positive")
	check(s.Player.ContactRadius >= 0, "contact_radius must not be negative")

	check(s.Enemy.Speed >= 0, "enemy speed must not be negative")
	check(s.Enemy.Health > 0, "enemy health must be positive")
	check(s.Enemy.ContactDPS >= 0, "contact_dps must not be negative")

	check(s.Weapon.FireInterval >= 0, "fire_interval must not be negative")
	check(s.Weapon.Burst >= 0, "burst must not be negative")
	check(s.Weapon.Spread >= 0, "spread must not be negative")
	check(s.Weapon.ProjectileSpeed >= 0, "projectile_speed must not be negative")
	check(s.Weapon.Damage >= 0, "damage must not be negative")
	check(s.Weapon.TTL >= 0, "ttl must not be negative")
	check(s.Weapon.HitRadius >= 0, "hit_radius must not be negative")

	check(s.Wave.Interval >= 0, "wave interval must not be negative")
	check(s.Wave.BatchLimit >= 0, "batch_limit must not be negative")
	check(s.Wave.Cap >= 0, "cap must not be negative")
	check(oneOf(s.Wave.Placement, PlacementRect, PlacementAnnulus), "unknown placement %q", s.Wave.Placement)
	check(s.Wave.MinRadius >= 0 && s.Wave.MinRadius <= s.Wave.MaxRadius, "annulus needs 0 <= min_radius <= max_radius")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, strings.Join(problems, "; "))
	}
	return nil
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
