package game

import "strings"

type Status string

const (
	StatusBurn      Status = "brn"
	StatusFreeze    Status = "frz"
	StatusParalysis Status = "par"
	StatusPoison    Status = "psn"
	StatusSleep     Status = "slp"
	StatusToxic     Status = "tox"
	StatusFainted   Status = "fnt"
)

// Name is the upper-case form used in summaries ("PAR").
func (s Status) Name() string {
	return strings.ToUpper(string(s))
}

type SideCondition int

const (
	UnknownSideCondition SideCondition = iota
	AuroraVeil
	LightScreen
	LuckyChant
	Mist
	Reflect
	Safeguard
	Spikes
	StealthRock
	StickyWeb
	Tailwind
	ToxicSpikes
)

var sideConditionNames = map[SideCondition]string{
	UnknownSideCondition: "UNKNOWN",
	AuroraVeil:           "AURORA_VEIL",
	LightScreen:          "LIGHT_SCREEN",
	LuckyChant:           "LUCKY_CHANT",
	Mist:                 "MIST",
	Reflect:              "REFLECT",
	Safeguard:            "SAFEGUARD",
	Spikes:               "SPIKES",
	StealthRock:          "STEALTH_ROCK",
	StickyWeb:            "STICKY_WEB",
	Tailwind:             "TAILWIND",
	ToxicSpikes:          "TOXIC_SPIKES",
}

func (sc SideCondition) String() string {
	if n, ok := sideConditionNames[sc]; ok {
		return n
	}
	return "UNKNOWN"
}

// MaxLayers is how many layers an entry hazard can stack to. Conditions
// that last a number of turns return 0.
func (sc SideCondition) MaxLayers() int {
	switch sc {
	case Spikes:
		return 3
	case ToxicSpikes:
		return 2
	case StealthRock, StickyWeb:
		return 1
	}
	return 0
}

// ParseSideCondition reads protocol values such as "move: Stealth Rock",
// "Reflect" or "stealthrock".
func ParseSideCondition(s string) SideCondition {
	return parseEnum(s, sideConditionNames, UnknownSideCondition)
}

type Weather int

const (
	UnknownWeather Weather = iota
	DeltaStream
	DesolateLand
	Hail
	PrimordialSea
	RainDance
	Sandstorm
	Snow
	Snowscape
	SunnyDay
)

var weatherNames = map[Weather]string{
	UnknownWeather: "UNKNOWN",
	DeltaStream:    "DELTASTREAM",
	DesolateLand:   "DESOLATELAND",
	Hail:           "HAIL",
	PrimordialSea:  "PRIMORDIALSEA",
	RainDance:      "RAINDANCE",
	Sandstorm:      "SANDSTORM",
	Snow:           "SNOW",
	Snowscape:      "SNOWSCAPE",
	SunnyDay:       "SUNNYDAY",
}

func (w Weather) String() string {
	if n, ok := weatherNames[w]; ok {
		return n
	}
	return "UNKNOWN"
}

func ParseWeather(s string) Weather {
	return parseEnum(s, weatherNames, UnknownWeather)
}

type Field int

const (
	UnknownField Field = iota
	ElectricTerrain
	Gravity
	GrassyTerrain
	MagicRoom
	MistyTerrain
	PsychicTerrain
	TrickRoom
	WonderRoom
)

var fieldNames = map[Field]string{
	UnknownField:    "UNKNOWN",
	ElectricTerrain: "ELECTRIC_TERRAIN",
	Gravity:         "GRAVITY",
	GrassyTerrain:   "GRASSY_TERRAIN",
	MagicRoom:       "MAGIC_ROOM",
	MistyTerrain:    "MISTY_TERRAIN",
	PsychicTerrain:  "PSYCHIC_TERRAIN",
	TrickRoom:       "TRICK_ROOM",
	WonderRoom:      "WONDER_ROOM",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "UNKNOWN"
}

func (f Field) IsTerrain() bool {
	switch f {
	case ElectricTerrain, GrassyTerrain, MistyTerrain, PsychicTerrain:
		return true
	}
	return false
}

func ParseField(s string) Field {
	return parseEnum(s, fieldNames, UnknownField)
}

// parseEnum matches protocol text against enum names ignoring case, spaces,
// underscores and the "move: " prefix.
func parseEnum[T comparable](s string, names map[T]string, unknown T) T {
	key := squash(strings.TrimPrefix(strings.TrimSpace(s), "move: "))
	for v, n := range names {
		if v == unknown {
			continue
		}
		if squash(n) == key {
			return v
		}
	}
	return unknown
}

func squash(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
