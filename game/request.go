package game

// Request mirrors the JSON payload of a |request| message.
type Request struct {
	RequestID   int             `json:"rqid"`
	Active      []ActiveRequest `json:"active"`
	Side        SideRequest     `json:"side"`
	ForceSwitch []bool          `json:"forceSwitch"`
	Wait        bool            `json:"wait"`
	TeamPreview bool            `json:"teamPreview"`
}

type ActiveRequest struct {
	Moves           []MoveRequest `json:"moves"`
	Trapped         bool          `json:"trapped"`
	MaybeTrapped    bool          `json:"maybeTrapped"`
	CanTerastallize string        `json:"canTerastallize"`
}

type MoveRequest struct {
	Move     string `json:"move"`
	ID       string `json:"id"`
	PP       int    `json:"pp"`
	MaxPP    int    `json:"maxpp"`
	Target   string `json:"target"`
	Disabled bool   `json:"disabled"`
}

type SideRequest struct {
	Name    string           `json:"name"`
	ID      string           `json:"id"`
	Pokemon []PokemonRequest `json:"pokemon"`
}

type PokemonRequest struct {
	Ident         string         `json:"ident"`
	Details       string         `json:"details"`
	Condition     string         `json:"condition"`
	Active        bool           `json:"active"`
	Stats         map[string]int `json:"stats"`
	Moves         []string       `json:"moves"`
	BaseAbility   string         `json:"baseAbility"`
	Ability       string         `json:"ability"`
	Item          string         `json:"item"`
	TeraType      string         `json:"teraType"`
	Terastallized string         `json:"terastallized"`
}

func (r *Request) forceSwitch() bool {
	for _, fs := range r.ForceSwitch {
		if fs {
			return true
		}
	}
	return false
}
