package seed

// Definition describes a league to load into the store.
type Definition struct {
	Players    []PlayerDef    `yaml:"players"`
	MatchTypes []MatchTypeDef `yaml:"match_types"`
}

type PlayerDef struct {
	Name     string `yaml:"name"`
	Nickname string `yaml:"nickname"`
	Email    string `yaml:"email,omitempty"`
}

// MatchTypeDef is a match type and the nicknames of the players drawn into a
// round robin under it.
type MatchTypeDef struct {
	Title      string   `yaml:"title"`
	Identifier string   `yaml:"identifier"`
	Active     *bool    `yaml:"active,omitempty"`
	Players    []string `yaml:"players"`
}

// Report counts what Apply created.
type Report struct {
	PlayersAdded    int
	MatchTypesAdded int
	FixturesCreated int
}
