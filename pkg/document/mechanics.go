package document

// GameMechanics defines the rules layer: systems, tracked state and
// win/lose conditions.
type GameMechanics struct {
	GameTitle             string      `yaml:"game_title" json:"game_title"`
	GameSystems           GameSystems `yaml:"game_systems" json:"game_systems"`
	GameState             StateRules  `yaml:"game_state" json:"game_state"`
	TechnicalRequirements []string    `yaml:"technical_requirements" json:"technical_requirements"`
}

// GameSystems names the four core systems every generated game carries.
type GameSystems struct {
	Movement    string `yaml:"movement" json:"movement"`
	Inventory   string `yaml:"inventory" json:"inventory"`
	Combat      string `yaml:"combat" json:"combat"`
	Interaction string `yaml:"interaction" json:"interaction"`
}

// StateRules declares tracked variables and terminal conditions.
type StateRules struct {
	TrackedVariables []string `yaml:"tracked_variables" json:"tracked_variables"`
	WinConditions    []string `yaml:"win_conditions" json:"win_conditions"`
	LoseConditions   []string `yaml:"lose_conditions" json:"lose_conditions"`
}

func (g *GameMechanics) Kind() Kind { return KindGameMechanics }

func (g *GameMechanics) Validate() []string {
	var errs []string

	if g.GameTitle == "" {
		errs = append(errs, "game_title: required field is missing or empty")
	}
	if g.GameSystems.Movement == "" {
		errs = append(errs, "game_systems.movement: required field is missing or empty")
	}
	if g.GameSystems.Inventory == "" {
		errs = append(errs, "game_systems.inventory: required field is missing or empty")
	}
	if g.GameSystems.Combat == "" {
		errs = append(errs, "game_systems.combat: required field is missing or empty")
	}
	if g.GameSystems.Interaction == "" {
		errs = append(errs, "game_systems.interaction: required field is missing or empty")
	}
	if len(g.GameState.TrackedVariables) < 1 {
		errs = append(errs, "game_state.tracked_variables: at least 1 tracked variable is required")
	}
	if len(g.GameState.WinConditions) < 1 {
		errs = append(errs, "game_state.win_conditions: at least 1 win condition is required")
	}
	if len(g.GameState.LoseConditions) < 1 {
		errs = append(errs, "game_state.lose_conditions: at least 1 lose condition is required")
	}
	if len(g.TechnicalRequirements) < 1 {
		errs = append(errs, "technical_requirements: at least 1 technical requirement is required")
	}

	return errs
}
