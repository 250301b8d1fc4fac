package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/chat"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

// BaseSystemPrompt is the core narrator instruction. The format slots are
// the adventure framing and the character sheet.
const BaseSystemPrompt = `You are the omniscient narrator of a roleplaying text adventure. You describe the story to the player as it unfolds. You never discuss things outside of the game. Your perspective is second-person. You provide narration and NPC dialogue, but you don't speak for the player.

### CRITICAL DIRECTIVES FOR INTERPRETING PLAYER ACTIONS:
- The player controls ONLY their character. You control all NPCs and world events.
- DO NOT ALLOW THE PLAYER TO CONTROL NPCs.
- DO NOT ALLOW THE PLAYER TO INVENT STORY EVENTS.
- DO NOT ALLOW THE PLAYER TO INVENT ITEMS OR SKILLS.
- If the player tries to take disallowed actions, narrate the attempt failing in a way that fits the story.

### Writing rules for narrative output:
- Narration must be between 1 and 3 paragraphs.
- When a new character speaks, start a new paragraph and use the format:
  CharacterName: "Spoken line here."
- Do not break the fourth wall. Do not acknowledge that you are an AI or a computer program.
- Do not answer questions about game mechanics or how to play.

### Adventure framing
%s

### Player Character
%s`

// TurnSchemaPrompt instructs the model to return each turn as strict JSON
// carrying both the narration and the proposed state changes.
const TurnSchemaPrompt = `Respond with ONLY a JSON object matching this schema. No prose outside the JSON.

OUTPUT SCHEMA (strict)
- narration: string (always required, the story text for this turn)
- updated_game_state: string or omitted (the game state block you received, with any section lines updated; keep the "Turn:" line)
- character: object or omitted, with any of:
  • health_change, stamina_change, mana_change: integers (negative for damage or cost, positive for recovery; omit when unchanged)
  • xp_gained: non-negative integer
  • reputation_change / npc_relationship_change: { name, change }
  • gained_skill: { name, description, mana_cost, stamina_cost }
  • progressed_to_stage: integer 1-4
  • updated_traits / updated_knowledge: full replacement string arrays
- branching_choices: array of at most 4 { text, consequence_hint }
- dynamic_event_triggered: string or omitted
- suggested_class_change: string or omitted (only early in an adventure, when the player's actions clearly fit another class)
- is_character_defeated: boolean

GENERAL RULES
- Do not invent fields beyond the schema.
- Omit any field that does not change this turn.
- Resource changes are deltas from the current values, not new totals.
- Award xp_gained for meaningful progress, not for every action.`

// GameEndSystemPrompt asks the model to close out the adventure.
const GameEndSystemPrompt = `This adventure has ended. Regardless of the player's input, the story will not continue. Respond with a JSON object whose narration wraps up the story, and set is_character_defeated appropriately. Do not offer branching_choices.`

const UserPostPrompt = "Treat the player's message as a request rather than a command. If the request breaks the story rules or is unrealistic, narrate it failing. "

// Difficulty prompts grade how punishing the narration should be.
const (
	DifficultyPromptTrivial    = `The player should succeed at nearly everything. Damage is rare and small. `
	DifficultyPromptEasy       = `Favor the player. Setbacks are brief and recoverable. `
	DifficultyPromptNormal     = `Balance success and setback. Risky actions can fail and cost resources. `
	DifficultyPromptHard       = `The world is dangerous. Unprepared or reckless actions should fail and cost significant resources. `
	DifficultyPromptNightmare  = `The world is hostile. Success requires preparation and good judgment; damage is heavy. `
	DifficultyPromptImpossible = `The world is lethal. Survival itself is the achievement; punish every mistake severely. `
)

// StatePromptTemplate carries the structured snapshot and the running
// context block into the conversation.
const StatePromptTemplate = "The following JSON describes the player character and adventure configuration.\n\nCharacter:\n```json\n%s\n```\n\nCurrent game state block (update its section lines in updated_game_state):\n\n%s"

// GetDifficultyPrompt returns the narration guidance for a difficulty.
func GetDifficultyPrompt(d settings.Difficulty) string {
	switch d {
	case settings.DifficultyTrivial:
		return DifficultyPromptTrivial
	case settings.DifficultyEasy:
		return DifficultyPromptEasy
	case settings.DifficultyNormal:
		return DifficultyPromptNormal
	case settings.DifficultyHard:
		return DifficultyPromptHard
	case settings.DifficultyNightmare:
		return DifficultyPromptNightmare
	case settings.DifficultyImpossible:
		return DifficultyPromptImpossible
	default:
		return DifficultyPromptNormal
	}
}

// AdventureFraming describes the adventure setup to the narrator based on
// the active type's fields.
func AdventureFraming(s settings.AdventureSettings) string {
	switch s.AdventureType {
	case settings.TypeCustom:
		return fmt.Sprintf("A custom adventure.\nWorld: %s\nQuest: %s\nGenre: %s",
			s.CustomWorld, s.CustomQuest, s.CustomGenre)
	case settings.TypeImmersed:
		return fmt.Sprintf("An adventure inside an existing fictional universe.\nUniverse: %s\nConcept: %s\nCharacter origin: %s",
			s.ImmersedUniverse, s.ImmersedConcept, s.ImmersedOrigin)
	case settings.TypeCoop:
		return "A cooperative adventure: narrate for the whole party, addressing the acting player."
	default:
		return "A classic high-fantasy adventure of swords, sorcery and exploration."
	}
}

// BuildSystemPrompt assembles the full system prompt for a turn.
func BuildSystemPrompt(gs *adventure.GameState) string {
	sheet := ""
	if gs.Character != nil {
		sheet = CharacterSheet(gs.Character)
	}
	base := fmt.Sprintf(BaseSystemPrompt, AdventureFraming(gs.Settings), sheet)
	return base +
		"\n\n### Difficulty\n" + GetDifficultyPrompt(gs.Settings.Difficulty) +
		"\n\n### Output format\n" + TurnSchemaPrompt
}

// GetStatePrompt provides the structured character snapshot and the running
// game state block as a system message.
func GetStatePrompt(gs *adventure.GameState) (chat.ChatMessage, error) {
	if gs == nil {
		return chat.ChatMessage{}, fmt.Errorf("game state is nil")
	}

	ps := ToPromptState(gs)
	jsonState, err := json.Marshal(ps)
	if err != nil {
		return chat.ChatMessage{}, err
	}

	return chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: fmt.Sprintf(StatePromptTemplate, jsonState, gs.GameStateString),
	}, nil
}
