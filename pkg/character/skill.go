package character

import "fmt"

// SkillKind distinguishes creation-time skills from skills picked up during
// an adventure.
type SkillKind string

const (
	SkillKindStarter SkillKind = "starter"
	SkillKindLearned SkillKind = "learned"
)

// Skill is a single ability a character can use. Name is the unique key
// within a character's learned-skill list.
type Skill struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Kind        SkillKind `json:"kind,omitempty"`
	ManaCost    int       `json:"mana_cost,omitempty"`
	StaminaCost int       `json:"stamina_cost,omitempty"`
}

// SkillTreeStageCount is the fixed number of progression tiers in a valid
// skill tree. Externally supplied trees with any other stage count are
// rejected wholesale.
const SkillTreeStageCount = 5

// SkillTreeStage is one progression tier of a class skill tree.
type SkillTreeStage struct {
	Stage     int     `json:"stage"`
	StageName string  `json:"stage_name"`
	Skills    []Skill `json:"skills"`
}

// SkillTree is the full progression ladder for a class. Stage 0 is the
// unrealized "Potential" tier and conventionally carries no skills.
type SkillTree struct {
	ClassName string           `json:"class_name"`
	Stages    []SkillTreeStage `json:"stages"`
}

// Valid reports whether the tree has exactly five stages. Stage indexes are
// not trusted; NormalizeSkillTree reassigns them.
func (t *SkillTree) Valid() bool {
	return t != nil && len(t.Stages) == SkillTreeStageCount
}

// NormalizeSkillTree returns a defaulted copy of an externally
// supplied tree, or nil if the tree does not have exactly five stages.
// Stages are reindexed 0..4, missing stage names are filled, and every skill
// gets its zero-value fields defaulted.
func NormalizeSkillTree(t *SkillTree) *SkillTree {
	if !t.Valid() {
		return nil
	}

	out := &SkillTree{
		ClassName: t.ClassName,
		Stages:    make([]SkillTreeStage, SkillTreeStageCount),
	}
	for i, stage := range t.Stages {
		norm := SkillTreeStage{
			Stage:     i,
			StageName: stage.StageName,
			Skills:    make([]Skill, 0, len(stage.Skills)),
		}
		if norm.StageName == "" {
			norm.StageName = defaultStageName(i)
		}
		for _, sk := range stage.Skills {
			if sk.Name == "" {
				continue
			}
			if sk.Kind == "" {
				sk.Kind = SkillKindLearned
			}
			norm.Skills = append(norm.Skills, sk)
		}
		out.Stages[i] = norm
	}
	return out
}

func defaultStageName(i int) string {
	if i == 0 {
		return "Potential"
	}
	return fmt.Sprintf("Stage %d", i)
}

// Clone returns a deep copy of the tree. Nil-safe.
func (t *SkillTree) Clone() *SkillTree {
	if t == nil {
		return nil
	}
	out := &SkillTree{
		ClassName: t.ClassName,
		Stages:    make([]SkillTreeStage, len(t.Stages)),
	}
	for i, stage := range t.Stages {
		cp := stage
		if stage.Skills != nil {
			// Normalized trees carry empty non-nil skill slices; the copy
			// must not collapse them to nil or saves stop round-tripping.
			cp.Skills = make([]Skill, len(stage.Skills))
			copy(cp.Skills, stage.Skills)
		}
		out.Stages[i] = cp
	}
	return out
}

// StageSkills returns the skills available at the given stage, or nil if the
// tree is nil or the stage is out of range.
func (t *SkillTree) StageSkills(stage int) []Skill {
	if t == nil || stage < 0 || stage >= len(t.Stages) {
		return nil
	}
	return t.Stages[stage].Skills
}
