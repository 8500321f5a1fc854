package catalog

// MuscleGroup is the closed set of muscle group tags an exercise can carry.
type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "chest"
	MuscleGroupBack      MuscleGroup = "back"
	MuscleGroupShoulders MuscleGroup = "shoulders"
	MuscleGroupBiceps    MuscleGroup = "biceps"
	MuscleGroupTriceps   MuscleGroup = "triceps"
	MuscleGroupLegs      MuscleGroup = "legs"
	MuscleGroupGlutes    MuscleGroup = "glutes"
	MuscleGroupAbs       MuscleGroup = "abs"
	MuscleGroupCalves    MuscleGroup = "calves"
	MuscleGroupForearms  MuscleGroup = "forearms"
	MuscleGroupFullBody  MuscleGroup = "full_body"
)

var allMuscleGroups = []MuscleGroup{
	MuscleGroupChest,
	MuscleGroupBack,
	MuscleGroupShoulders,
	MuscleGroupBiceps,
	MuscleGroupTriceps,
	MuscleGroupLegs,
	MuscleGroupGlutes,
	MuscleGroupAbs,
	MuscleGroupCalves,
	MuscleGroupForearms,
	MuscleGroupFullBody,
}

var muscleGroupLabels = map[MuscleGroup]string{
	MuscleGroupChest:     "Chest",
	MuscleGroupBack:      "Back",
	MuscleGroupShoulders: "Shoulders",
	MuscleGroupBiceps:    "Biceps",
	MuscleGroupTriceps:   "Triceps",
	MuscleGroupLegs:      "Legs",
	MuscleGroupGlutes:    "Glutes",
	MuscleGroupAbs:       "Abs",
	MuscleGroupCalves:    "Calves",
	MuscleGroupForearms:  "Forearms",
	MuscleGroupFullBody:  "Full Body",
}

// AllMuscleGroups returns the muscle groups in display order.
func AllMuscleGroups() []MuscleGroup {
	out := make([]MuscleGroup, len(allMuscleGroups))
	copy(out, allMuscleGroups)
	return out
}

func (mg MuscleGroup) String() string {
	return string(mg)
}

func (mg MuscleGroup) IsValid() bool {
	_, ok := muscleGroupLabels[mg]
	return ok
}

// Label returns the display label, or the raw tag for unknown values.
func (mg MuscleGroup) Label() string {
	if label, ok := muscleGroupLabels[mg]; ok {
		return label
	}
	return string(mg)
}
