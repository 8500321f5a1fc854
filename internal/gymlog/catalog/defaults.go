package catalog

// DefaultExercises is the catalog loaded by cmd/seed.
var DefaultExercises = []AddParams{
	{Name: "Bench Press", MuscleGroup: MuscleGroupChest, Description: "Barbell press lying on a flat bench."},
	{Name: "Incline Bench Press", MuscleGroup: MuscleGroupChest, Description: "Barbell press on a bench set to 30-45 degrees."},
	{Name: "Dumbbell Fly", MuscleGroup: MuscleGroupChest, Description: "Wide arc with dumbbells on a flat bench."},
	{Name: "Push-Up", MuscleGroup: MuscleGroupChest, Description: "Bodyweight press from the floor."},
	{Name: "Dips", MuscleGroup: MuscleGroupChest, Description: "Parallel bar dips with a forward lean."},

	{Name: "Deadlift", MuscleGroup: MuscleGroupBack, Description: "Conventional barbell deadlift from the floor."},
	{Name: "Pull-Up", MuscleGroup: MuscleGroupBack, Description: "Overhand grip, chin over the bar."},
	{Name: "Barbell Row", MuscleGroup: MuscleGroupBack, Description: "Bent-over row to the lower chest."},
	{Name: "Lat Pulldown", MuscleGroup: MuscleGroupBack, Description: "Cable pulldown to the upper chest."},
	{Name: "Seated Cable Row", MuscleGroup: MuscleGroupBack, Description: "Neutral grip row on a cable station."},

	{Name: "Overhead Press", MuscleGroup: MuscleGroupShoulders, Description: "Standing barbell press overhead."},
	{Name: "Dumbbell Shoulder Press", MuscleGroup: MuscleGroupShoulders, Description: "Seated dumbbell press."},
	{Name: "Lateral Raise", MuscleGroup: MuscleGroupShoulders, Description: "Dumbbells raised to the side up to shoulder height."},
	{Name: "Face Pull", MuscleGroup: MuscleGroupShoulders, Description: "Rope pulled towards the face on a high cable."},

	{Name: "Barbell Curl", MuscleGroup: MuscleGroupBiceps, Description: "Standing curl with a straight bar."},
	{Name: "Dumbbell Curl", MuscleGroup: MuscleGroupBiceps, Description: "Alternating dumbbell curl."},
	{Name: "Hammer Curl", MuscleGroup: MuscleGroupBiceps, Description: "Neutral grip dumbbell curl."},
	{Name: "Preacher Curl", MuscleGroup: MuscleGroupBiceps, Description: "EZ-bar curl on a preacher bench."},

	{Name: "Triceps Pushdown", MuscleGroup: MuscleGroupTriceps, Description: "Cable pushdown with a straight bar or rope."},
	{Name: "Skull Crusher", MuscleGroup: MuscleGroupTriceps, Description: "Lying EZ-bar extension to the forehead."},
	{Name: "Close-Grip Bench Press", MuscleGroup: MuscleGroupTriceps, Description: "Bench press with hands shoulder width apart."},
	{Name: "Overhead Triceps Extension", MuscleGroup: MuscleGroupTriceps, Description: "Dumbbell extension behind the head."},

	{Name: "Back Squat", MuscleGroup: MuscleGroupLegs, Description: "High bar barbell squat."},
	{Name: "Front Squat", MuscleGroup: MuscleGroupLegs, Description: "Barbell squat with the bar on the front delts."},
	{Name: "Leg Press", MuscleGroup: MuscleGroupLegs, Description: "Sled leg press."},
	{Name: "Leg Extension", MuscleGroup: MuscleGroupLegs, Description: "Machine knee extension."},
	{Name: "Leg Curl", MuscleGroup: MuscleGroupLegs, Description: "Lying machine hamstring curl."},
	{Name: "Walking Lunge", MuscleGroup: MuscleGroupLegs, Description: "Alternating lunges with dumbbells."},

	{Name: "Hip Thrust", MuscleGroup: MuscleGroupGlutes, Description: "Barbell hip thrust with the back on a bench."},
	{Name: "Romanian Deadlift", MuscleGroup: MuscleGroupGlutes, Description: "Stiff-legged hinge to mid shin."},
	{Name: "Bulgarian Split Squat", MuscleGroup: MuscleGroupGlutes, Description: "Rear foot elevated split squat."},

	{Name: "Plank", MuscleGroup: MuscleGroupAbs, Description: "Forearm plank hold."},
	{Name: "Hanging Leg Raise", MuscleGroup: MuscleGroupAbs, Description: "Legs raised while hanging from a bar."},
	{Name: "Cable Crunch", MuscleGroup: MuscleGroupAbs, Description: "Kneeling crunch on a high cable."},

	{Name: "Standing Calf Raise", MuscleGroup: MuscleGroupCalves, Description: "Machine calf raise with straight knees."},
	{Name: "Seated Calf Raise", MuscleGroup: MuscleGroupCalves, Description: "Machine calf raise with bent knees."},

	{Name: "Wrist Curl", MuscleGroup: MuscleGroupForearms, Description: "Seated barbell wrist curl."},
	{Name: "Farmer's Walk", MuscleGroup: MuscleGroupForearms, Description: "Heavy dumbbells carried for distance."},

	{Name: "Power Clean", MuscleGroup: MuscleGroupFullBody, Description: "Barbell pulled from the floor and caught on the shoulders."},
	{Name: "Kettlebell Swing", MuscleGroup: MuscleGroupFullBody, Description: "Two-handed hip hinge swing."},
	{Name: "Burpee", MuscleGroup: MuscleGroupFullBody, Description: "Squat thrust with a jump."},
}
