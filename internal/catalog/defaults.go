package catalog

const defaultMaxDailyBoosts = 3

var defaultCategories = []BoostCategory{
	{ID: CategoryMindset, Name: "Mindset", MaxDailyBoosts: defaultMaxDailyBoosts},
	{ID: CategorySleep, Name: "Sleep", MaxDailyBoosts: defaultMaxDailyBoosts},
	{ID: CategoryExercise, Name: "Exercise", MaxDailyBoosts: defaultMaxDailyBoosts},
	{ID: CategoryNutrition, Name: "Nutrition", MaxDailyBoosts: defaultMaxDailyBoosts},
	{ID: CategoryBiohacking, Name: "Biohacking", MaxDailyBoosts: defaultMaxDailyBoosts},
}

var defaultChallenges = []ChallengeDefinition{
	{
		ID: "tc0", Name: "Morning Basics", Category: CategoryBonus, Tier: 0, FuelPoints: 50, DurationDays: 21,
		Description: "Build the daily foundation: hydrate, get light and move within an hour of waking.",
	},

	{ID: "mc1", Name: "Gratitude Journal", Category: CategoryMindset, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Write three things you are grateful for every evening."},
	{ID: "mc2", Name: "Meditation Practice", Category: CategoryMindset, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Ten minutes of guided meditation daily."},
	{ID: "mc3", Name: "Deep Focus Mastery", Category: CategoryMindset, Tier: 2, FuelPoints: 100, DurationDays: 21,
		Description: "Daily 90 minute distraction free work block.", ExpertReference: "Cal Newport, Deep Work"},

	{ID: "sc1", Name: "Consistent Bedtime", Category: CategorySleep, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Go to bed within the same 30 minute window every night."},
	{ID: "sc2", Name: "Screen Sunset", Category: CategorySleep, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "No screens for the last hour before bed."},
	{ID: "sc3", Name: "Sleep Quality Optimization", Category: CategorySleep, Tier: 2, FuelPoints: 100, DurationDays: 21,
		Description: "Track sleep and keep a sleep score above 85.", ExpertReference: "Matthew Walker, Why We Sleep"},

	{ID: "ec1", Name: "Daily Steps", Category: CategoryExercise, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Walk at least 8,000 steps every day."},
	{ID: "ec2", Name: "Strength Foundation", Category: CategoryExercise, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Three full body strength sessions per week."},
	{ID: "ec3", Name: "Zone 2 Endurance", Category: CategoryExercise, Tier: 2, FuelPoints: 100, DurationDays: 21,
		Description: "150 minutes of zone 2 cardio every week.", ExpertReference: "Peter Attia, Outlive"},

	{ID: "nc1", Name: "Whole Food Plate", Category: CategoryNutrition, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Every meal built around unprocessed foods."},
	{ID: "nc2", Name: "Hydration Habit", Category: CategoryNutrition, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Drink half your body weight in ounces of water daily."},
	{ID: "nc3", Name: "Time Restricted Eating", Category: CategoryNutrition, Tier: 2, FuelPoints: 100, DurationDays: 21,
		Description: "Eat within a 10 hour window every day."},

	{ID: "bc1", Name: "Cold Exposure", Category: CategoryBiohacking, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Two minutes of cold shower daily."},
	{ID: "bc2", Name: "HRV Tracking", Category: CategoryBiohacking, Tier: 1, FuelPoints: 50, DurationDays: 21,
		Description: "Record heart rate variability each morning."},
	{ID: "bc3", Name: "Red Light Protocol", Category: CategoryBiohacking, Tier: 2, FuelPoints: 100, DurationDays: 21,
		Description: "Ten minutes of red light therapy daily."},

	{ID: "xc1", Name: "Community Streak", Category: CategoryBonus, Tier: 1, FuelPoints: 75, DurationDays: 30, Repeatable: true,
		Description: "Log at least one boost every day for 30 days."},
}

var defaultBoosts = []BoostDefinition{
	{ID: "mb1", Name: "Box Breathing", Category: CategoryMindset, FuelPoints: 1, Description: "Four rounds of 4-4-4-4 breathing."},
	{ID: "mb2", Name: "Gratitude Note", Category: CategoryMindset, FuelPoints: 1, Description: "Send a thank you message."},
	{ID: "mb3", Name: "Mindful Walk", Category: CategoryMindset, FuelPoints: 2, Description: "Ten minute walk without a phone."},
	{ID: "mb4", Name: "Digital Detox Hour", Category: CategoryMindset, FuelPoints: 3, Description: "One hour with notifications off.", WeeklyLimit: 3},

	{ID: "sb1", Name: "Morning Sunlight", Category: CategorySleep, FuelPoints: 1, Description: "Ten minutes of outdoor light after waking."},
	{ID: "sb2", Name: "Caffeine Cutoff", Category: CategorySleep, FuelPoints: 1, Description: "No caffeine after 2pm."},
	{ID: "sb3", Name: "Cool Bedroom", Category: CategorySleep, FuelPoints: 1, Description: "Set the bedroom to 65-68F."},
	{ID: "sb4", Name: "Power Nap", Category: CategorySleep, FuelPoints: 2, Description: "A 20 minute nap before 3pm.", WeeklyLimit: 2},

	{ID: "eb1", Name: "Stair Climb", Category: CategoryExercise, FuelPoints: 1, Description: "Take the stairs for every trip today."},
	{ID: "eb2", Name: "Mobility Flow", Category: CategoryExercise, FuelPoints: 1, Description: "Ten minutes of mobility work."},
	{ID: "eb3", Name: "Post Meal Walk", Category: CategoryExercise, FuelPoints: 1, Description: "Walk ten minutes after a meal."},
	{ID: "eb4", Name: "HIIT Session", Category: CategoryExercise, FuelPoints: 3, Description: "A 20 minute interval workout.", WeeklyLimit: 3},

	{ID: "nb1", Name: "Protein Breakfast", Category: CategoryNutrition, FuelPoints: 1, Description: "30g of protein at breakfast."},
	{ID: "nb2", Name: "Five Colors", Category: CategoryNutrition, FuelPoints: 1, Description: "Eat five different colored plants."},
	{ID: "nb3", Name: "No Added Sugar", Category: CategoryNutrition, FuelPoints: 2, Description: "A full day without added sugar."},
	{ID: "nb4", Name: "Fermented Food", Category: CategoryNutrition, FuelPoints: 1, Description: "One serving of fermented food."},

	{ID: "bb1", Name: "Cold Finish", Category: CategoryBiohacking, FuelPoints: 1, Description: "End your shower with 30 seconds of cold."},
	{ID: "bb2", Name: "Grounding", Category: CategoryBiohacking, FuelPoints: 1, Description: "Ten minutes barefoot outdoors."},
	{ID: "bb3", Name: "Sauna Session", Category: CategoryBiohacking, FuelPoints: 3, Description: "A 20 minute sauna session.", WeeklyLimit: 2},
	{ID: "bb4", Name: "Breathwork", Category: CategoryBiohacking, FuelPoints: 2, Description: "Five minutes of paced breathing."},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultCategories, defaultChallenges, defaultBoosts)
	if err != nil {
		panic("built-in catalog invalid: " + err.Error())
	}
	return c
}
