package data

import "trackreplay/model"

func subject(id int) *int { return &id }

// DemoRace returns the built-in 800m heat: eleven runners on a six lane 200m
// indoor track, with commentary keyed to the leaders and to bib 10.
func DemoRace() *model.Race {
	r := &model.Race{
		Name:         "800m Championship Heat",
		PreRaceStart: model.DefaultPreRaceStart,
		Track:        model.DefaultTrackConfig(),
		Competitors: []model.Competitor{
			{ID: 1, Name: "MA", FullName: "Melodi", Team: "Team Blue", Age: 13, Bib: 2, Color: "#3B82F6", Splits: []float64{0, 32.94, 68.67, 105.05, 141.58}},
			{ID: 2, Name: "PD", FullName: "Parvati", Team: "Team Red", Age: 13, Bib: 3, Color: "#60A5FA", Splits: []float64{0, 33.86, 70.82, 108.62, 146.73}},
			{ID: 3, Name: "RM", FullName: "Reid", Team: "Team Green", Age: 13, Bib: 5, Color: "#93C5FD", Splits: []float64{0, 33.63, 71.49, 111.25, 149.88}},
			{ID: 4, Name: "EH", FullName: "Ephie", Team: "Team Blue", Age: 14, Bib: 4, Color: "#93C5FD", Splits: []float64{0, 34.52, 72.14, 110.78, 150.0}},
			{ID: 5, Name: "UD", FullName: "Uma", Team: "Team Red", Age: 13, Bib: 6, Color: "#6B7280", Splits: []float64{0, 35.31, 76.86, 122.48, 168.78}},
			{ID: 6, Name: "DW", FullName: "Demi", Team: "Team Yellow", Age: 13, Bib: 8, Color: "#6B7280", Splits: []float64{0, 38.74, 85.49, 135.17, 174.25}},
			{ID: 7, Name: "JR", FullName: "Jahzara", Team: "Team Purple", Age: 11, Bib: 7, Color: "#6B7280", Splits: []float64{0, 34.85, 76.55, 125.96, 178.73}},
			{ID: 8, Name: "SF", FullName: "Skye", Team: "Flyers TC", Age: 10, Bib: 10, Color: "#F97316", Splits: []float64{0, 41.53, 88.55, 136.83, 184.27}, Highlighted: true},
			{ID: 9, Name: "MS", FullName: "Margeaux", Team: "Team Orange", Age: 10, Bib: 9, Color: "#9CA3AF", Splits: []float64{0, 42.87, 91.37, 144.0, 190.71}},
			{ID: 10, Name: "CH", FullName: "Cato", Team: "Team Green", Age: 10, Bib: 11, Color: "#9CA3AF", Splits: []float64{0, 42.25, 91.72, 144.35, 192.25}},
			{ID: 11, Name: "EM", FullName: "Emma", Team: "Team Orange", Age: 10, Bib: 12, Color: "#4B5563", Splits: []float64{0, 41.91, 92.76, 148.49, 206.0}},
		},
		Catalog: []model.CatalogEntry{
			{ID: 0, Clip: "commentary/commentary_00.mp3", Text: "Welcome to the 800 meter championship heat. Eleven runners on the line, ages 10 to 14. Watch for Melodi (2), the top seed. And Skye (10), just 10 years old racing against older athletes."},
			{ID: 1, Clip: "commentary/commentary_01.mp3", Text: "Runners set. Clean start. Melodi (2) immediately establishing position on the rail."},
			{ID: 2, Clip: "commentary/commentary_02.mp3", Text: "Melodi (2) out fast through the first hundred. Committing to a front-running strategy.", SubjectID: subject(1)},
			{ID: 3, Clip: "commentary/commentary_03.mp3", Text: "Field stringing out. Separation between front pack and chase group. This is where tactical decisions matter."},
			{ID: 4, Clip: "commentary/commentary_04.mp3", Text: "Thirty-two nine for Melodi (2) at the two hundred. Aggressive pacing. The question is whether she can hold this through the middle.", SubjectID: subject(1)},
			{ID: 5, Clip: "commentary/commentary_05.mp3", Text: "Now Skye (10) coming through the first two hundred. Forty-one flat. Smart controlled start. Eight seconds back, not pulled out by the fast early pace.", SubjectID: subject(8)},
			{ID: 6, Clip: "commentary/commentary_06.mp3", Text: "Middle pack feeling the gap. Parvati (3) and Reid (5) trying to hold contact with Melodi (2) but she's pulling away. Decision point: go with the leader or run your own race.", SubjectID: subject(2)},
			{ID: 7, Clip: "commentary/commentary_07.mp3", Text: "Four hundred meters. Melodi (2) still commanding at one oh eight. The chase pack about five meters back.", SubjectID: subject(1)},
			{ID: 8, Clip: "commentary/commentary_08.mp3", Text: "One oh eight at the bell for Melodi (2). That was a thirty-five second lap. She's slowing. How much does she have left?", SubjectID: subject(1)},
			{ID: 9, Clip: "commentary/commentary_09.mp3", Text: "Here's where it gets interesting. Skye (10) just split one twenty-eight for the first four hundred. Negative split pacing. While others fade, she's maintaining.", SubjectID: subject(8)},
			{ID: 10, Clip: "commentary/commentary_10.mp3", Text: "Look at the separation. The field is completely strung out. Skye (10) sitting in eighth, twenty meters off the lead but perfect position to move up.", SubjectID: subject(8)},
			{ID: 11, Clip: "commentary/commentary_11.mp3", Text: "Six hundred meter mark. This is where the race is decided. Melodi's lead shrinking but she's still out front."},
			{ID: 12, Clip: "commentary/commentary_12.mp3", Text: "One forty-five for Melodi (2) through six hundred. She's paying for that early pace but still fighting. Can she hold on?", SubjectID: subject(1)},
			{ID: 13, Clip: "commentary/commentary_13.mp3", Text: "Skye (10) through six hundred in two sixteen. She's running people down. Closing on the field while others are tying up.", SubjectID: subject(8)},
			{ID: 14, Clip: "commentary/commentary_14.mp3", Text: "One hundred meters to go for Melodi (2). She's going to win this but watch the clock. Can she break two twenty-two?", SubjectID: subject(1)},
			{ID: 15, Clip: "commentary/commentary_15.mp3", Text: "Skye (10) flying now. Passing people. All that patience early is paying off. Moved up to eighth and still closing.", SubjectID: subject(8)},
			{ID: 16, Clip: "commentary/commentary_16.mp3", Text: "Two twenty-one fifty-eight for Melodi (2). Outstanding performance. She held on after going out hard.", SubjectID: subject(1)},
			{ID: 17, Clip: "commentary/commentary_17.mp3", Text: "But watch Skye (10) coming home. Still moving. Forty-seven second final lap after a controlled start. That's how you negative split an eight hundred.", SubjectID: subject(8)},
			{ID: 18, Clip: "commentary/commentary_18.mp3", Text: "Fifty meters to go for Skye (10). She's gutting it out. Holding her pace while the early leaders are done.", SubjectID: subject(8)},
			{ID: 19, Clip: "commentary/commentary_19.mp3", Text: "Three oh four twenty-seven. Massive personal record for Skye (10). Twenty second improvement. That negative split strategy executed perfectly.", SubjectID: subject(8)},
			{ID: 20, Clip: "commentary/commentary_20.mp3", Text: "Margeaux (9) crosses in three ten. Strong finish from the chase pack.", SubjectID: subject(9)},
			{ID: 21, Clip: "commentary/commentary_21.mp3", Text: "What a race. From Melodi's dominant front-running to Skye's brilliant negative split. Two different strategies, both executed beautifully."},
		},
		Globals: []model.GlobalEvent{
			{Kind: model.TriggerTime, Trigger: model.DefaultPreRaceStart, EventID: 0, Desc: "Pre-race intro"},
			{Kind: model.TriggerDistance, Trigger: 130, EventID: 3, Desc: "Field separation"},
			{Kind: model.TriggerDistance, Trigger: 250, EventID: 6, Desc: "Middle pack analysis"},
			{Kind: model.TriggerDistance, Trigger: 450, EventID: 10, Desc: "Field strung out"},
			{Kind: model.TriggerTime, Trigger: 198, EventID: 21, Desc: "Race summary"},
		},
		Checkpoints: map[int][]model.Checkpoint{
			1: {
				{Distance: 0, EventID: 1, Desc: "Start"},
				{Distance: 100, EventID: 2, Desc: "First 100m"},
				{Distance: 200, EventID: 4, Desc: "200m split"},
				{Distance: 380, EventID: 7, Desc: "Approaching 400m"},
				{Distance: 400, EventID: 8, Desc: "400m bell"},
				{Distance: 580, EventID: 11, Desc: "600m approaching"},
				{Distance: 600, EventID: 12, Desc: "600m split"},
				{Distance: 700, EventID: 14, Desc: "Final 100m"},
				{Distance: 800, EventID: 16, Desc: "Finish"},
			},
			8: {
				{Distance: 200, EventID: 5, Desc: "200m split"},
				{Distance: 400, EventID: 9, Desc: "400m split"},
				{Distance: 600, EventID: 13, Desc: "600m split"},
				{Distance: 720, EventID: 15, Desc: "Closing"},
				{Distance: 750, EventID: 17, Desc: "Final analysis"},
				{Distance: 750, EventID: 18, Desc: "50m to go"},
				{Distance: 800, EventID: 19, Desc: "Finish PR"},
			},
			9: {
				{Distance: 800, EventID: 20, Desc: "Finish"},
			},
		},
	}
	if err := r.Validate(); err != nil {
		panic(err)
	}
	return r
}
