package synthetic

// Category is a named group of words that should land in one cluster.
type Category struct {
	Name  string
	Words []string
}

// Categories returns the curated word groups used for demo data. Every
// group is meant to form a distinct semantic cluster.
func Categories() []Category {
	return []Category{
		{"animals", []string{
			"dog", "cat", "wolf", "lion", "tiger", "elephant", "giraffe", "zebra",
			"eagle", "hawk", "sparrow", "penguin", "dolphin", "whale", "shark", "salmon",
		}},
		{"colors", []string{
			"red", "blue", "green", "yellow", "purple", "orange", "pink", "black",
			"white", "gray", "crimson", "azure", "emerald", "gold", "silver", "indigo",
		}},
		{"emotions", []string{
			"happy", "sad", "angry", "fearful", "surprised", "disgusted", "anxious", "calm",
			"excited", "bored", "grateful", "jealous", "proud", "ashamed", "hopeful", "melancholy",
		}},
		{"food", []string{
			"pizza", "burger", "sushi", "pasta", "salad", "steak", "bread", "cheese",
			"apple", "banana", "mango", "grape", "strawberry", "chocolate", "cake", "ice cream",
		}},
		{"music", []string{
			"guitar", "piano", "drums", "violin", "trumpet", "flute", "bass", "saxophone",
			"jazz", "rock", "classical", "blues", "hip hop", "country", "metal", "electronic",
		}},
		{"sports", []string{
			"soccer", "basketball", "tennis", "golf", "baseball", "hockey", "football", "volleyball",
			"swimming", "running", "cycling", "boxing", "wrestling", "skiing", "surfing", "climbing",
		}},
		{"weather", []string{
			"sunny", "rainy", "cloudy", "snowy", "windy", "foggy", "stormy", "humid",
			"freezing", "scorching", "drizzle", "thunder", "lightning", "hail", "frost", "drought",
		}},
		{"tech", []string{
			"computer", "keyboard", "monitor", "mouse", "server", "database", "algorithm", "network",
			"internet", "software", "hardware", "compiler", "debugger", "terminal", "browser", "encryption",
		}},
	}
}
