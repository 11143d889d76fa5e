package topics

// defaultStopwords are function words, greetings and generic request verbs
// that say nothing about what a message is about. Entries of two letters or
// fewer are omitted because the length filter already drops them.
var defaultStopwords = []string{
	// articles, pronouns, determiners
	"the", "this", "that", "these", "those", "there", "their", "theirs", "them", "they",
	"you", "your", "yours", "our", "ours", "her", "hers", "him", "his", "its", "mine",
	"she", "who", "whom", "whose", "what", "which", "some", "any", "all", "each",
	"every", "both", "few", "more", "most", "other", "another", "such", "same", "own",
	"something", "anything", "everything", "nothing", "someone", "anyone", "thing", "things",

	// conjunctions, prepositions, adverbs
	"and", "but", "nor", "for", "yet", "not", "with", "without", "from", "into", "onto",
	"about", "above", "below", "over", "under", "between", "through", "during", "before",
	"after", "again", "further", "then", "than", "once", "here", "when", "where", "why",
	"how", "only", "very", "just", "also", "too", "really", "much", "many", "still",
	"even", "well", "like", "way", "because", "while", "until", "against", "among",
	"per", "via", "instead", "maybe", "perhaps", "actually", "basically",

	// auxiliaries and modals
	"are", "was", "were", "been", "being", "have", "has", "had", "having", "does", "did",
	"doing", "done", "will", "would", "shall", "should", "can", "could", "may", "might",
	"must", "cant", "dont", "doesnt", "didnt", "isnt", "arent", "wasnt", "wont", "wouldnt",
	"shouldnt", "couldnt", "ive", "youre", "thats", "whats", "theres", "lets",

	// greetings and politeness
	"hello", "hey", "hiya", "thanks", "thank", "please", "sorry", "okay", "yes",
	"sure", "great", "cool", "good", "morning", "evening",

	// generic request verbs
	"get", "got", "gets", "make", "makes", "made", "want", "wants", "need", "needs",
	"know", "use", "using", "used", "help", "tell", "give", "show", "explain", "write",
	"create", "find", "try", "trying", "think", "look", "see", "let", "say", "said",
	"going", "work", "working", "take", "put", "keep", "mean", "means", "able",
	"new", "one", "two", "first", "last", "next", "now", "time", "lot", "bit", "kind",
}

// DefaultStopwords returns a copy of the built-in stopword list.
func DefaultStopwords() []string {
	words := make([]string, len(defaultStopwords))
	copy(words, defaultStopwords)
	return words
}
