package domain

// OnboardingStep pairs a profile key with the question that fills it.
type OnboardingStep struct {
	Key      string
	Question string
}

// OnboardingScript is the fixed, ordered questionnaire collected before
// open-ended chat is permitted. Each answer is stored verbatim under the
// step's profile key; there is no revision and no skipping. Adding or
// removing a step is a data change here, not a code change.
var OnboardingScript = []OnboardingStep{
	{Key: "read_book", Question: "First things first: have you read the book? A simple yes or no works."},
	{Key: "goal", Question: "What is the one thing you want back the most? That's your anchor."},
	{Key: "triggers", Question: "When does the pull hit hardest — evenings, stress, certain people? Name your traps."},
	{Key: "frequency", Question: "How often has it been lately? No judgement, just the raw picture."},
	{Key: "stop_factor", Question: "Last one. What has stopped you before when you tried to quit?"},
}

// OnboardingCompleteMessage is appended to history exactly once, when the
// final answer is recorded.
const OnboardingCompleteMessage = "Configuration complete. I know enough to be useful now. From here on, you talk, I listen. What's on your mind?"

// OnboardingPosition returns the index of the first unanswered step, or
// (len(OnboardingScript), true) when every required key is present.
func OnboardingPosition(profile map[string]string) (int, bool) {
	for i, step := range OnboardingScript {
		if _, ok := profile[step.Key]; !ok {
			return i, false
		}
	}
	return len(OnboardingScript), true
}
