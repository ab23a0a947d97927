package card

import "strings"

// AttemptUnlock checks a recipient response against a photo's riddle.
//
// A photo without a riddle unlocks on any response, including an empty
// "skip". MCQ riddles compare the chosen option verbatim against the
// designated correct option, with no free-text bypass. Text riddles compare
// case-insensitively with surrounding whitespace trimmed.
func AttemptUnlock(photo MazePhoto, response string) bool {
	if !photo.HasRiddle() {
		return true
	}

	if photo.RiddleType == RiddleMCQ {
		return response == photo.RiddleAnswer
	}

	return strings.EqualFold(
		strings.TrimSpace(response),
		strings.TrimSpace(photo.RiddleAnswer),
	)
}

// VerifyAge compares a submitted guess against the stored age. The compare
// is stringwise after trimming: "007" does not verify against 7, " 7 " does.
// The gate is a UX speed bump, not authorization. Repeated guesses are fine.
func VerifyAge(guess string, age string) bool {
	return strings.TrimSpace(guess) == strings.TrimSpace(age)
}

// RansomPhrase is the literal phrase the ransomware stage demands.
const RansomPhrase = "i am old"

// CheckRansomPhrase reports whether the input matches the release phrase,
// case-insensitively with surrounding whitespace trimmed.
func CheckRansomPhrase(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), RansomPhrase)
}
