package model

// Vocab is the allow-list for the open-ended tag fields. The known values
// below cover what the workflows produce today; deployments can extend the
// lists through configuration without a code change.
type Vocab struct {
	reflectionTypes map[ReflectionType]struct{}
	moods           map[Mood]struct{}
}

// KnownReflectionTypes are the reflection tags the coaching workflows emit.
var KnownReflectionTypes = []ReflectionType{
	"reflection",
	"gratitude",
	"procrastination",
	"anxiety",
	"morning_checkin",
	"evening_review",
}

// KnownMoods are the mood tags surfaced by the check-in prompts.
var KnownMoods = []Mood{
	"happy",
	"motivated",
	"neutral",
	"tired",
	"anxious",
	"stressed",
}

// DefaultVocab returns a Vocab holding only the known values.
func DefaultVocab() *Vocab {
	v := &Vocab{
		reflectionTypes: make(map[ReflectionType]struct{}, len(KnownReflectionTypes)),
		moods:           make(map[Mood]struct{}, len(KnownMoods)),
	}
	for _, rt := range KnownReflectionTypes {
		v.reflectionTypes[rt] = struct{}{}
	}
	for _, m := range KnownMoods {
		v.moods[m] = struct{}{}
	}
	return v
}

// Extend adds extra allowed values to the vocabulary. Empty strings are
// ignored.
func (v *Vocab) Extend(reflectionTypes []ReflectionType, moods []Mood) {
	for _, rt := range reflectionTypes {
		if rt != "" {
			v.reflectionTypes[rt] = struct{}{}
		}
	}
	for _, m := range moods {
		if m != "" {
			v.moods[m] = struct{}{}
		}
	}
}

// AllowsReflectionType reports whether rt is in the allow-list.
func (v *Vocab) AllowsReflectionType(rt ReflectionType) bool {
	_, ok := v.reflectionTypes[rt]
	return ok
}

// AllowsMood reports whether m is in the allow-list. The empty mood is
// always allowed: mood is an optional tag.
func (v *Vocab) AllowsMood(m Mood) bool {
	if m == "" {
		return true
	}
	_, ok := v.moods[m]
	return ok
}
