package events

// painKey indexes the narrative pain string library by source and
// intensity (design doc Section 4.6).
type painKey struct {
	Source    string
	Intensity string
}

// painLibrary is the fixed set of narrative strings surfaced with each
// pain message. Every (source, intensity) pair named in the design doc
// has an entry here.
var painLibrary = map[painKey]string{
	{"hunger", "mild"}:   "A gnawing hunger has set in.",
	{"hunger", "severe"}: "Hunger claws at the stomach, hard to ignore.",
	{"hunger", "agony"}:  "Starvation — every thought bends toward food.",

	{"thirst", "mild"}:   "The mouth feels dry and cottony.",
	{"thirst", "severe"}: "Thirst burns, each breath tastes of dust.",
	{"thirst", "agony"}:  "Dehydration — the world swims at the edges.",

	{"social", "mild"}:   "A quiet loneliness settles in.",
	{"social", "severe"}: "The isolation is heavy, hard to shake.",
	{"social", "agony"}:  "Crushing loneliness, desperate for a familiar voice.",

	{"health", "mild"}:   "A dull ache runs through the body.",
	{"health", "severe"}: "Pain sharpens with every movement.",
	{"health", "agony"}:  "The body is failing, each second a struggle.",
}
