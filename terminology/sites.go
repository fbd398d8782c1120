package terminology

import sig "github.com/gofhir/sig"

func snomed(code, display string) sig.Concept {
	return sig.Concept{System: sig.SystemSNOMED, Code: code, Display: display}
}

// Eye-side site displays and codes for the ocular abbreviations.
const (
	SiteRightEye = "right eye"
	SiteLeftEye  = "left eye"
	SiteBothEyes = "both eyes"
)

// EyeAbbreviations maps the ocular shorthand tokens to site phrases.
// "od" additionally collides with the once-daily timing abbreviation; the
// parser owns that disambiguation.
var EyeAbbreviations = map[string]string{
	"od": SiteRightEye,
	"os": SiteLeftEye,
	"ou": SiteBothEyes,
}

// IntravitrealCombos maps compound intravitreal tokens to an eye side.
// The bare "ivt" token is a plain route synonym.
var IntravitrealCombos = map[string]string{
	"ivtod": SiteRightEye,
	"ivtos": SiteLeftEye,
	"ivtou": SiteBothEyes,
}

// BodySites maps canonical site phrases to their SNOMED coding.
var BodySites = map[string]sig.Concept{
	SiteRightEye:  snomed("18944008", "Right eye structure"),
	SiteLeftEye:   snomed("8966001", "Left eye structure"),
	SiteBothEyes:  snomed("40638003", "Structure of both eyes"),
	"right ear":   snomed("25577004", "Right ear structure"),
	"left ear":    snomed("89644007", "Left ear structure"),
	"both ears":   snomed("34338003", "Structure of both ears"),
	"left arm":    snomed("368208006", "Left upper arm structure"),
	"right arm":   snomed("368209003", "Right upper arm structure"),
	"left thigh":  snomed("61396006", "Structure of left thigh"),
	"right thigh": snomed("11207009", "Structure of right thigh"),
	"abdomen":     snomed("818983003", "Abdomen structure"),
	"buttock":     snomed("46862004", "Buttock structure"),
	"scalp":       snomed("41695006", "Scalp structure"),
	"chest":       snomed("51185008", "Chest structure"),
	"back":        snomed("77568009", "Back structure"),
	"left knee":   snomed("82169009", "Structure of left knee"),
	"right knee":  snomed("6757004", "Structure of right knee"),
	"nostril":     snomed("1797002", "Nostril structure"),
}

// SiteSynonyms normalizes site phrase variants to the canonical phrase,
// preferring shorter, non-adjectival forms.
var SiteSynonyms = map[string]string{
	"r eye":          SiteRightEye,
	"rt eye":         SiteRightEye,
	"l eye":          SiteLeftEye,
	"lt eye":         SiteLeftEye,
	"each eye":       SiteBothEyes,
	"both eye":       SiteBothEyes,
	"r ear":          "right ear",
	"rt ear":         "right ear",
	"l ear":          "left ear",
	"lt ear":         "left ear",
	"each ear":       "both ears",
	"belly":          "abdomen",
	"stomach":        "abdomen",
	"buttocks":       "buttock",
	"the abdomen":    "abdomen",
	"left upper arm": "left arm",
	"right upper arm": "right arm",
}

// SiteHintWords are body words that anchor free-text site extraction.
var SiteHintWords = map[string]bool{
	"eye": true, "eyes": true,
	"ear": true, "ears": true,
	"arm": true, "arms": true,
	"leg": true, "legs": true,
	"thigh": true, "thighs": true,
	"knee": true, "knees": true,
	"abdomen": true, "belly": true, "stomach": true,
	"buttock": true, "buttocks": true,
	"cheek": true, "cheeks": true,
	"nostril": true, "nostrils": true, "nose": true,
	"scalp": true, "chest": true, "back": true,
	"shoulder": true, "elbow": true, "wrist": true,
	"hand": true, "hands": true,
	"foot": true, "feet": true, "ankle": true,
	"hip": true, "flank": true, "skin": true,
}

// SiteConnectorWords may join or qualify site-hint words and are absorbed
// into the extracted site phrase.
var SiteConnectorWords = map[string]bool{
	"left": true, "right": true, "both": true, "each": true,
	"upper": true, "lower": true, "outer": true, "inner": true,
	"affected": true,
	"to": true, "in": true, "into": true, "on": true, "at": true,
	"the": true, "of": true, "per": true, "via": true, "area": true,
}

// PRNReasons maps canonical reason phrases to their SNOMED coding.
var PRNReasons = map[string]sig.Concept{
	"pain":                snomed("22253000", "Pain"),
	"headache":            snomed("25064002", "Headache"),
	"nausea":              snomed("422587007", "Nausea"),
	"vomiting":            snomed("422400008", "Vomiting"),
	"fever":               snomed("386661006", "Fever"),
	"anxiety":             snomed("48694002", "Anxiety"),
	"insomnia":            snomed("193462001", "Insomnia"),
	"sleep":               snomed("193462001", "Insomnia"),
	"itching":             snomed("418290006", "Itching"),
	"cough":               snomed("49727002", "Cough"),
	"constipation":        snomed("14760008", "Constipation"),
	"diarrhea":            snomed("62315008", "Diarrhea"),
	"shortness of breath": snomed("267036007", "Dyspnea"),
	"wheezing":            snomed("56018004", "Wheezing"),
	"dizziness":           snomed("404640003", "Dizziness"),
	"agitation":           snomed("24199005", "Agitation"),
	"heartburn":           snomed("16331000", "Heartburn"),
	"congestion":          snomed("68235000", "Nasal congestion"),
}

// AdditionalInstructions maps trailing instruction phrases to a coding.
// Unmapped phrases pass through as free text.
var AdditionalInstructions = map[string]sig.Concept{
	"with food":                  snomed("311504000", "With or after food"),
	"take with food":             snomed("311504000", "With or after food"),
	"on an empty stomach":        snomed("717154004", "On an empty stomach"),
	"take on an empty stomach":   snomed("717154004", "On an empty stomach"),
	"do not crush":               snomed("419111009", "Do not crush"),
	"avoid alcohol":              snomed("419511003", "Avoid alcohol"),
	"shake well":                 snomed("129019007", "Shake well before use"),
	"shake well before use":      snomed("129019007", "Shake well before use"),
	"with plenty of water":       snomed("421984009", "With plenty of water"),
	"take with plenty of water":  snomed("421984009", "With plenty of water"),
}
